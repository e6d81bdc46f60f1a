/*
   Models a small, closed corpus of interlinked documents as a directed
   graph that the rank estimators can walk.
*/
package corpus

import (
	"sort"

	"golang.org/x/xerrors"
)

var (
	// ErrNoPages indicates that a corpus source contained no parseable pages.
	ErrNoPages = xerrors.New("corpus contains no parseable pages")

	// ErrEmptyGraph indicates an attempt to operate on a graph with no pages.
	ErrEmptyGraph = xerrors.New("corpus graph contains no pages")

	// ErrUnknownPage indicates a lookup for a page that is not part of the corpus.
	ErrUnknownPage = xerrors.New("page is not part of the corpus")
)

// LinkSet holds the distinct outgoing link targets of a single page.
type LinkSet map[string]struct{}

// Graph maps each page in the corpus to the set of corpus pages it links to.
// A page that links to no other page (an empty LinkSet) is a dangling page.
// Graphs are never mutated after construction; the estimators only read them.
type Graph map[string]LinkSet

// Has returns true if page is part of the corpus.
func (g Graph) Has(page string) bool {
	_, ok := g[page]
	return ok
}

// Links returns the set of pages that page links to.
func (g Graph) Links(page string) LinkSet { return g[page] }

// OutDegree returns the number of outgoing links for page.
func (g Graph) OutDegree(page string) int { return len(g[page]) }

// Pages returns the page identifiers of the corpus in lexicographic order.
func (g Graph) Pages() []string {
	pages := make([]string, 0, len(g))
	for page := range g {
		pages = append(pages, page)
	}
	sort.Strings(pages)
	return pages
}

// Validate checks that the graph can be fed to the rank estimators.
func (g Graph) Validate() error {
	if len(g) == 0 {
		return ErrEmptyGraph
	}
	for page, links := range g {
		for target := range links {
			if !g.Has(target) {
				return xerrors.Errorf("link from %q to %q: %w", page, target, ErrUnknownPage)
			}
		}
	}
	return nil
}

// Document captures the metadata extracted from a single corpus page.
type Document struct {
	// Name is the page identifier within the corpus.
	Name string

	// Title corresponds to the value of the <title> element if the page
	// defines one.
	Title string

	// Content stores the block of text that was extracted from the page
	// markup.
	Content string
}

// Corpus bundles the link graph with the per-page documents it was built from.
type Corpus struct {
	graph Graph
	docs  map[string]*Document
}

// New assembles a Corpus out of the provided documents and their raw outgoing
// links. Self-links and links that do not resolve to a document in the corpus
// are dropped; duplicate link targets collapse into a single edge.
func New(docs []*Document, outLinks map[string][]string) (*Corpus, error) {
	if len(docs) == 0 {
		return nil, ErrNoPages
	}

	c := &Corpus{
		graph: make(Graph, len(docs)),
		docs:  make(map[string]*Document, len(docs)),
	}
	for _, doc := range docs {
		if _, exists := c.docs[doc.Name]; exists {
			return nil, xerrors.Errorf("duplicate page %q in corpus", doc.Name)
		}
		c.docs[doc.Name] = doc
		c.graph[doc.Name] = make(LinkSet)
	}

	for page, targets := range outLinks {
		if !c.graph.Has(page) {
			return nil, xerrors.Errorf("links for %q: %w", page, ErrUnknownPage)
		}
		for _, target := range targets {
			if target == page || !c.graph.Has(target) {
				continue
			}
			c.graph[page][target] = struct{}{}
		}
	}
	return c, nil
}

// Graph returns the link graph of the corpus.
func (c *Corpus) Graph() Graph { return c.graph }

// Document returns the document for the specified page or nil if the page is
// not part of the corpus.
func (c *Corpus) Document(page string) *Document { return c.docs[page] }
