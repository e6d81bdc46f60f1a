/*
   Loads a corpus out of a directory of HTML pages. Each *.html file in the
   directory becomes a page whose identifier is the file name; anchor hrefs
   that resolve to another file in the same directory become graph edges.
*/
package htmldir

import (
	"bytes"
	stdhtml "html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Ahmed-Sermani/corpusrank/corpus"
	"github.com/hashicorp/go-multierror"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/xerrors"
)

var repeatedSpaceRegex = regexp.MustCompile(`\s+`)

// Config encapsulates the configuration options for a Loader.
type Config struct {
	// Logger for the loader. If not defined, a no-op logger is used.
	Logger *logrus.Entry
}

// Loader builds corpus.Corpus instances out of directories of HTML pages.
type Loader struct {
	logger *logrus.Entry

	// policy strips all markup so the plain page text can be retained
	// alongside the link graph.
	policy *bluemonday.Policy
}

// NewLoader returns a Loader that uses the provided config options.
func NewLoader(cfg Config) *Loader {
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}
	return &Loader{
		logger: cfg.Logger,
		policy: bluemonday.StrictPolicy(),
	}
}

// Load parses every HTML page under dir and assembles the corpus link graph.
// Pages that fail to parse are skipped; Load fails if dir cannot be read or
// yields no parseable page at all.
func (l *Loader) Load(dir string) (*corpus.Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, xerrors.Errorf("load corpus: %w", err)
	}

	var (
		docs     []*corpus.Document
		outLinks = make(map[string][]string)
		pageErr  error
	)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}

		doc, links, err := l.parsePage(dir, entry.Name())
		if err != nil {
			l.logger.WithField("page", entry.Name()).WithField("err", err).Warn("skipping unparseable page")
			pageErr = multierror.Append(pageErr, err)
			continue
		}
		docs = append(docs, doc)
		outLinks[doc.Name] = links
	}

	if len(docs) == 0 {
		if pageErr != nil {
			pageErr = multierror.Append(pageErr, corpus.ErrNoPages)
			return nil, xerrors.Errorf("load corpus %q: %w", dir, pageErr)
		}
		return nil, xerrors.Errorf("load corpus %q: %w", dir, corpus.ErrNoPages)
	}
	return corpus.New(docs, outLinks)
}

// parsePage extracts the anchor targets, title and plain text content of a
// single HTML page.
func (l *Loader) parsePage(dir, name string) (*corpus.Document, []string, error) {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, nil, xerrors.Errorf("read page %q: %w", name, err)
	}

	var (
		links   []string
		title   strings.Builder
		inTitle bool
	)
	tokenizer := html.NewTokenizer(bytes.NewReader(raw))
tokenLoop:
	for {
		tokenType := tokenizer.Next()
		switch tokenType {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != io.EOF {
				return nil, nil, xerrors.Errorf("parse page %q: %w", name, err)
			}
			break tokenLoop
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			switch {
			case token.Data == "a":
				for _, attr := range token.Attr {
					if attr.Key == "href" && attr.Val != "" {
						links = append(links, attr.Val)
					}
				}
			case token.Data == "title" && tokenType == html.StartTagToken:
				inTitle = true
			}
		case html.EndTagToken:
			if tokenizer.Token().Data == "title" {
				inTitle = false
			}
		case html.TextToken:
			if inTitle {
				title.Write(tokenizer.Text())
			}
		}
	}

	doc := &corpus.Document{
		Name:    name,
		Title:   collapseSpace(title.String()),
		Content: collapseSpace(stdhtml.UnescapeString(l.policy.Sanitize(string(raw)))),
	}
	return doc, links, nil
}

func collapseSpace(s string) string {
	return strings.TrimSpace(repeatedSpaceRegex.ReplaceAllString(s, " "))
}
