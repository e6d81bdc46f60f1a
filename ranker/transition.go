package ranker

import (
	"github.com/Ahmed-Sermani/corpusrank/corpus"
	"golang.org/x/xerrors"
)

// Transition returns the probability distribution over which page a random
// surfer standing on page visits next.
//
// With probability dampingFactor the surfer follows one of page's outgoing
// links chosen uniformly at random; with probability 1-dampingFactor it
// teleports to a page chosen uniformly among the whole corpus. A dangling
// page has no link to follow, so the surfer always teleports: the returned
// distribution is uniform.
func Transition(g corpus.Graph, page string, dampingFactor float64) (Distribution, error) {
	if err := validateGraph(g); err != nil {
		return nil, err
	}
	if !validDampingFactor(dampingFactor) {
		return nil, xerrors.Errorf("transition: got %v: %w", dampingFactor, ErrInvalidDampingFactor)
	}
	links, ok := g[page]
	if !ok {
		return nil, xerrors.Errorf("transition from %q: %w", page, corpus.ErrUnknownPage)
	}

	pageCount := float64(len(g))
	dist := make(Distribution, len(g))

	if len(links) == 0 {
		for p := range g {
			dist[p] = 1.0 / pageCount
		}
		return dist, nil
	}

	teleportProb := (1.0 - dampingFactor) / pageCount
	followProb := dampingFactor / float64(len(links))
	for p := range g {
		dist[p] = teleportProb
		if _, linked := links[p]; linked {
			dist[p] += followProb
		}
	}
	return dist, nil
}
