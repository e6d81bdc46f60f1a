/*
   Implemets Google famous and first
   PageRank algorithm https://en.wikipedia.org/wiki/PageRank
   over a small, fully-loaded corpus graph.
*/
package ranker

import (
	"github.com/Ahmed-Sermani/corpusrank/corpus"
	"golang.org/x/xerrors"
)

/*
   PageRank works by counting the number and quality of links to
   a page to determine a rough estimate of how important the page is.
   The underlying assumption is that more important pages are likely
   to receive more links from other pages.

   To calculate the score for each page in the corpus, both estimators
   in this package utilize the model of the random surfer. Under this
   model, a surfer performs an initial search and lands on a page from
   the corpus. From that point on, surfers randomly select one of the
   following two options:

       They can follow any outgoing link from the current page and
       navigate to a new page. Surfers choose this option with a
       predefined probability that we will be referring to with the
       term damping factor.

       Alternatively, they can decide to run a new search query. This
       decision has the effect of teleporting the surfer to a random
       page in the corpus.

   The package provides two independent estimators for the resulting
   stationary distribution:

       Sampler approximates it by actually performing a long random
       walk of the corpus graph and counting page visits.

       Solver computes it by repeatedly applying the PageRank
       recurrence until the scores stabilize.

   By definition, we expect the following to occur for either estimator:
       Each PageRank score should be a value in the [0, 1] range
       The sum of all assigned PageRank scores should be equal to 1
*/

var (
	// ErrInvalidDampingFactor indicates a damping factor outside the open
	// interval (0, 1).
	ErrInvalidDampingFactor = xerrors.New("damping factor must be strictly between 0 and 1")

	// ErrInvalidSampleCount indicates a non-positive sample count.
	ErrInvalidSampleCount = xerrors.New("sample count must be a positive integer")

	// ErrDidNotConverge indicates that the iterative solver exhausted its
	// configured iteration or run-time bound before every page converged.
	ErrDidNotConverge = xerrors.New("ranks did not converge within the configured bounds")
)

// Distribution maps every page in the corpus to the probability that a random
// surfer visits it next. The values of a valid Distribution sum to 1.
type Distribution map[string]float64

// Scores maps every page in the corpus to its estimated PageRank score. The
// values of a valid Scores mapping sum to 1.
type Scores map[string]float64

// Sum returns the total rank mass assigned across the corpus.
func (s Scores) Sum() float64 {
	var sum float64
	for _, score := range s {
		sum += score
	}
	return sum
}

// validateGraph ensures a graph is usable by the estimators. A link target
// outside the corpus would silently leak probability mass, so closure is
// checked up front rather than trusted.
func validateGraph(g corpus.Graph) error {
	if err := g.Validate(); err != nil {
		return xerrors.Errorf("validate graph: %w", err)
	}
	return nil
}

func validDampingFactor(d float64) bool { return d > 0 && d < 1 }
