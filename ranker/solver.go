package ranker

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/Ahmed-Sermani/corpusrank/corpus"
	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// SolverConfig encapsulates the configuration options for a Solver.
type SolverConfig struct {
	// DampingFactor is the probability that the random surfer follows one
	// of the current page's outgoing links instead of teleporting to a
	// random corpus page. Must be strictly between 0 and 1.
	DampingFactor float64

	// MaxIterations bounds the number of rounds the solver executes before
	// giving up with ErrDidNotConverge. If zero, no bound is applied.
	MaxIterations int

	// MaxRunTime bounds the wall-clock time the solver may spend before
	// giving up with ErrDidNotConverge. If zero, no bound is applied.
	MaxRunTime time.Duration

	// Clock is used to enforce MaxRunTime. If not defined, the wall clock
	// is used.
	Clock clock.Clock

	// Logger for the solver. If not defined, a no-op logger is used.
	Logger *logrus.Entry
}

func (cfg *SolverConfig) validate() error {
	var err error
	if !validDampingFactor(cfg.DampingFactor) {
		err = multierror.Append(err, xerrors.Errorf("got %v: %w", cfg.DampingFactor, ErrInvalidDampingFactor))
	}
	if cfg.MaxIterations < 0 {
		err = multierror.Append(err, xerrors.Errorf("max iterations must not be negative; got %d", cfg.MaxIterations))
	}
	if cfg.MaxRunTime < 0 {
		err = multierror.Append(err, xerrors.Errorf("max run time must not be negative; got %v", cfg.MaxRunTime))
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}
	return err
}

// Solver computes PageRank scores by repeatedly applying the PageRank
// recurrence until every page's score has stabilized. The computation is
// deterministic: the same corpus and damping factor always yield the same
// scores.
type Solver struct {
	cfg SolverConfig
}

// NewSolver returns a new Solver instance using the provided config options.
func NewSolver(cfg SolverConfig) (*Solver, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("solver config validation failed: %w", err)
	}
	return &Solver{cfg: cfg}, nil
}

// Ranks iterates the PageRank recurrence starting from a uniform score of
// 1/N per page and returns the first fully-converged score mapping.
//
// On each round the new score of page p is
//
//	(1-d)/N + d * sum(contribution(q, p) for every page q)
//
// where a page q that links to p contributes prevScore(q)/outDegree(q) and a
// dangling page q additionally spreads prevScore(q)/N to every page in the
// corpus. Folding the dangling mass back in keeps the total score mass at 1.
func (s *Solver) Ranks(ctx context.Context, g corpus.Graph) (Scores, error) {
	if err := validateGraph(g); err != nil {
		return nil, err
	}

	// Contributions are accumulated in lexicographic page order: map
	// iteration order varies between runs, and with it the floating-point
	// rounding of the per-page sum.
	pages := g.Pages()
	pageCount := float64(len(g))
	prev := make(Scores, len(g))
	for _, page := range pages {
		prev[page] = 1.0 / pageCount
	}

	startedAt := s.cfg.Clock.Now()
	for round := 1; ; round++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if s.cfg.MaxIterations > 0 && round > s.cfg.MaxIterations {
			return nil, xerrors.Errorf("no convergence after %d iterations: %w", s.cfg.MaxIterations, ErrDidNotConverge)
		}
		if s.cfg.MaxRunTime > 0 && s.cfg.Clock.Now().Sub(startedAt) > s.cfg.MaxRunTime {
			return nil, xerrors.Errorf("no convergence after %v: %w", s.cfg.MaxRunTime, ErrDidNotConverge)
		}

		next := make(Scores, len(g))
		converged := true
		for _, page := range pages {
			var sum float64
			for _, q := range pages {
				links := g[q]
				if _, linked := links[page]; linked {
					sum += prev[q] / float64(len(links))
				}
				if len(links) == 0 {
					// A dangling page spreads its score across
					// the whole corpus, on top of any direct
					// link contributions the page receives.
					sum += prev[q] / pageCount
				}
			}
			next[page] = (1.0-s.cfg.DampingFactor)/pageCount + s.cfg.DampingFactor*sum

			if !scoreConverged(next[page], prev[page]) {
				converged = false
			}
		}

		if converged {
			s.cfg.Logger.WithFields(logrus.Fields{
				"pages":  len(g),
				"rounds": round,
			}).Info("completed rank computation by iteration")
			return next, nil
		}
		prev = next
	}
}

// scoreConverged reports whether a page's score moved by at most 0.001
// between rounds. Both scores are truncated to 4 decimal places and their
// absolute difference is truncated to 3 before comparing, so a raw delta of
// up to just under 0.002 can still pass. Truncation rather than rounding is
// load-bearing here: it decides the exact round on which iteration stops.
func scoreConverged(cur, prev float64) bool {
	delta := math.Abs(math.Trunc(cur*1e4)/1e4 - math.Trunc(prev*1e4)/1e4)
	return math.Trunc(delta*1e3) <= 1.0
}
