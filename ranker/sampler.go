package ranker

import (
	"context"
	"io"
	"math/rand"
	"sort"
	"time"

	"github.com/Ahmed-Sermani/corpusrank/corpus"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// ctxCheckInterval controls how many samples are drawn between checks for
// context cancellation.
const ctxCheckInterval = 1024

// SamplerConfig encapsulates the configuration options for a Sampler.
type SamplerConfig struct {
	// DampingFactor is the probability that the random surfer follows one
	// of the current page's outgoing links instead of teleporting to a
	// random corpus page. Must be strictly between 0 and 1.
	DampingFactor float64

	// SampleCount is the total number of pages the random surfer visits.
	// Must be a positive integer.
	SampleCount int

	// Rand is the source of randomness for the walk. If not defined, a
	// time-seeded source is used. Supplying a fixed-seed source makes the
	// walk reproducible.
	Rand *rand.Rand

	// Logger for the sampler. If not defined, a no-op logger is used.
	Logger *logrus.Entry
}

func (cfg *SamplerConfig) validate() error {
	var err error
	if !validDampingFactor(cfg.DampingFactor) {
		err = multierror.Append(err, xerrors.Errorf("got %v: %w", cfg.DampingFactor, ErrInvalidDampingFactor))
	}
	if cfg.SampleCount <= 0 {
		err = multierror.Append(err, xerrors.Errorf("got %d: %w", cfg.SampleCount, ErrInvalidSampleCount))
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}
	return err
}

// Sampler estimates PageRank scores by simulating the random surfer: it
// performs a long random walk driven by the transition model and derives each
// page's score from its visit frequency. Estimates converge to the true
// PageRank distribution as the sample count grows.
type Sampler struct {
	cfg SamplerConfig
}

// NewSampler returns a new Sampler instance using the provided config options.
func NewSampler(cfg SamplerConfig) (*Sampler, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("sampler config validation failed: %w", err)
	}
	return &Sampler{cfg: cfg}, nil
}

// Ranks walks the corpus graph for the configured number of samples and
// returns the visit frequency of every page. Each sample contributes exactly
// 1/SampleCount to exactly one page, so the returned scores sum to 1.
func (s *Sampler) Ranks(ctx context.Context, g corpus.Graph) (Scores, error) {
	if err := validateGraph(g); err != nil {
		return nil, err
	}

	// Pages are kept in lexicographic order so that a seeded random
	// source always maps to the same walk.
	pages := g.Pages()
	visits := make(map[string]int, len(pages))

	current := pages[s.cfg.Rand.Intn(len(pages))]
	visits[current]++

	cumulative := make([]float64, len(pages))
	for i := 1; i < s.cfg.SampleCount; i++ {
		if i%ctxCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		dist, err := Transition(g, current, s.cfg.DampingFactor)
		if err != nil {
			return nil, err
		}
		current = s.draw(pages, dist, cumulative)
		visits[current]++
	}

	ranks := make(Scores, len(pages))
	for _, page := range pages {
		ranks[page] = float64(visits[page]) / float64(s.cfg.SampleCount)
	}
	s.cfg.Logger.WithFields(logrus.Fields{
		"pages":   len(pages),
		"samples": s.cfg.SampleCount,
	}).Info("completed rank estimation by sampling")
	return ranks, nil
}

// draw performs a weighted random choice over dist by building its cumulative
// form and mapping a uniform draw onto it via binary search. The cumulative
// buffer is provided by the caller so it can be reused between samples.
func (s *Sampler) draw(pages []string, dist Distribution, cumulative []float64) string {
	var sum float64
	for i, page := range pages {
		sum += dist[page]
		cumulative[i] = sum
	}

	idx := sort.SearchFloat64s(cumulative, s.cfg.Rand.Float64()*sum)
	if idx == len(pages) {
		// Guard against the uniform draw landing exactly on the total
		// cumulative mass.
		idx--
	}
	return pages[idx]
}
