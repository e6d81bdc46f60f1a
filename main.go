package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/Ahmed-Sermani/corpusrank/corpus"
	"github.com/Ahmed-Sermani/corpusrank/corpus/htmldir"
	"github.com/Ahmed-Sermani/corpusrank/ranker"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	appName = "corpusrank"
	appSha  = ""
)

func main() {
	var (
		dampingFactor = flag.Float64("damping-factor", 0.85, "The probability that the random surfer follows a link instead of teleporting to a random page")
		sampleCount   = flag.Int("sample-count", 10000, "The number of samples drawn by the sampling estimator")
		maxIterations = flag.Int("max-iterations", 0, "The maximum number of rounds the iterative solver may run before failing; 0 disables the bound")
		showTitles    = flag.Bool("show-titles", false, "Print the extracted page title next to each rank")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] CORPUS_DIR\n", appName)
		flag.PrintDefaults()
		os.Exit(2)
	}

	rootLogger := logrus.New()
	logger := rootLogger.WithFields(logrus.Fields{
		"app":    appName,
		"sha":    appSha,
		"run_id": uuid.NewString(),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGHUP)
	defer cancel()

	if err := run(ctx, logger, flag.Arg(0), *dampingFactor, *sampleCount, *maxIterations, *showTitles); err != nil {
		logger.WithField("err", err).Error("rank computation failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *logrus.Entry, corpusDir string, dampingFactor float64, sampleCount, maxIterations int, showTitles bool) error {
	loader := htmldir.NewLoader(htmldir.Config{
		Logger: logger.WithField("component", "loader"),
	})
	c, err := loader.Load(corpusDir)
	if err != nil {
		return err
	}
	logger.WithField("pages", len(c.Graph())).Info("corpus loaded")

	sampler, err := ranker.NewSampler(ranker.SamplerConfig{
		DampingFactor: dampingFactor,
		SampleCount:   sampleCount,
		Logger:        logger.WithField("component", "sampler"),
	})
	if err != nil {
		return err
	}
	sampled, err := sampler.Ranks(ctx, c.Graph())
	if err != nil {
		return err
	}
	printRanks(fmt.Sprintf("PageRank Results from Sampling (n = %d)", sampleCount), sampled, c, showTitles)

	solver, err := ranker.NewSolver(ranker.SolverConfig{
		DampingFactor: dampingFactor,
		MaxIterations: maxIterations,
		Logger:        logger.WithField("component", "solver"),
	})
	if err != nil {
		return err
	}
	iterated, err := solver.Ranks(ctx, c.Graph())
	if err != nil {
		return err
	}
	printRanks("PageRank Results from Iteration", iterated, c, showTitles)
	return nil
}

func printRanks(header string, ranks ranker.Scores, c *corpus.Corpus, showTitles bool) {
	pages := make([]string, 0, len(ranks))
	for page := range ranks {
		pages = append(pages, page)
	}
	sort.Strings(pages)

	fmt.Println(header)
	for _, page := range pages {
		if doc := c.Document(page); showTitles && doc != nil && doc.Title != "" {
			fmt.Printf("  %s: %.4f (%s)\n", page, ranks[page], doc.Title)
			continue
		}
		fmt.Printf("  %s: %.4f\n", page, ranks[page])
	}
}
