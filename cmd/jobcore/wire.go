package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fwojciec/jobcore"
	"github.com/fwojciec/jobcore/bloom"
	"github.com/fwojciec/jobcore/company"
	"github.com/fwojciec/jobcore/dedup"
	"github.com/fwojciec/jobcore/extract"
	"github.com/fwojciec/jobcore/goquery"
	"github.com/fwojciec/jobcore/htmltomarkdown"
	jobhttp "github.com/fwojciec/jobcore/http"
	"github.com/fwojciec/jobcore/pipeline"
	"github.com/fwojciec/jobcore/readability"
	"github.com/fwojciec/jobcore/segment"
	jobslog "github.com/fwojciec/jobcore/slog"
	"github.com/fwojciec/jobcore/sqlite"
	"github.com/fwojciec/jobcore/trafilatura"
	"github.com/fwojciec/jobcore/yaml"
)

// seenCapacity sizes the per-run canonical URL filter.
const seenCapacity = 10000

// wire builds the extraction core over the sqlite stores.
func wire(ctx context.Context, deps *Dependencies, db *sqlite.DB) error {
	cfg := deps.Config
	th := cfg.Thresholds

	patterns, err := sqlite.NewPatternStore(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to load patterns: %w", err)
	}
	variations, err := sqlite.NewVariationStore(ctx, db, deps.Logger)
	if err != nil {
		return fmt.Errorf("failed to load company variations: %w", err)
	}
	for _, v := range cfg.Variations {
		variations.Put(v)
	}
	attempts := sqlite.NewAttemptTracker(db, deps.Logger)

	normalizer := jobslog.NewLoggingNormalizer(company.NewNormalizer(variations, th), deps.Logger)
	detector := jobslog.NewLoggingDetector(dedup.NewDetector(normalizer, th), deps.Logger)
	segmenter := segment.NewSegmenter(th)
	seen := bloom.NewFilter(seenCapacity, 0.001)

	deps.Patterns = patterns
	deps.Attempts = attempts
	deps.Normalizer = normalizer
	deps.Detector = detector
	deps.Segmenter = segmenter
	deps.Seen = seen
	deps.Pipeline = &pipeline.Pipeline{
		Registry: newRegistry(cfg, patterns, jobslog.NewLoggingTracker(attempts, deps.Logger), deps.Logger),
		Extractors: []jobcore.ContentExtractor{
			trafilatura.NewExtractor(),
			readability.NewExtractor(),
		},
		Converter:  htmltomarkdown.NewConverter(),
		Segmenter:  segmenter,
		Normalizer: normalizer,
		Detector:   detector,
		Seen:       seen,
		Thresholds: th,
		Budget:     cfg.Budget,
	}
	return nil
}

// newRegistry registers the shipped site parsers and then the configured
// ones, which replace shipped parsers of the same name.
func newRegistry(cfg yaml.Config, patterns jobcore.PatternStore, tracker jobcore.AttemptTracker, logger *slog.Logger) jobcore.ParserRegistry {
	th := cfg.Thresholds
	text := goquery.NewTextExtractor()
	strategies := []jobcore.Strategy{
		goquery.NewStructuredDataStrategy(th),
		goquery.NewSelectorStrategy(th),
		extract.NewTextPatternStrategy(th),
		extract.NewDomainStrategy(th, cfg.Entities),
		goquery.NewLearnedStrategy(patterns, th),
	}

	reg := extract.NewRegistry(th, text, goquery.NewDetector())
	reg.Tracker = tracker

	logged := jobslog.NewLoggingRegistry(reg, logger)
	profiles := append(extract.Profiles(th), cfg.Profiles...)
	for _, p := range extract.NewParsers(profiles, strategies, text, th) {
		logged.Register(p)
	}
	return logged
}

func newFetcher(logger *slog.Logger) jobcore.Fetcher {
	f := jobhttp.NewFetcher(jobhttp.WithLimiter(newLimiter()))
	return jobslog.NewLoggingFetcher(jobhttp.NewRetryFetcher(f, nil, logger), logger)
}

// newLimiter allows one request per second per board and a slower rate
// for boards known to block scrapers.
func newLimiter() *jobhttp.DomainLimiter {
	l := jobhttp.NewDomainLimiter(1)
	for _, host := range []string{"linkedin.com", "indeed.com", "glassdoor.com"} {
		l.SetRate(host, 0.2)
	}
	return l
}
