// Package pipeline runs a posting through extraction, segmentation,
// company normalization and duplicate detection.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/jobcore"
	"golang.org/x/sync/errgroup"
)

// DefaultBudget is the wall-clock budget for selecting and running parsers.
const DefaultBudget = 300 * time.Millisecond

// Confidence of values back-filled after parsing. They are further capped
// at the answering parser's ceiling.
const (
	contentTitleConfidence       = 0.5
	contentCompanyConfidence     = 0.4
	contentDateConfidence        = 0.5
	contentDescriptionConfidence = 0.6
	metadataConfidence           = 0.5
)

// SeenFilter remembers keys across calls. Implemented by bloom.Filter.
type SeenFilter interface {
	Seen(key string) bool
}

// Pipeline wires the extraction core. Only Registry is required; every
// other collaborator is skipped when nil.
type Pipeline struct {
	Registry   jobcore.ParserRegistry
	Extractors []jobcore.ContentExtractor
	Converter  jobcore.Converter
	Segmenter  jobcore.Segmenter
	Normalizer jobcore.CompanyNormalizer
	Detector   jobcore.DuplicateDetector
	Seen       SeenFilter
	Thresholds jobcore.Thresholds

	// Budget bounds SelectAndParse. When it expires the generic parser
	// answers instead. Defaults to DefaultBudget.
	Budget time.Duration

	// Concurrency bounds ProcessAll. Defaults to 10.
	Concurrency int
}

// Result is the outcome of processing one document.
type Result struct {
	Record   jobcore.JobRecord             `json:"record"`
	Document *jobcore.HierarchicalDocument `json:"document,omitempty"`
	Company  *jobcore.Normalization        `json:"company,omitempty"`
	Verdict  *jobcore.DuplicateVerdict     `json:"verdict,omitempty"`

	// TimedOut is set when the budget expired and the generic parser answered.
	TimedOut bool `json:"timedOut"`

	// Reprocessed is set when the canonical URL was probably seen before.
	Reprocessed bool `json:"reprocessed"`

	Duration time.Duration `json:"durationNs"`
}

// Process extracts a record from in and checks it against candidates.
// Returns EINVALID for invalid input and the context error when ctx is
// canceled before the registry answers.
func (p *Pipeline) Process(ctx context.Context, in jobcore.Input, candidates []jobcore.JobRecord) (*Result, error) {
	begin := time.Now()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	rec, timedOut, err := p.parse(ctx, in)
	if err != nil {
		return nil, err
	}
	res := &Result{TimedOut: timedOut}

	body := p.content(in.Document)
	if body != nil {
		rec = backfillContent(rec, body, p.thresholds())
	}

	if p.Segmenter != nil {
		if text := segmentText(rec, body, in.Document); text != "" {
			doc := p.Segmenter.Segment(text)
			res.Document = &doc
			rec = backfillMetadata(rec, doc.Metadata)
		}
	}
	rec.Validation = jobcore.ValidatePartial(partialOf(rec), p.thresholds())
	rec.Confidence = jobcore.BlendConfidence(rec)

	if p.Normalizer != nil && rec.Company.Value != jobcore.UnknownCompany {
		n := p.Normalizer.Normalize(rec.Company.Value)
		res.Company = &n
	}
	if p.Detector != nil {
		v := p.Detector.Check(rec, candidates)
		res.Verdict = &v
	}
	if p.Seen != nil {
		res.Reprocessed = p.Seen.Seen(jobcore.CanonicalURL(rec.SourceURL))
	}

	res.Record = rec
	res.Duration = time.Since(begin)
	return res, nil
}

// parse runs the registry under the budget and falls back to the generic
// parser when the budget expires first.
func (p *Pipeline) parse(ctx context.Context, in jobcore.Input) (jobcore.JobRecord, bool, error) {
	budget := p.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}

	type parsed struct {
		rec jobcore.JobRecord
		err error
	}
	ch := make(chan parsed, 1)
	go func() {
		rec, err := p.Registry.SelectAndParse(in.URL, in.Document)
		ch <- parsed{rec, err}
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case r := <-ch:
		return r.rec, false, r.err
	case <-timer.C:
		rec, err := p.Registry.Fallback(in.URL, in.Document)
		return rec, true, err
	case <-ctx.Done():
		return jobcore.JobRecord{}, false, ctx.Err()
	}
}

// content runs the content extractors in order and returns the first
// result with a body. Plain-text documents are not extracted.
func (p *Pipeline) content(document string) *mainContent {
	if len(p.Extractors) == 0 {
		return nil
	}
	if !jobcore.IsHTML(document) {
		return nil
	}
	for _, e := range p.Extractors {
		res, err := e.Extract(document)
		if err != nil || res == nil || strings.TrimSpace(res.ContentHTML) == "" {
			continue
		}
		c := &mainContent{result: res}
		if p.Converter != nil {
			if md, err := p.Converter.Convert(res.ContentHTML); err == nil {
				c.markdown = md
			}
		}
		return c
	}
	return nil
}

type mainContent struct {
	result   *jobcore.ExtractResult
	markdown string
}

// segmentText picks the richest text to segment: the converted main
// content, then the extracted description, then a plain-text document.
func segmentText(rec jobcore.JobRecord, c *mainContent, document string) string {
	if c != nil && c.markdown != "" {
		return c.markdown
	}
	if strings.TrimSpace(rec.Description.Value) != "" {
		return rec.Description.Value
	}
	if !jobcore.IsHTML(document) {
		return document
	}
	return ""
}

func (p *Pipeline) thresholds() jobcore.Thresholds {
	if p.Thresholds == (jobcore.Thresholds{}) {
		return jobcore.DefaultThresholds()
	}
	return p.Thresholds
}

// ProcessAll processes inputs concurrently. Results keep input order; a
// failed input leaves a nil result and its error in errs.
func (p *Pipeline) ProcessAll(ctx context.Context, inputs []jobcore.Input, candidates []jobcore.JobRecord) ([]*Result, []error) {
	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	results := make([]*Result, len(inputs))
	errs := make([]error, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, in := range inputs {
		g.Go(func() error {
			results[i], errs[i] = p.Process(gctx, in, candidates)
			return nil
		})
	}
	_ = g.Wait()
	return results, errs
}
