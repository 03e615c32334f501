package mock

import (
	"net/url"

	"github.com/fwojciec/jobcore"
)

var _ jobcore.SiteParser = (*SiteParser)(nil)

// SiteParser is a mock implementation of jobcore.SiteParser.
type SiteParser struct {
	NameFn        func() string
	CanHandleFn   func(u *url.URL) bool
	ConfidenceFn  func() float64
	SpecificityFn func() int
	ParseFn       func(page *jobcore.Page) (jobcore.JobRecord, []jobcore.ExtractionAttempt)
}

func (p *SiteParser) Name() string {
	return p.NameFn()
}

func (p *SiteParser) CanHandle(u *url.URL) bool {
	return p.CanHandleFn(u)
}

func (p *SiteParser) Confidence() float64 {
	return p.ConfidenceFn()
}

func (p *SiteParser) Specificity() int {
	return p.SpecificityFn()
}

func (p *SiteParser) Parse(page *jobcore.Page) (jobcore.JobRecord, []jobcore.ExtractionAttempt) {
	return p.ParseFn(page)
}

var _ jobcore.ParserRegistry = (*ParserRegistry)(nil)

// ParserRegistry is a mock implementation of jobcore.ParserRegistry.
type ParserRegistry struct {
	SelectAndParseFn func(rawURL, document string) (jobcore.JobRecord, error)
	FallbackFn       func(rawURL, document string) (jobcore.JobRecord, error)
	RegisterFn       func(p jobcore.SiteParser)
	ParsersFn        func() []jobcore.SiteParser
}

func (r *ParserRegistry) SelectAndParse(rawURL, document string) (jobcore.JobRecord, error) {
	return r.SelectAndParseFn(rawURL, document)
}

func (r *ParserRegistry) Fallback(rawURL, document string) (jobcore.JobRecord, error) {
	return r.FallbackFn(rawURL, document)
}

func (r *ParserRegistry) Register(p jobcore.SiteParser) {
	r.RegisterFn(p)
}

func (r *ParserRegistry) Parsers() []jobcore.SiteParser {
	return r.ParsersFn()
}

var _ jobcore.LayoutDetector = (*LayoutDetector)(nil)

// LayoutDetector is a mock implementation of jobcore.LayoutDetector.
type LayoutDetector struct {
	DetectFn func(html string) string
}

func (d *LayoutDetector) Detect(html string) string {
	return d.DetectFn(html)
}

var _ jobcore.Strategy = (*Strategy)(nil)

// Strategy is a mock implementation of jobcore.Strategy.
type Strategy struct {
	MethodFn   func() jobcore.ExtractionMethod
	ExtractFn  func(page *jobcore.Page, profile *jobcore.SiteProfile) jobcore.Extraction
	ValidateFn func(p jobcore.Partial) []jobcore.ValidationResult
}

func (s *Strategy) Method() jobcore.ExtractionMethod {
	return s.MethodFn()
}

func (s *Strategy) Extract(page *jobcore.Page, profile *jobcore.SiteProfile) jobcore.Extraction {
	return s.ExtractFn(page, profile)
}

func (s *Strategy) Validate(p jobcore.Partial) []jobcore.ValidationResult {
	return s.ValidateFn(p)
}
