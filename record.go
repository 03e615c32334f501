package jobcore

import (
	"strings"
	"time"
)

// Sentinel values used when a parser cannot find a title or company.
const (
	UnknownTitle   = "Unknown Position"
	UnknownCompany = "Unknown Company"
)

// ExtractionMethod identifies the strategy family that produced a value.
type ExtractionMethod string

// ExtractionMethod constants, listed in strategy priority order.
const (
	MethodStructuredData ExtractionMethod = "structured_data"
	MethodSelector       ExtractionMethod = "selector"
	MethodTextPattern    ExtractionMethod = "text_pattern"
	MethodDomain         ExtractionMethod = "domain_intelligence"
	MethodLearned        ExtractionMethod = "learned"
	MethodFallback       ExtractionMethod = "fallback"
)

// MethodPriority lists the strategy families from most to least trusted.
var MethodPriority = []ExtractionMethod{
	MethodStructuredData,
	MethodSelector,
	MethodTextPattern,
	MethodDomain,
	MethodLearned,
}

// Field pairs an extracted value with a confidence in [0,1].
// A field with zero confidence carries no value.
type Field[T any] struct {
	Value      T       `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Set reports whether the field carries a value.
func (f Field[T]) Set() bool {
	return f.Confidence > 0
}

// NewField returns a field with the confidence clamped to [0,1].
func NewField[T any](v T, confidence float64) Field[T] {
	return Field[T]{Value: v, Confidence: ClampConfidence(confidence)}
}

// Salary is a compensation value as posted plus its parsed range.
type Salary struct {
	Text     string  `json:"text"`
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
	Currency string  `json:"currency,omitempty"`
	Interval string  `json:"interval,omitempty"`
}

// Evidence is a raw excerpt that supported an extracted value.
type Evidence struct {
	Field   string           `json:"field"`
	Method  ExtractionMethod `json:"method"`
	Excerpt string           `json:"excerpt"`
}

// ValidationResult is the outcome of a single validation rule.
type ValidationResult struct {
	Rule   string  `json:"rule"`
	Field  string  `json:"field"`
	Passed bool    `json:"passed"`
	Score  float64 `json:"score"`
}

// ParsingMetadata describes the page a record was extracted from.
type ParsingMetadata struct {
	RawTitle            string `json:"rawTitle"`
	StructuredDataFound bool   `json:"structuredDataFound"`
	MetaTagsCount       int    `json:"metaTagsCount"`
	Candidates          int    `json:"candidates"`
}

// JobRecord is a structured job posting with per-field confidence.
// Records are returned by value and are not modified after they are returned.
type JobRecord struct {
	ID            string   `json:"id"`
	SourceURL     string   `json:"sourceUrl"`
	Platform      Platform `json:"platform"`
	PlatformJobID string   `json:"platformJobId,omitempty"`

	Title       Field[string]    `json:"title"`
	Company     Field[string]    `json:"company"`
	Location    Field[string]    `json:"location"`
	Description Field[string]    `json:"description"`
	Salary      Field[Salary]    `json:"salary"`
	PostedAt    Field[time.Time] `json:"postedAt"`
	Remote      Field[bool]      `json:"remote"`

	// Method is the strategy family that supplied the most fields.
	Method ExtractionMethod `json:"method"`

	// Parser is the name of the site parser that answered.
	Parser string `json:"parser"`

	// ParserConfidence is the static confidence ceiling of Parser.
	ParserConfidence float64 `json:"parserConfidence"`

	// Confidence is the blended record-level confidence.
	Confidence float64 `json:"confidence"`

	Evidence    []Evidence         `json:"evidence,omitempty"`
	Validation  []ValidationResult `json:"validation,omitempty"`
	Meta        ParsingMetadata    `json:"meta"`
	ExtractedAt time.Time          `json:"extractedAt"`
}

// Partial is the subset of a record a single strategy could populate.
type Partial struct {
	Title       Field[string]
	Company     Field[string]
	Location    Field[string]
	Description Field[string]
	Salary      Field[Salary]
	PostedAt    Field[time.Time]
	Remote      Field[bool]
	Evidence    []Evidence
}

// Empty reports whether no field of the partial is set.
func (p Partial) Empty() bool {
	return !p.Title.Set() && !p.Company.Set() && !p.Location.Set() &&
		!p.Description.Set() && !p.Salary.Set() && !p.PostedAt.Set() && !p.Remote.Set()
}

// Cap limits every field confidence to ceiling.
func (p Partial) Cap(ceiling float64) Partial {
	p.Title.Confidence = min(p.Title.Confidence, ceiling)
	p.Company.Confidence = min(p.Company.Confidence, ceiling)
	p.Location.Confidence = min(p.Location.Confidence, ceiling)
	p.Description.Confidence = min(p.Description.Confidence, ceiling)
	p.Salary.Confidence = min(p.Salary.Confidence, ceiling)
	p.PostedAt.Confidence = min(p.PostedAt.Confidence, ceiling)
	p.Remote.Confidence = min(p.Remote.Confidence, ceiling)
	return p
}

// ExtractionAttempt records one strategy run inside one parser.
type ExtractionAttempt struct {
	Parser     string
	Method     ExtractionMethod
	Partial    Partial
	Validation []ValidationResult
	Duration   time.Duration
}

// Extraction is the result of running one strategy. The set of
// implementations is closed: each variant carries only the fields its
// strategy can populate.
type Extraction interface {
	Method() ExtractionMethod
	Partial() Partial
	extraction()
}

// StructuredDataResult is produced from embedded machine-readable postings
// (JSON-LD JobPosting) and page meta tags.
type StructuredDataResult struct {
	Source        string
	MetaTagsCount int
	RawTitle      string
	Title         Field[string]
	Company       Field[string]
	Location      Field[string]
	Description   Field[string]
	Salary        Field[Salary]
	PostedAt      Field[time.Time]
	Remote        Field[bool]
	Evidence      []Evidence
}

func (StructuredDataResult) Method() ExtractionMethod { return MethodStructuredData }
func (StructuredDataResult) extraction()              {}

func (r StructuredDataResult) Partial() Partial {
	return Partial{
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		Description: r.Description,
		Salary:      r.Salary,
		PostedAt:    r.PostedAt,
		Remote:      r.Remote,
		Evidence:    r.Evidence,
	}
}

// SelectorResult is produced by matching CSS selectors from a site profile.
type SelectorResult struct {
	Fingerprint bool
	Title       Field[string]
	Company     Field[string]
	Location    Field[string]
	Description Field[string]
	Salary      Field[Salary]
	PostedAt    Field[time.Time]
	Evidence    []Evidence
}

func (SelectorResult) Method() ExtractionMethod { return MethodSelector }
func (SelectorResult) extraction()              {}

func (r SelectorResult) Partial() Partial {
	return Partial{
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		Description: r.Description,
		Salary:      r.Salary,
		PostedAt:    r.PostedAt,
		Evidence:    r.Evidence,
	}
}

// PatternResult is produced by regular-expression families over page text.
type PatternResult struct {
	Title    Field[string]
	Company  Field[string]
	Location Field[string]
	Salary   Field[Salary]
	PostedAt Field[time.Time]
	Remote   Field[bool]
	Evidence []Evidence
}

func (PatternResult) Method() ExtractionMethod { return MethodTextPattern }
func (PatternResult) extraction()              {}

func (r PatternResult) Partial() Partial {
	return Partial{
		Title:    r.Title,
		Company:  r.Company,
		Location: r.Location,
		Salary:   r.Salary,
		PostedAt: r.PostedAt,
		Remote:   r.Remote,
		Evidence: r.Evidence,
	}
}

// DomainResult is produced by mapping the URL host and path to a known entity.
type DomainResult struct {
	Entity   string
	Company  Field[string]
	Remote   Field[bool]
	Evidence []Evidence
}

func (DomainResult) Method() ExtractionMethod { return MethodDomain }
func (DomainResult) extraction()              {}

func (r DomainResult) Partial() Partial {
	return Partial{
		Company:  r.Company,
		Remote:   r.Remote,
		Evidence: r.Evidence,
	}
}

// LearnedResult is produced by applying stored patterns for a domain.
type LearnedResult struct {
	PatternIDs  []string
	Title       Field[string]
	Company     Field[string]
	Location    Field[string]
	Description Field[string]
	Evidence    []Evidence
}

func (LearnedResult) Method() ExtractionMethod { return MethodLearned }
func (LearnedResult) extraction()              {}

func (r LearnedResult) Partial() Partial {
	return Partial{
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		Description: r.Description,
		Evidence:    r.Evidence,
	}
}

// ClampConfidence limits c to [0,1].
func ClampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}

// NormalizeSpace collapses runs of whitespace to single spaces and trims.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// BlendConfidence returns the weighted record-level confidence of r.
// Title, company, description and location dominate; date and salary
// contribute a small share.
func BlendConfidence(r JobRecord) float64 {
	score := 0.30*r.Title.Confidence +
		0.25*r.Company.Confidence +
		0.15*r.Location.Confidence +
		0.20*r.Description.Confidence +
		0.05*r.PostedAt.Confidence +
		0.05*r.Salary.Confidence
	return ClampConfidence(score)
}
