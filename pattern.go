package jobcore

import "time"

// PatternKind identifies how a learned pattern is applied.
type PatternKind string

// PatternKind constants.
const (
	// PatternSelector reads the field from the first element matching a CSS selector.
	PatternSelector PatternKind = "selector"

	// PatternRegex reads the field from the first capture group over page text.
	PatternRegex PatternKind = "regex"

	// PatternMapping sets the field to a fixed value for the domain.
	PatternMapping PatternKind = "mapping"
)

// Pattern is an extraction rule learned from past extractions or corrections.
type Pattern struct {
	ID         string      `json:"id"`
	Domain     string      `json:"domain"`
	Field      string      `json:"field"`
	Kind       PatternKind `json:"kind"`
	Expression string      `json:"expression"`
	Value      string      `json:"value,omitempty"`
	Confidence float64     `json:"confidence"`
	Verified   bool        `json:"verified"`
	Hits       int         `json:"hits"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// Validate returns an error if the pattern contains invalid fields.
func (p *Pattern) Validate() error {
	if p.Domain == "" {
		return Errorf(EINVALID, "pattern domain required")
	}
	switch p.Field {
	case "title", "company", "location", "description":
	default:
		return Errorf(EINVALID, "pattern field %q not supported", p.Field)
	}
	switch p.Kind {
	case PatternSelector, PatternRegex:
		if p.Expression == "" {
			return Errorf(EINVALID, "pattern expression required")
		}
	case PatternMapping:
		if p.Value == "" {
			return Errorf(EINVALID, "mapping pattern value required")
		}
	default:
		return Errorf(EINVALID, "pattern kind %q not supported", p.Kind)
	}
	return nil
}

// PatternStore holds learned patterns keyed by domain. Reads must not block
// on writes; a reader may observe a slightly stale snapshot.
type PatternStore interface {
	// GetPatterns returns the patterns recorded for domain.
	GetPatterns(domain string) []Pattern

	// RecordPattern stores or reinforces a pattern for domain.
	RecordPattern(domain string, p Pattern, confidence float64) error

	// PromoteVerified marks patterns as verified after external review.
	// Returns ENOTFOUND if a pattern does not exist.
	PromoteVerified(patterns []Pattern) error
}

// AttemptLog describes one parser attempt for the telemetry collaborator.
type AttemptLog struct {
	URL        string
	Parser     string
	Success    bool
	Confidence float64
	Duration   time.Duration
	Method     ExtractionMethod
	Err        error
}

// AttemptTracker receives outcome, confidence and timing of extraction
// attempts. It is outbound only and must not fail the extraction.
type AttemptTracker interface {
	LogAttempt(a AttemptLog)
}
