package mock

import "github.com/fwojciec/jobcore"

var _ jobcore.PatternStore = (*PatternStore)(nil)

// PatternStore is a mock implementation of jobcore.PatternStore.
type PatternStore struct {
	GetPatternsFn     func(domain string) []jobcore.Pattern
	RecordPatternFn   func(domain string, p jobcore.Pattern, confidence float64) error
	PromoteVerifiedFn func(patterns []jobcore.Pattern) error
}

func (s *PatternStore) GetPatterns(domain string) []jobcore.Pattern {
	return s.GetPatternsFn(domain)
}

func (s *PatternStore) RecordPattern(domain string, p jobcore.Pattern, confidence float64) error {
	return s.RecordPatternFn(domain, p, confidence)
}

func (s *PatternStore) PromoteVerified(patterns []jobcore.Pattern) error {
	return s.PromoteVerifiedFn(patterns)
}

var _ jobcore.AttemptTracker = (*AttemptTracker)(nil)

// AttemptTracker is a mock implementation of jobcore.AttemptTracker.
type AttemptTracker struct {
	LogAttemptFn func(a jobcore.AttemptLog)
}

func (t *AttemptTracker) LogAttempt(a jobcore.AttemptLog) {
	t.LogAttemptFn(a)
}
