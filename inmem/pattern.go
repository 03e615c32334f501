// Package inmem provides process-wide in-memory stores for learned
// extraction patterns and company variations. Reads load an immutable
// snapshot without locking; writes are serialized and publish a new snapshot.
package inmem

import (
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/jobcore"
	"github.com/google/uuid"
)

var _ jobcore.PatternStore = (*PatternStore)(nil)

// PatternStore implements jobcore.PatternStore in memory.
type PatternStore struct {
	mu   sync.Mutex
	snap atomic.Pointer[map[string][]jobcore.Pattern]

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewPatternStore returns an empty PatternStore.
func NewPatternStore() *PatternStore {
	s := &PatternStore{Now: time.Now}
	empty := map[string][]jobcore.Pattern{}
	s.snap.Store(&empty)
	return s
}

// DomainKey normalizes a host for pattern lookup.
func DomainKey(domain string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "www.")
}

// GetPatterns returns a copy of the patterns recorded for domain.
func (s *PatternStore) GetPatterns(domain string) []jobcore.Pattern {
	return slices.Clone((*s.snap.Load())[DomainKey(domain)])
}

// RecordPattern stores p for domain. Recording a pattern with the same
// field, kind, expression and value again counts a hit and keeps the
// higher confidence.
func (s *PatternStore) RecordPattern(domain string, p jobcore.Pattern, confidence float64) error {
	p.Domain = DomainKey(domain)
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.clone()
	list := slices.Clone(next[p.Domain])
	now := s.Now().UTC()

	for i, existing := range list {
		if sameRule(existing, p) {
			existing.Hits++
			existing.Confidence = max(existing.Confidence, jobcore.ClampConfidence(confidence))
			existing.UpdatedAt = now
			list[i] = existing
			next[p.Domain] = list
			s.snap.Store(&next)
			return nil
		}
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.Confidence = jobcore.ClampConfidence(confidence)
	p.Hits = max(p.Hits, 1)
	p.UpdatedAt = now
	next[p.Domain] = append(list, p)
	s.snap.Store(&next)
	return nil
}

// PromoteVerified marks the given patterns verified. Patterns are matched
// by ID. Returns ENOTFOUND, leaving the store unchanged, if any is missing.
func (s *PatternStore) PromoteVerified(patterns []jobcore.Pattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.clone()
	now := s.Now().UTC()
	for _, p := range patterns {
		domain := DomainKey(p.Domain)
		list := slices.Clone(next[domain])
		i := slices.IndexFunc(list, func(e jobcore.Pattern) bool { return e.ID == p.ID })
		if i < 0 {
			return jobcore.Errorf(jobcore.ENOTFOUND, "pattern %q not found for %s", p.ID, domain)
		}
		list[i].Verified = true
		list[i].UpdatedAt = now
		next[domain] = list
	}
	s.snap.Store(&next)
	return nil
}

// Load replaces the store contents with patterns, e.g. from persistent storage.
func (s *PatternStore) Load(patterns []jobcore.Pattern) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string][]jobcore.Pattern)
	for _, p := range patterns {
		d := DomainKey(p.Domain)
		p.Domain = d
		next[d] = append(next[d], p)
	}
	s.snap.Store(&next)
}

// clone copies the current snapshot map. Slices are shared and must be
// cloned before modification.
func (s *PatternStore) clone() map[string][]jobcore.Pattern {
	cur := *s.snap.Load()
	next := make(map[string][]jobcore.Pattern, len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	return next
}

func sameRule(a, b jobcore.Pattern) bool {
	return a.Field == b.Field && a.Kind == b.Kind && a.Expression == b.Expression && a.Value == b.Value
}
