package inmem

import (
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/jobcore"
)

var _ jobcore.VariationStore = (*VariationStore)(nil)

type variationSnapshot struct {
	// entries is keyed by the canonical name's key.
	entries map[string]jobcore.CompanyVariation
	// index maps every variation key to its owner's canonical key.
	index map[string]string
}

// VariationStore implements jobcore.VariationStore in memory.
type VariationStore struct {
	mu   sync.Mutex
	snap atomic.Pointer[variationSnapshot]

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewVariationStore returns a store seeded with the given entries.
func NewVariationStore(seed ...jobcore.CompanyVariation) *VariationStore {
	s := &VariationStore{Now: time.Now}
	s.snap.Store(&variationSnapshot{
		entries: map[string]jobcore.CompanyVariation{},
		index:   map[string]string{},
	})
	for _, v := range seed {
		s.Put(v)
	}
	return s
}

// Lookup returns the entry owning key.
func (s *VariationStore) Lookup(key string) (jobcore.CompanyVariation, bool) {
	snap := s.snap.Load()
	owner, ok := snap.index[key]
	if !ok {
		return jobcore.CompanyVariation{}, false
	}
	v, ok := snap.entries[owner]
	return v, ok
}

// Put stores v. Keys of v owned by other entries move to v; when another
// entry's canonical key is claimed, that entry is merged into v.
func (s *VariationStore) Put(v jobcore.CompanyVariation) jobcore.CompanyVariation {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.snap.Load()
	next := &variationSnapshot{
		entries: make(map[string]jobcore.CompanyVariation, len(cur.entries)+1),
		index:   make(map[string]string, len(cur.index)+len(v.Variations)+1),
	}
	for k, e := range cur.entries {
		next.entries[k] = e
	}
	for k, o := range cur.index {
		next.index[k] = o
	}

	ckey := jobcore.CompanyKey(v.Canonical)
	if ckey == "" {
		return jobcore.CompanyVariation{}
	}

	merged := jobcore.CompanyVariation{
		Canonical:  v.Canonical,
		Variations: slices.Clone(v.Variations),
		Confidence: jobcore.ClampConfidence(v.Confidence),
		UpdatedAt:  v.UpdatedAt,
	}
	if merged.UpdatedAt.IsZero() {
		merged.UpdatedAt = s.Now().UTC()
	}
	if existing, ok := next.entries[ckey]; ok {
		merged.Variations = append(merged.Variations, existing.Variations...)
		if existing.Canonical != v.Canonical {
			merged.Variations = append(merged.Variations, existing.Canonical)
		}
		merged.Confidence = max(merged.Confidence, existing.Confidence)
	}

	for _, k := range v.Keys() {
		owner, ok := next.index[k]
		if !ok || owner == ckey {
			continue
		}
		other := next.entries[owner]
		if k == owner {
			// The other entry's canonical name is now a variation of v.
			merged.Variations = append(merged.Variations, other.Canonical)
			merged.Variations = append(merged.Variations, other.Variations...)
			delete(next.entries, owner)
			continue
		}
		other.Variations = slices.DeleteFunc(slices.Clone(other.Variations), func(name string) bool {
			return jobcore.CompanyKey(name) == k
		})
		next.entries[owner] = other
	}

	merged.Variations = dedupVariations(merged.Canonical, merged.Variations)
	next.entries[ckey] = merged
	for _, k := range merged.Keys() {
		next.index[k] = ckey
	}

	s.snap.Store(next)
	return merged
}

// All returns every entry sorted by canonical name.
func (s *VariationStore) All() []jobcore.CompanyVariation {
	snap := s.snap.Load()
	out := make([]jobcore.CompanyVariation, 0, len(snap.entries))
	for _, e := range snap.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Canonical < out[j].Canonical })
	return out
}

// dedupVariations drops empty names, names sharing the canonical key and
// repeated keys, keeping the first spelling seen.
func dedupVariations(canonical string, names []string) []string {
	seen := map[string]bool{jobcore.CompanyKey(canonical): true}
	out := make([]string, 0, len(names))
	for _, n := range names {
		k := jobcore.CompanyKey(n)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, n)
	}
	return out
}
