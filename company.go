package jobcore

import (
	"strings"
	"time"
	"unicode"
)

// CompanyVariation links observed spellings of a company to one canonical name.
type CompanyVariation struct {
	Canonical  string    `json:"canonical" yaml:"canonical"`
	Variations []string  `json:"variations" yaml:"variations"`
	Confidence float64   `json:"confidence" yaml:"confidence"`
	UpdatedAt  time.Time `json:"updatedAt" yaml:"-"`
}

// Keys returns the lookup keys of the canonical name and every variation.
func (v CompanyVariation) Keys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, name := range append([]string{v.Canonical}, v.Variations...) {
		k := CompanyKey(name)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

// Normalization is the result of canonicalizing a company name.
type Normalization struct {
	Canonical  string  `json:"canonical"`
	Normalized string  `json:"normalized"`
	Confidence float64 `json:"confidence"`
	IsLearned  bool    `json:"isLearned"`
}

// LearnRequest asks the normalizer to treat two observed names as one company.
// Titles are optional evidence from the postings the names came from.
type LearnRequest struct {
	NameA          string
	NameB          string
	TitleA         string
	TitleB         string
	BaseConfidence float64
}

// CompanyNormalizer canonicalizes company names.
type CompanyNormalizer interface {
	// Normalize never fails; unknown names are their own canonical form.
	Normalize(name string) Normalization

	// Learn records NameA and NameB as spellings of one company and
	// returns the resulting entry. The bool is false when the names
	// already normalize identically.
	Learn(req LearnRequest) (CompanyVariation, bool)
}

// VariationStore is the shared table of company variations. Every key maps
// to exactly one entry; reads observe an immutable snapshot.
type VariationStore interface {
	// Lookup returns the entry owning key.
	Lookup(key string) (CompanyVariation, bool)

	// Put stores v, claiming every key of v. Entries whose canonical key
	// is claimed are merged into v.
	Put(v CompanyVariation) CompanyVariation

	// All returns every entry sorted by canonical name.
	All() []CompanyVariation
}

// CompanyKey lowercases name and strips everything but letters and digits.
func CompanyKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
