// Package company canonicalizes company names using a learned variation
// table and a deterministic rule pipeline.
package company

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/fwojciec/jobcore"
	"github.com/fwojciec/jobcore/levenshtein"
)

var _ jobcore.CompanyNormalizer = (*Normalizer)(nil)

// Normalizer implements jobcore.CompanyNormalizer.
type Normalizer struct {
	store      jobcore.VariationStore
	thresholds jobcore.Thresholds

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewNormalizer returns a Normalizer backed by store.
func NewNormalizer(store jobcore.VariationStore, thresholds jobcore.Thresholds) *Normalizer {
	return &Normalizer{store: store, thresholds: thresholds, Now: time.Now}
}

// rule is one step of the cleanup pipeline. Applying a rule that changes
// the name multiplies confidence by penalty.
type rule struct {
	name    string
	penalty float64
	apply   func(string) string
}

var (
	domainRe      = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.)?([a-z0-9][a-z0-9-]*)\.(?:com|io|co|org|net|ai|dev|app|tech)(?:\.[a-z]{2})?/?$`)
	legalSuffixRe = regexp.MustCompile(`(?i)(?:[,\s]+|^)(?:inc|incorporated|llc|l\.l\.c|ltd|limited|corp|corporation|co|company|gmbh|ag|s\.?a|plc|pty|b\.?v|oy|ab|srl|l\.?p|llp)\.?$`)
	camelRe       = regexp.MustCompile(`([a-z]{2,})([A-Z][a-z]{2,})`)
	separatorRe   = regexp.MustCompile(`[\s_|/·•–—-]+`)
	ampersandRe   = regexp.MustCompile(`\s+&\s+`)
)

var pipeline = []rule{
	{name: "legal_suffix", penalty: 0.95, apply: func(s string) string {
		for {
			stripped := strings.TrimSpace(legalSuffixRe.ReplaceAllString(s, ""))
			if stripped == s || stripped == "" {
				return s
			}
			s = stripped
		}
	}},
	{name: "web_domain", penalty: 0.9, apply: func(s string) string {
		if m := domainRe.FindStringSubmatch(s); m != nil {
			return m[1]
		}
		return s
	}},
	{name: "camel_case", penalty: 0.9, apply: func(s string) string {
		if strings.ContainsRune(s, ' ') {
			return s
		}
		return camelRe.ReplaceAllString(s, "$1 $2")
	}},
	{name: "separators", penalty: 0.95, apply: func(s string) string {
		return strings.TrimSpace(separatorRe.ReplaceAllString(s, " "))
	}},
	{name: "punctuation", penalty: 0.95, apply: func(s string) string {
		var b strings.Builder
		for _, r := range s {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '&' {
				b.WriteRune(r)
			}
		}
		return jobcore.NormalizeSpace(b.String())
	}},
	{name: "ampersand", penalty: 0.98, apply: func(s string) string {
		return ampersandRe.ReplaceAllString(s, " and ")
	}},
}

// Clean runs the rule pipeline to a fixed point and returns the cleaned
// name with the product of the penalties of every rule that fired.
func Clean(name string) (string, float64) {
	s := jobcore.NormalizeSpace(name)
	factor := 1.0
	for range 5 {
		changed := false
		for _, r := range pipeline {
			next := r.apply(s)
			if next != s && next != "" {
				s = next
				factor *= r.penalty
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return s, factor
}

// Normalize returns the canonical form of name. Known variations resolve
// directly; otherwise the cleaned name is looked up again and, failing
// that, returned as its own canonical form.
func (n *Normalizer) Normalize(name string) jobcore.Normalization {
	trimmed := jobcore.NormalizeSpace(name)
	if jobcore.CompanyKey(trimmed) == "" {
		return jobcore.Normalization{}
	}

	cleaned, factor := Clean(trimmed)
	normalized := strings.ToLower(cleaned)

	if v, ok := n.store.Lookup(jobcore.CompanyKey(trimmed)); ok {
		return jobcore.Normalization{
			Canonical:  v.Canonical,
			Normalized: normalized,
			Confidence: jobcore.ClampConfidence(v.Confidence),
			IsLearned:  true,
		}
	}
	if v, ok := n.store.Lookup(jobcore.CompanyKey(cleaned)); ok {
		return jobcore.Normalization{
			Canonical:  v.Canonical,
			Normalized: normalized,
			Confidence: jobcore.ClampConfidence(v.Confidence * factor),
			IsLearned:  true,
		}
	}
	return jobcore.Normalization{
		Canonical:  cleaned,
		Normalized: normalized,
		Confidence: jobcore.ClampConfidence(n.thresholds.UnmatchedCompanyScale * factor),
	}
}

// Learn records the two names as one company, including names that differ
// only in case or punctuation. The canonical spelling is chosen by
// preferring mixed case, then spaces, then length; ties keep NameA.
// Similar job titles raise confidence.
func (n *Normalizer) Learn(req jobcore.LearnRequest) (jobcore.CompanyVariation, bool) {
	na, nb := n.Normalize(req.NameA), n.Normalize(req.NameB)
	if na.Canonical == "" || nb.Canonical == "" {
		return jobcore.CompanyVariation{}, false
	}
	if na.Canonical == nb.Canonical {
		v, _ := n.store.Lookup(jobcore.CompanyKey(na.Canonical))
		return v, false
	}

	winner, loser := na.Canonical, nb.Canonical
	if preferred(loser, winner) {
		winner, loser = loser, winner
	}

	confidence := jobcore.ClampConfidence(req.BaseConfidence)
	if req.TitleA != "" && req.TitleB != "" {
		sim := levenshtein.Similarity(strings.ToLower(jobcore.NormalizeSpace(req.TitleA)), strings.ToLower(jobcore.NormalizeSpace(req.TitleB)))
		if cut := n.thresholds.TitleSimilarityBoost; sim > cut && cut < 1 {
			boost := 0.2 * (sim - cut) / (1 - cut)
			confidence = min(confidence+boost, n.thresholds.MaxLearnedConfidence)
		}
	}

	v := n.store.Put(jobcore.CompanyVariation{
		Canonical:  winner,
		Variations: []string{loser, jobcore.NormalizeSpace(req.NameA), jobcore.NormalizeSpace(req.NameB)},
		Confidence: confidence,
		UpdatedAt:  n.Now().UTC(),
	})
	return v, true
}

// preferred reports whether a is a better canonical spelling than b.
func preferred(a, b string) bool {
	if ma, mb := mixedCase(a), mixedCase(b); ma != mb {
		return ma
	}
	if sa, sb := strings.ContainsRune(a, ' '), strings.ContainsRune(b, ' '); sa != sb {
		return sa
	}
	return len([]rune(a)) > len([]rune(b))
}

func mixedCase(s string) bool {
	var upper, lower bool
	for _, r := range s {
		upper = upper || unicode.IsUpper(r)
		lower = lower || unicode.IsLower(r)
	}
	return upper && lower
}
