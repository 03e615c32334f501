package goquery

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/jobcore"
)

var _ jobcore.Strategy = (*LearnedStrategy)(nil)

// LearnedStrategy applies patterns stored for the page's domain. Only
// patterns whose stored confidence reaches the LearnedMin threshold are used.
type LearnedStrategy struct {
	store      jobcore.PatternStore
	thresholds jobcore.Thresholds
}

// NewLearnedStrategy creates a LearnedStrategy reading from store.
func NewLearnedStrategy(store jobcore.PatternStore, thresholds jobcore.Thresholds) *LearnedStrategy {
	return &LearnedStrategy{store: store, thresholds: thresholds}
}

// Method returns jobcore.MethodLearned.
func (s *LearnedStrategy) Method() jobcore.ExtractionMethod {
	return jobcore.MethodLearned
}

// Validate applies the shared validation rules.
func (s *LearnedStrategy) Validate(p jobcore.Partial) []jobcore.ValidationResult {
	return jobcore.ValidatePartial(p, s.thresholds)
}

// Extract applies the domain's patterns, most confident first. The first
// pattern producing a value for a field wins.
func (s *LearnedStrategy) Extract(page *jobcore.Page, _ *jobcore.SiteProfile) jobcore.Extraction {
	res := jobcore.LearnedResult{}
	if s.store == nil {
		return res
	}

	var patterns []jobcore.Pattern
	for _, p := range s.store.GetPatterns(page.Host) {
		if p.Confidence >= s.thresholds.LearnedMin {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return res
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Confidence > patterns[j].Confidence
	})

	var doc *goquery.Document
	if page.IsHTML {
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(page.Raw))
	}

	for _, p := range patterns {
		f := learnedField(&res, p.Field)
		if f == nil || f.Set() {
			continue
		}
		v, ok := apply(p, doc, page.Text)
		if !ok {
			continue
		}
		*f = jobcore.NewField(v, p.Confidence)
		res.PatternIDs = append(res.PatternIDs, p.ID)
		res.Evidence = append(res.Evidence, evidence(p.Field, jobcore.MethodLearned, v))
	}
	return res
}

func learnedField(res *jobcore.LearnedResult, field string) *jobcore.Field[string] {
	switch field {
	case "title":
		return &res.Title
	case "company":
		return &res.Company
	case "location":
		return &res.Location
	case "description":
		return &res.Description
	}
	return nil
}

func apply(p jobcore.Pattern, doc *goquery.Document, text string) (string, bool) {
	switch p.Kind {
	case jobcore.PatternMapping:
		v := jobcore.NormalizeSpace(p.Value)
		return v, v != ""
	case jobcore.PatternSelector:
		if doc == nil {
			return "", false
		}
		if p.Field == "description" {
			return firstBlock(doc, []string{p.Expression})
		}
		return firstText(doc, []string{p.Expression})
	case jobcore.PatternRegex:
		re, err := regexp.Compile(p.Expression)
		if err != nil {
			return "", false
		}
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		v := m[0]
		if len(m) > 1 {
			v = m[1]
		}
		v = jobcore.NormalizeSpace(v)
		return v, v != ""
	}
	return "", false
}
