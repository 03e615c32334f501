package goquery

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/fwojciec/jobcore"
)

var _ jobcore.Strategy = (*SelectorStrategy)(nil)

// Base confidence of selector matches per field. A matching layout
// fingerprint adds fingerprintBoost.
var selectorConfidence = map[string]float64{
	"title":       0.85,
	"company":     0.8,
	"location":    0.75,
	"description": 0.8,
	"postedAt":    0.7,
	"salary":      0.7,
}

const fingerprintBoost = 0.1

// SelectorStrategy reads fields from the CSS selectors of a site profile.
type SelectorStrategy struct {
	thresholds jobcore.Thresholds

	// Now resolves relative dates. Defaults to time.Now.
	Now func() time.Time
}

// NewSelectorStrategy creates a new SelectorStrategy.
func NewSelectorStrategy(thresholds jobcore.Thresholds) *SelectorStrategy {
	return &SelectorStrategy{thresholds: thresholds, Now: time.Now}
}

// Method returns jobcore.MethodSelector.
func (s *SelectorStrategy) Method() jobcore.ExtractionMethod {
	return jobcore.MethodSelector
}

// Validate applies the shared validation rules.
func (s *SelectorStrategy) Validate(p jobcore.Partial) []jobcore.ValidationResult {
	return jobcore.ValidatePartial(p, s.thresholds)
}

// Extract tries each selector of the profile in order and keeps the first
// non-empty match per field.
func (s *SelectorStrategy) Extract(page *jobcore.Page, profile *jobcore.SiteProfile) jobcore.Extraction {
	if !page.IsHTML || profile == nil {
		return jobcore.SelectorResult{}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Raw))
	if err != nil {
		return jobcore.SelectorResult{}
	}

	res := jobcore.SelectorResult{}
	for _, fp := range profile.Fingerprints {
		if doc.Find(fp).Length() > 0 {
			res.Fingerprint = true
			break
		}
	}
	conf := func(field string) float64 {
		c := selectorConfidence[field]
		if res.Fingerprint {
			c += fingerprintBoost
		}
		return c
	}
	text := func(field string, selectors []string) (string, bool) {
		v, ok := firstText(doc, selectors)
		if ok {
			res.Evidence = append(res.Evidence, evidence(field, jobcore.MethodSelector, v))
		}
		return v, ok
	}

	sel := profile.Selectors
	if v, ok := text("title", sel.Title); ok {
		res.Title = jobcore.NewField(v, conf("title"))
	}
	if v, ok := text("company", sel.Company); ok {
		res.Company = jobcore.NewField(v, conf("company"))
	}
	if v, ok := text("location", sel.Location); ok {
		res.Location = jobcore.NewField(v, conf("location"))
	}
	if v, ok := firstBlock(doc, sel.Description); ok {
		res.Description = jobcore.NewField(v, conf("description"))
		res.Evidence = append(res.Evidence, evidence("description", jobcore.MethodSelector, v))
	}
	if v, ok := text("salary", sel.Salary); ok {
		sal, parsed := jobcore.ParseSalary(v)
		if !parsed {
			sal = jobcore.Salary{Text: v}
		}
		res.Salary = jobcore.NewField(sal, conf("salary"))
	}
	if t, ok := s.postedAt(doc, sel.PostedAt); ok {
		res.PostedAt = jobcore.NewField(t, conf("postedAt"))
		res.Evidence = append(res.Evidence, evidence("postedAt", jobcore.MethodSelector, t.Format(time.RFC3339)))
	}
	return res
}

// postedAt prefers a datetime attribute, then an absolute date in the
// element text, then a relative "N days ago" phrase.
func (s *SelectorStrategy) postedAt(doc *goquery.Document, selectors []string) (time.Time, bool) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	for _, selector := range selectors {
		el := doc.Find(selector).First()
		if el.Length() == 0 {
			continue
		}
		if v, ok := el.Attr("datetime"); ok {
			if t, err := dateparse.ParseIn(strings.TrimSpace(v), time.UTC); err == nil {
				return t, true
			}
		}
		v := jobcore.NormalizeSpace(el.Text())
		if v == "" {
			continue
		}
		if t, ok := jobcore.ParsePostedAgo(v, now()); ok {
			return t, true
		}
		if t, err := dateparse.ParseIn(strings.TrimPrefix(v, "Posted "), time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstText(doc *goquery.Document, selectors []string) (string, bool) {
	for _, selector := range selectors {
		el := doc.Find(selector).First()
		if el.Length() == 0 {
			continue
		}
		v, ok := el.Attr("content")
		if !ok {
			v = el.Text()
		}
		if v = jobcore.NormalizeSpace(v); v != "" {
			return v, true
		}
	}
	return "", false
}

// firstBlock returns the line-structured text of the first matching
// element, keeping list items and paragraphs on their own lines.
func firstBlock(doc *goquery.Document, selectors []string) (string, bool) {
	for _, selector := range selectors {
		el := doc.Find(selector).First()
		if el.Length() == 0 {
			continue
		}
		var b strings.Builder
		for _, n := range el.Nodes {
			renderText(&b, n)
		}
		if v := tidyLines(b.String()); v != "" {
			return v, true
		}
	}
	return "", false
}
