package goquery

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/fwojciec/jobcore"
)

var _ jobcore.Strategy = (*StructuredDataStrategy)(nil)

// Confidence of values read from an embedded JobPosting and from meta tags.
const (
	jsonLDConfidence = 0.95
	metaConfidence   = 0.6
)

// StructuredDataStrategy reads embedded schema.org JobPosting objects and,
// when none is present, the page's Open Graph and description meta tags.
type StructuredDataStrategy struct {
	thresholds jobcore.Thresholds
}

// NewStructuredDataStrategy creates a new StructuredDataStrategy.
func NewStructuredDataStrategy(thresholds jobcore.Thresholds) *StructuredDataStrategy {
	return &StructuredDataStrategy{thresholds: thresholds}
}

// Method returns jobcore.MethodStructuredData.
func (s *StructuredDataStrategy) Method() jobcore.ExtractionMethod {
	return jobcore.MethodStructuredData
}

// Validate applies the shared validation rules.
func (s *StructuredDataStrategy) Validate(p jobcore.Partial) []jobcore.ValidationResult {
	return jobcore.ValidatePartial(p, s.thresholds)
}

// Extract reads the page. Pages that are not HTML yield an empty result.
func (s *StructuredDataStrategy) Extract(page *jobcore.Page, _ *jobcore.SiteProfile) jobcore.Extraction {
	if !page.IsHTML {
		return jobcore.StructuredDataResult{}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Raw))
	if err != nil {
		return jobcore.StructuredDataResult{}
	}

	metaCount := doc.Find("meta[property], meta[name]").Length()
	rawTitle := jobcore.NormalizeSpace(doc.Find("title").First().Text())

	var res jobcore.StructuredDataResult
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		posting, ok := findJobPosting([]byte(sel.Text()))
		if !ok {
			return true
		}
		res = fromJobPosting(posting)
		return false
	})
	if res.Source == "" {
		res = fromMetaTags(doc)
	}
	res.MetaTagsCount = metaCount
	res.RawTitle = rawTitle
	return res
}

// jobPosting is the subset of schema.org/JobPosting the strategy reads.
type jobPosting struct {
	Type               any             `json:"@type"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	DatePosted         string          `json:"datePosted"`
	HiringOrganization json.RawMessage `json:"hiringOrganization"`
	JobLocation        json.RawMessage `json:"jobLocation"`
	JobLocationType    string          `json:"jobLocationType"`
	BaseSalary         json.RawMessage `json:"baseSalary"`
	Graph              []jobPosting    `json:"@graph"`
}

func (p jobPosting) isJobPosting() bool {
	switch t := p.Type.(type) {
	case string:
		return strings.EqualFold(t, "JobPosting")
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && strings.EqualFold(s, "JobPosting") {
				return true
			}
		}
	}
	return false
}

// findJobPosting decodes a JSON-LD block that may hold a single object, an
// array of objects, or an @graph.
func findJobPosting(data []byte) (jobPosting, bool) {
	var many []jobPosting
	if err := json.Unmarshal(data, &many); err != nil {
		var one jobPosting
		if err := json.Unmarshal(data, &one); err != nil {
			return jobPosting{}, false
		}
		many = []jobPosting{one}
	}
	for len(many) > 0 {
		var next []jobPosting
		for _, p := range many {
			if p.isJobPosting() {
				return p, true
			}
			next = append(next, p.Graph...)
		}
		many = next
	}
	return jobPosting{}, false
}

func fromJobPosting(p jobPosting) jobcore.StructuredDataResult {
	res := jobcore.StructuredDataResult{Source: "json-ld"}
	set := func(f *jobcore.Field[string], name, value string, confidence float64) {
		if name == "description" {
			value = strings.TrimSpace(value)
		} else {
			value = jobcore.NormalizeSpace(value)
		}
		if value == "" {
			return
		}
		*f = jobcore.NewField(value, confidence)
		res.Evidence = append(res.Evidence, evidence(name, jobcore.MethodStructuredData, value))
	}

	set(&res.Title, "title", p.Title, jsonLDConfidence)
	set(&res.Company, "company", organizationName(p.HiringOrganization), jsonLDConfidence)
	set(&res.Location, "location", locationName(p.JobLocation), 0.9)
	set(&res.Description, "description", htmlText(p.Description), 0.9)

	if t, err := dateparse.ParseIn(strings.TrimSpace(p.DatePosted), time.UTC); err == nil && p.DatePosted != "" {
		res.PostedAt = jobcore.NewField(t, 0.9)
	}
	if sal, ok := baseSalary(p.BaseSalary); ok {
		res.Salary = jobcore.NewField(sal, 0.9)
	}
	if strings.EqualFold(p.JobLocationType, "TELECOMMUTE") {
		res.Remote = jobcore.NewField(true, 0.9)
	}
	return res
}

func organizationName(raw json.RawMessage) string {
	var name string
	if json.Unmarshal(raw, &name) == nil {
		return name
	}
	var org struct {
		Name string `json:"name"`
	}
	if json.Unmarshal(raw, &org) == nil {
		return org.Name
	}
	return ""
}

type place struct {
	Name    string          `json:"name"`
	Address json.RawMessage `json:"address"`
}

type postalAddress struct {
	Locality string `json:"addressLocality"`
	Region   string `json:"addressRegion"`
	Country  any    `json:"addressCountry"`
}

// locationName renders a jobLocation, which may be a string, a Place or a
// list of places, as "Locality, Region, Country". Multiple places are
// joined with "; ".
func locationName(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var places []place
	if json.Unmarshal(raw, &places) != nil {
		var one place
		if json.Unmarshal(raw, &one) != nil {
			return ""
		}
		places = []place{one}
	}
	var out []string
	for _, p := range places {
		if name := addressName(p.Address); name != "" {
			out = append(out, name)
		} else if p.Name != "" {
			out = append(out, p.Name)
		}
	}
	return strings.Join(out, "; ")
}

func addressName(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var a postalAddress
	if json.Unmarshal(raw, &a) != nil {
		return ""
	}
	var parts []string
	for _, p := range []string{a.Locality, a.Region, countryName(a.Country)} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func countryName(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case map[string]any:
		if name, ok := c["name"].(string); ok {
			return name
		}
	}
	return ""
}

// baseSalary reads a MonetaryAmount whose value is a number or a
// QuantitativeValue with a range.
func baseSalary(raw json.RawMessage) (jobcore.Salary, bool) {
	if len(raw) == 0 {
		return jobcore.Salary{}, false
	}
	var amount struct {
		Currency string          `json:"currency"`
		Value    json.RawMessage `json:"value"`
	}
	if json.Unmarshal(raw, &amount) != nil {
		return jobcore.Salary{}, false
	}
	s := jobcore.Salary{Currency: strings.ToUpper(amount.Currency)}

	var n float64
	if json.Unmarshal(amount.Value, &n) == nil {
		s.Min, s.Max = n, n
	} else {
		var q struct {
			Value    float64 `json:"value"`
			MinValue float64 `json:"minValue"`
			MaxValue float64 `json:"maxValue"`
			UnitText string  `json:"unitText"`
		}
		if json.Unmarshal(amount.Value, &q) != nil {
			return jobcore.Salary{}, false
		}
		s.Min, s.Max = q.MinValue, q.MaxValue
		if q.Value > 0 && s.Min == 0 && s.Max == 0 {
			s.Min, s.Max = q.Value, q.Value
		}
		s.Interval = strings.ToLower(q.UnitText)
	}
	if s.Max == 0 && s.Min == 0 {
		return jobcore.Salary{}, false
	}
	if s.Max == 0 {
		s.Max = s.Min
	}
	s.Text = formatSalary(s)
	return s, true
}

func formatSalary(s jobcore.Salary) string {
	var b strings.Builder
	b.WriteString(s.Currency)
	b.WriteByte(' ')
	b.WriteString(strconvFloat(s.Min))
	if s.Max != s.Min {
		b.WriteString(" - ")
		b.WriteString(strconvFloat(s.Max))
	}
	if s.Interval != "" {
		b.WriteString(" per ")
		b.WriteString(s.Interval)
	}
	return strings.TrimSpace(b.String())
}

// fromMetaTags reads Open Graph and description meta tags.
func fromMetaTags(doc *goquery.Document) jobcore.StructuredDataResult {
	res := jobcore.StructuredDataResult{}
	meta := func(names ...string) string {
		for _, n := range names {
			sel := doc.Find(`meta[property="` + n + `"], meta[name="` + n + `"]`).First()
			if v, ok := sel.Attr("content"); ok && strings.TrimSpace(v) != "" {
				return jobcore.NormalizeSpace(v)
			}
		}
		return ""
	}

	if v := meta("og:title", "twitter:title"); v != "" {
		res.Title = jobcore.NewField(v, metaConfidence)
		res.Evidence = append(res.Evidence, evidence("title", jobcore.MethodStructuredData, v))
	}
	if v := meta("og:site_name", "application-name"); v != "" {
		res.Company = jobcore.NewField(v, metaConfidence-0.1)
		res.Evidence = append(res.Evidence, evidence("company", jobcore.MethodStructuredData, v))
	}
	if v := meta("og:description", "description", "twitter:description"); v != "" {
		res.Description = jobcore.NewField(v, metaConfidence-0.2)
		res.Evidence = append(res.Evidence, evidence("description", jobcore.MethodStructuredData, v))
	}
	if !res.Title.Set() && !res.Company.Set() && !res.Description.Set() {
		return res
	}
	res.Source = "meta"
	return res
}
