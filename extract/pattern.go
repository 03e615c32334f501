package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/fwojciec/jobcore"
)

var _ jobcore.Strategy = (*TextPatternStrategy)(nil)

// Labelled lines such as "Location: Berlin" in page text.
var (
	titleLabelRe    = regexp.MustCompile(`(?im)^[ \t]*(?:job[ \t]+title|position|role)[ \t]*:[ \t]*(\S[^\n]{2,119})$`)
	companyLabelRe  = regexp.MustCompile(`(?im)^[ \t]*(?:company|employer|organi[sz]ation|hiring[ \t]+company)[ \t]*:[ \t]*(\S[^\n]{1,119})$`)
	locationLabelRe = regexp.MustCompile(`(?im)^[ \t]*(?:job[ \t]+|work[ \t]+)?location[ \t]*:[ \t]*(\S[^\n]{1,119})$`)
	datePostedRe    = regexp.MustCompile(`(?im)^[ \t]*(?:date[ \t]+posted|posted[ \t]+on|published)[ \t]*:?[ \t]*(\S[^\n]{5,39})$`)

	// separatorRe splits page titles such as "Role at Company",
	// "Role - Company" or "Role | Company".
	separatorRe = regexp.MustCompile(`(?i)^(.+?)\s+(?:at|[-–—|])\s+(.+)$`)

	applicationPrefixRe = regexp.MustCompile(`(?i)^(?:job\s+application\s+for|apply\s+for|careers?\s*[:|-])\s+`)
)

// Confidence of each pattern family.
const (
	labelConfidence    = 0.75
	titleSplitTitle    = 0.6
	titleSplitCompany  = 0.55
	salaryConfidence   = 0.75
	datedConfidence    = 0.7
	relativeConfidence = 0.65
	remoteConfidence   = 0.7
)

// TextPatternStrategy reads fields from page text with families of regular
// expressions tuned per field.
type TextPatternStrategy struct {
	thresholds jobcore.Thresholds

	// Now resolves relative dates. Defaults to time.Now.
	Now func() time.Time
}

// NewTextPatternStrategy creates a new TextPatternStrategy.
func NewTextPatternStrategy(thresholds jobcore.Thresholds) *TextPatternStrategy {
	return &TextPatternStrategy{thresholds: thresholds, Now: time.Now}
}

// Method returns jobcore.MethodTextPattern.
func (s *TextPatternStrategy) Method() jobcore.ExtractionMethod {
	return jobcore.MethodTextPattern
}

// Validate applies the shared validation rules.
func (s *TextPatternStrategy) Validate(p jobcore.Partial) []jobcore.ValidationResult {
	return jobcore.ValidatePartial(p, s.thresholds)
}

// Extract matches the pattern families against the page text and title.
func (s *TextPatternStrategy) Extract(page *jobcore.Page, profile *jobcore.SiteProfile) jobcore.Extraction {
	res := jobcore.PatternResult{}
	text := page.Text
	add := func(f *jobcore.Field[string], field, value string, confidence float64) {
		value = jobcore.NormalizeSpace(value)
		if value == "" || f.Set() {
			return
		}
		*f = jobcore.NewField(value, confidence)
		res.Evidence = append(res.Evidence, evidence(field, jobcore.MethodTextPattern, value))
	}

	if m := titleLabelRe.FindStringSubmatch(text); m != nil {
		add(&res.Title, "title", m[1], labelConfidence)
	}
	if m := companyLabelRe.FindStringSubmatch(text); m != nil {
		add(&res.Company, "company", m[1], labelConfidence)
	}
	if m := locationLabelRe.FindStringSubmatch(text); m != nil {
		add(&res.Location, "location", m[1], labelConfidence)
	}

	var suffixes []string
	if profile != nil {
		suffixes = profile.TitleSuffixes
	}
	if title := stripSuffixes(page.Title, suffixes); title != "" {
		title = applicationPrefixRe.ReplaceAllString(title, "")
		if m := separatorRe.FindStringSubmatch(title); m != nil {
			add(&res.Title, "title", m[1], titleSplitTitle)
			add(&res.Company, "company", m[2], titleSplitCompany)
		}
	}

	if sal, ok := jobcore.ParseSalary(text); ok {
		res.Salary = jobcore.NewField(sal, salaryConfidence)
		res.Evidence = append(res.Evidence, evidence("salary", jobcore.MethodTextPattern, sal.Text))
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	if m := datePostedRe.FindStringSubmatch(text); m != nil {
		if t, err := dateparse.ParseIn(strings.TrimSpace(m[1]), time.UTC); err == nil {
			res.PostedAt = jobcore.NewField(t, datedConfidence)
			res.Evidence = append(res.Evidence, evidence("postedAt", jobcore.MethodTextPattern, m[1]))
		}
	}
	if !res.PostedAt.Set() {
		if t, ok := jobcore.ParsePostedAgo(text, now()); ok {
			res.PostedAt = jobcore.NewField(t, relativeConfidence)
			res.Evidence = append(res.Evidence, evidence("postedAt", jobcore.MethodTextPattern, t.Format(time.RFC3339)))
		}
	}

	if remote, ok := DetectRemote(res.Location.Value, res.Title.Value, text); ok {
		res.Remote = jobcore.NewField(remote, remoteConfidence)
	}
	return res
}

func evidence(field string, method jobcore.ExtractionMethod, excerpt string) jobcore.Evidence {
	const maxExcerpt = 200
	if r := []rune(excerpt); len(r) > maxExcerpt {
		excerpt = string(r[:maxExcerpt])
	}
	return jobcore.Evidence{Field: field, Method: method, Excerpt: excerpt}
}
