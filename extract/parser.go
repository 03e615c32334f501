// Package extract provides the strategy engine that turns a job-posting
// document into a jobcore.JobRecord: data-driven site parsers, the
// text-pattern and domain strategies, and the registry driving the
// fallback chain between parsers.
package extract

import (
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/jobcore"
	"github.com/google/uuid"
)

var _ jobcore.SiteParser = (*Parser)(nil)

// validationPenalty scales the confidence of a field for every failed rule.
const validationPenalty = 0.5

// Parser interprets one SiteProfile with a shared set of strategies.
type Parser struct {
	profile    jobcore.SiteProfile
	strategies []jobcore.Strategy
	text       jobcore.TextExtractor
	thresholds jobcore.Thresholds

	// Now stamps records. Defaults to time.Now.
	Now func() time.Time
}

// NewParser returns a parser for profile. Strategies run in the order the
// profile lists them, or in jobcore.MethodPriority order when it lists none.
// Strategies the profile names but that are not supplied are skipped.
func NewParser(profile jobcore.SiteProfile, strategies []jobcore.Strategy, text jobcore.TextExtractor, thresholds jobcore.Thresholds) *Parser {
	order := profile.Strategies
	if len(order) == 0 {
		order = jobcore.MethodPriority
	}
	var run []jobcore.Strategy
	for _, m := range order {
		for _, s := range strategies {
			if s.Method() == m {
				run = append(run, s)
				break
			}
		}
	}
	return &Parser{
		profile:    profile,
		strategies: run,
		text:       text,
		thresholds: thresholds,
		Now:        time.Now,
	}
}

// Name returns the profile name.
func (p *Parser) Name() string { return p.profile.Name }

// CanHandle reports whether the profile matches u.
func (p *Parser) CanHandle(u *url.URL) bool { return p.profile.Matches(u) }

// Confidence returns the profile's confidence ceiling.
func (p *Parser) Confidence() float64 { return p.profile.Ceiling }

// Specificity returns the profile's specificity.
func (p *Parser) Specificity() int { return p.profile.Specificity }

// Profile returns a copy of the profile the parser interprets.
func (p *Parser) Profile() jobcore.SiteProfile { return p.profile }

// Parse runs every strategy of the parser over page, merges their partial
// records and applies the cleanup rules. It never fails: missing title
// and company yield sentinel values.
func (p *Parser) Parse(page *jobcore.Page) (jobcore.JobRecord, []jobcore.ExtractionAttempt) {
	page = PreparePage(page, p.text)
	ceiling := p.profile.Ceiling

	var (
		merged   jobcore.Partial
		owners   = make(map[string]jobcore.ExtractionMethod)
		evidence []jobcore.Evidence
		meta     jobcore.ParsingMetadata
		attempts []jobcore.ExtractionAttempt
	)
	for _, s := range p.strategies {
		begin := time.Now()
		ex := s.Extract(page, &p.profile)
		if sd, ok := ex.(jobcore.StructuredDataResult); ok {
			meta.RawTitle = sd.RawTitle
			meta.MetaTagsCount = sd.MetaTagsCount
			meta.StructuredDataFound = sd.Source == "json-ld"
		}
		part := ex.Partial().Cap(ceiling)
		attempts = append(attempts, jobcore.ExtractionAttempt{
			Parser:     p.profile.Name,
			Method:     s.Method(),
			Partial:    part,
			Validation: s.Validate(part),
			Duration:   time.Since(begin),
		})
		mergePartial(&merged, part, s.Method(), owners, p.thresholds.MaterialOverride)
		evidence = append(evidence, part.Evidence...)
	}
	if meta.RawTitle == "" {
		meta.RawTitle = page.Title
	}

	merged = p.cleanup(merged, page, owners)
	merged = merged.Cap(ceiling)

	validation := jobcore.ValidatePartial(merged, p.thresholds)
	merged = penalize(merged, validation)
	merged = p.sentinels(merged)

	rec := jobcore.JobRecord{
		ID:               uuid.New().String(),
		SourceURL:        page.URL.String(),
		Platform:         p.platform(page.URL),
		PlatformJobID:    jobcore.JobIDFromURL(page.URL),
		Title:            merged.Title,
		Company:          merged.Company,
		Location:         merged.Location,
		Description:      merged.Description,
		Salary:           merged.Salary,
		PostedAt:         merged.PostedAt,
		Remote:           merged.Remote,
		Method:           dominantMethod(owners),
		Parser:           p.profile.Name,
		ParserConfidence: ceiling,
		Validation:       validation,
		Meta:             meta,
		ExtractedAt:      p.now().UTC(),
	}
	for _, ev := range evidence {
		if owners[ev.Field] == ev.Method {
			rec.Evidence = append(rec.Evidence, ev)
		}
	}
	rec.Confidence = jobcore.BlendConfidence(rec)
	return rec, attempts
}

func (p *Parser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Parser) platform(u *url.URL) jobcore.Platform {
	if p.profile.Platform != "" {
		return p.profile.Platform
	}
	return jobcore.PlatformFromURL(u)
}

// cleanup applies the profile's title, company and remote rules.
func (p *Parser) cleanup(m jobcore.Partial, page *jobcore.Page, owners map[string]jobcore.ExtractionMethod) jobcore.Partial {
	if m.Company.Set() {
		company := jobcore.NormalizeSpace(m.Company.Value)
		if rest, ok := strings.CutPrefix(company, "at "); ok && rest != "" {
			company = rest
		}
		m.Company.Value = company
	}
	if m.Title.Set() {
		title := stripSuffixes(m.Title.Value, p.profile.TitleSuffixes)
		title = applicationPrefixRe.ReplaceAllString(title, "")
		if m.Company.Set() {
			title = stripCompany(title, m.Company.Value)
		}
		m.Title.Value = jobcore.NormalizeSpace(title)
	}

	// A company read from the page that is only the URL slug takes the
	// profile's canonical name.
	if slug := p.profile.Slug(page.URL); slug != "" {
		alias, known := p.profile.CompanyAliases[slug]
		switch {
		case m.Company.Set() && known && jobcore.CompanyKey(m.Company.Value) == jobcore.CompanyKey(slug):
			m.Company.Value = alias
		case !m.Company.Set() && known:
			m.Company = jobcore.NewField(alias, aliasConfidence)
			owners["company"] = jobcore.MethodDomain
		case !m.Company.Set():
			if company := humanizeSlug(slug); company != "" {
				m.Company = jobcore.NewField(company, slugConfidence)
				owners["company"] = jobcore.MethodDomain
			}
		}
	}

	if !m.Remote.Set() {
		if remote, ok := DetectRemote(m.Location.Value, m.Title.Value, m.Description.Value); ok {
			m.Remote = jobcore.NewField(remote, remoteConfidence-0.1)
		}
	}
	return m
}

// sentinels fills a missing title or company with the explicit unknown
// values at near-zero confidence.
func (p *Parser) sentinels(m jobcore.Partial) jobcore.Partial {
	c := min(p.thresholds.SentinelConfidence, p.profile.Ceiling)
	if !m.Title.Set() || m.Title.Value == "" {
		m.Title = jobcore.Field[string]{Value: jobcore.UnknownTitle, Confidence: c}
	}
	if !m.Company.Set() || m.Company.Value == "" {
		m.Company = jobcore.Field[string]{Value: jobcore.UnknownCompany, Confidence: c}
	}
	return m
}

// mergePartial folds next into cur. A field keeps the first value set
// unless a later strategy is more confident by more than margin.
func mergePartial(cur *jobcore.Partial, next jobcore.Partial, method jobcore.ExtractionMethod, owners map[string]jobcore.ExtractionMethod, margin float64) {
	take := func(field string, replaced bool) {
		if replaced {
			owners[field] = method
		}
	}
	take("title", mergeField(&cur.Title, next.Title, margin))
	take("company", mergeField(&cur.Company, next.Company, margin))
	take("location", mergeField(&cur.Location, next.Location, margin))
	take("description", mergeField(&cur.Description, next.Description, margin))
	take("salary", mergeField(&cur.Salary, next.Salary, margin))
	take("postedAt", mergeField(&cur.PostedAt, next.PostedAt, margin))
	take("remote", mergeField(&cur.Remote, next.Remote, margin))
}

func mergeField[T any](cur *jobcore.Field[T], next jobcore.Field[T], margin float64) bool {
	if !next.Set() {
		return false
	}
	if !cur.Set() || next.Confidence > cur.Confidence+margin {
		*cur = next
		return true
	}
	return false
}

// penalize scales the confidence of every field with a failed rule.
func penalize(m jobcore.Partial, results []jobcore.ValidationResult) jobcore.Partial {
	for _, r := range results {
		if r.Passed {
			continue
		}
		switch r.Field {
		case "title":
			m.Title.Confidence *= validationPenalty
		case "company":
			m.Company.Confidence *= validationPenalty
		case "location":
			m.Location.Confidence *= validationPenalty
		case "description":
			m.Description.Confidence *= max(r.Score, validationPenalty)
		case "salary":
			m.Salary.Confidence *= validationPenalty
		case "postedAt":
			m.PostedAt.Confidence *= validationPenalty
		}
	}
	return m
}

// dominantMethod returns the method owning the most fields. Ties go to the
// higher priority method.
func dominantMethod(owners map[string]jobcore.ExtractionMethod) jobcore.ExtractionMethod {
	counts := make(map[jobcore.ExtractionMethod]int)
	for _, m := range owners {
		counts[m]++
	}
	best, bestN := jobcore.MethodFallback, 0
	for _, m := range jobcore.MethodPriority {
		if counts[m] > bestN {
			best, bestN = m, counts[m]
		}
	}
	return best
}

// PreparePage returns page with Title and Text filled by text when page is
// HTML and they are missing. The input page is not modified.
func PreparePage(page *jobcore.Page, text jobcore.TextExtractor) *jobcore.Page {
	if !page.IsHTML || page.Text != "" || text == nil {
		return page
	}
	cp := *page
	cp.Title, cp.Text = text.ExtractText(page.Raw)
	cp.Title = strings.TrimSpace(cp.Title)
	return &cp
}
