package jobcore

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Input is a document handed to the core by the ingestion layer.
type Input struct {
	URL      string `json:"url"`
	Document string `json:"document"`
}

// Validate returns EINVALID if the URL is missing or malformed or the
// document is empty. It is the only rejection the core performs.
func (in Input) Validate() error {
	_, err := in.ParseURL()
	if err != nil {
		return err
	}
	if strings.TrimSpace(in.Document) == "" {
		return Errorf(EINVALID, "document required")
	}
	return nil
}

// ParseURL parses and checks the input URL.
func (in Input) ParseURL() (*url.URL, error) {
	if strings.TrimSpace(in.URL) == "" {
		return nil, Errorf(EINVALID, "url required")
	}
	u, err := url.Parse(strings.TrimSpace(in.URL))
	if err != nil {
		return nil, Errorf(EINVALID, "malformed url %q", in.URL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return nil, Errorf(EINVALID, "url must be absolute http(s): %q", in.URL)
	}
	return u, nil
}

var htmlMarkerRe = regexp.MustCompile(`(?i)<(?:!doctype|html|head|body|div|p|span|meta|script|article|section|h[1-6]|ul|li)[\s>/]`)

// Page is a validated document prepared for strategies.
// Text and Title are filled by a TextExtractor for HTML documents and
// hold the document itself for plain text.
type Page struct {
	URL    *url.URL
	Host   string
	Raw    string
	IsHTML bool
	Title  string
	Text   string
}

// NewPage builds a page for u from a raw document.
func NewPage(u *url.URL, document string) *Page {
	p := &Page{
		URL:    u,
		Host:   strings.TrimPrefix(strings.ToLower(u.Hostname()), "www."),
		Raw:    document,
		IsHTML: IsHTML(document),
	}
	if !p.IsHTML {
		p.Text = document
	}
	return p
}

// IsHTML reports whether document looks like HTML rather than plain text.
func IsHTML(document string) bool {
	return htmlMarkerRe.MatchString(document)
}

// TextExtractor renders the visible text and title of an HTML document.
type TextExtractor interface {
	ExtractText(html string) (title, text string)
}

// FieldSelectors lists CSS selectors per record field, tried in order.
type FieldSelectors struct {
	Title       []string `yaml:"title"`
	Company     []string `yaml:"company"`
	Location    []string `yaml:"location"`
	Description []string `yaml:"description"`
	PostedAt    []string `yaml:"postedAt"`
	Salary      []string `yaml:"salary"`
}

// SiteProfile is the data-only description of a site parser. A single
// engine interprets every profile.
type SiteProfile struct {
	Name     string   `yaml:"name"`
	Platform Platform `yaml:"platform"`

	// HostSuffixes match the URL host exactly or as a parent domain.
	// A profile without host rules matches any host on its PathContains
	// fragments, and nothing when it has none and AcceptAll is unset.
	HostSuffixes []string `yaml:"hostSuffixes"`

	// PathContains, when set, further requires the lowercased path to
	// contain one of the fragments.
	PathContains []string `yaml:"pathContains"`

	// HostPrefixes match hosts such as "careers." or "jobs.".
	HostPrefixes []string `yaml:"hostPrefixes"`

	AcceptAll   bool    `yaml:"acceptAll"`
	Ceiling     float64 `yaml:"ceiling"`
	Specificity int     `yaml:"specificity"`

	// Strategies is the ordered subset of strategy families to run.
	// Nil runs every registered strategy.
	Strategies []ExtractionMethod `yaml:"strategies"`

	Selectors    FieldSelectors `yaml:"selectors"`
	Fingerprints []string       `yaml:"fingerprints"`

	// TitleSuffixes are trimmed from page-derived titles (" | LinkedIn").
	TitleSuffixes []string `yaml:"titleSuffixes"`

	// CompanySlug names the path segment (1-based) or, when zero and
	// SubdomainSlug is set, the first host label holding the company slug.
	CompanySlug   int  `yaml:"companySlug"`
	SubdomainSlug bool `yaml:"subdomainSlug"`

	// CompanyAliases maps slugs to canonical company names.
	CompanyAliases map[string]string `yaml:"companyAliases"`
}

// Matches reports whether the profile accepts u.
func (p *SiteProfile) Matches(u *url.URL) bool {
	if u == nil {
		return false
	}
	if p.AcceptAll {
		return true
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	hostOK := len(p.HostSuffixes) == 0 && len(p.HostPrefixes) == 0 && len(p.PathContains) > 0
	for _, s := range p.HostSuffixes {
		if host == s || strings.HasSuffix(host, "."+s) {
			hostOK = true
			break
		}
	}
	for _, s := range p.HostPrefixes {
		if strings.HasPrefix(host, s) {
			hostOK = true
			break
		}
	}
	if !hostOK {
		return false
	}
	if len(p.PathContains) == 0 {
		return true
	}
	path := strings.ToLower(u.Path)
	for _, frag := range p.PathContains {
		if strings.Contains(path, frag) {
			return true
		}
	}
	return false
}

// Slug returns the company slug the profile reads from u, lowercased.
func (p *SiteProfile) Slug(u *url.URL) string {
	if u == nil {
		return ""
	}
	if p.CompanySlug > 0 {
		segs := strings.Split(strings.Trim(u.Path, "/"), "/")
		if p.CompanySlug <= len(segs) {
			return strings.ToLower(segs[p.CompanySlug-1])
		}
		return ""
	}
	if p.SubdomainSlug {
		host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
		if i := strings.IndexByte(host, '.'); i > 0 {
			return host[:i]
		}
	}
	return ""
}

// Strategy is a stateless reader of a page. Strategies never fail:
// missing data yields unset fields.
type Strategy interface {
	Method() ExtractionMethod
	Extract(page *Page, profile *SiteProfile) Extraction
	Validate(p Partial) []ValidationResult
}

// SiteParser composes strategies and cleanup rules for a family of URLs.
type SiteParser interface {
	Name() string
	CanHandle(u *url.URL) bool

	// Confidence is the static ceiling applied to every field.
	Confidence() float64

	// Specificity orders candidates; higher is tried first.
	Specificity() int

	// Parse never fails. Missing data yields sentinel values.
	Parse(page *Page) (JobRecord, []ExtractionAttempt)
}

// ParserRegistry selects parsers for a URL and drives the fallback chain.
type ParserRegistry interface {
	// SelectAndParse returns the aggregated record for the document.
	// Returns EINVALID only for a missing or malformed URL or an empty document.
	SelectAndParse(rawURL, document string) (JobRecord, error)

	// Fallback runs only the generic parser.
	Fallback(rawURL, document string) (JobRecord, error)

	// Register adds a parser. A parser with the same name is replaced.
	Register(p SiteParser)

	// Parsers returns registered parsers in candidate order.
	Parsers() []SiteParser
}

// LayoutDetector identifies a known page layout from HTML and returns the
// name of the parser that handles it, or "" when unknown.
type LayoutDetector interface {
	Detect(html string) string
}

// ValidatePartial applies the shared validation rules to a partial record.
// Unset fields are not validated.
func ValidatePartial(p Partial, t Thresholds) []ValidationResult {
	var results []ValidationResult
	if p.Title.Set() {
		n := len([]rune(NormalizeSpace(p.Title.Value)))
		results = append(results, rule("title_length", "title", n >= 3 && n <= 200))
		results = append(results, rule("title_not_sentinel", "title", p.Title.Value != UnknownTitle))
	}
	if p.Company.Set() {
		n := len([]rune(NormalizeSpace(p.Company.Value)))
		results = append(results, rule("company_length", "company", n >= 2 && n <= 120))
	}
	if p.Location.Set() {
		loc := NormalizeSpace(p.Location.Value)
		results = append(results, rule("location_format", "location", len(loc) <= 120 && !digitsOnlyRe.MatchString(loc)))
	}
	if p.Description.Set() {
		n := len([]rune(NormalizeSpace(p.Description.Value)))
		r := rule("description_length", "description", n >= t.DescriptionMinLength)
		if !r.Passed && t.DescriptionMinLength > 0 {
			r.Score = float64(n) / float64(t.DescriptionMinLength)
		}
		results = append(results, r)
	}
	if p.Salary.Set() {
		s := p.Salary.Value
		results = append(results, rule("salary_range", "salary", s.Max == 0 || s.Min <= s.Max))
	}
	if p.PostedAt.Set() {
		results = append(results, rule("posted_at_not_future", "postedAt", !p.PostedAt.Value.After(time.Now().Add(48*time.Hour))))
	}
	return results
}

var digitsOnlyRe = regexp.MustCompile(`^[\d\s.,-]+$`)

func rule(name, field string, passed bool) ValidationResult {
	score := 0.0
	if passed {
		score = 1
	}
	return ValidationResult{Rule: name, Field: field, Passed: passed, Score: score}
}
