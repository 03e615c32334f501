package extract

import (
	"maps"
	"strings"

	"github.com/fwojciec/jobcore"
)

var _ jobcore.Strategy = (*DomainStrategy)(nil)

// KnownEntities maps career-site hosts to the company that owns them.
// A key matches the host exactly or as a parent domain.
var KnownEntities = map[string]string{
	"amazon.jobs":                  "Amazon",
	"metacareers.com":              "Meta",
	"careers.google.com":           "Google",
	"jobs.apple.com":               "Apple",
	"careers.microsoft.com":        "Microsoft",
	"jobs.netflix.com":             "Netflix",
	"careers.ibm.com":              "IBM",
	"jobs.intel.com":               "Intel",
	"careers.salesforce.com":       "Salesforce",
	"nvidia.wd5.myworkdayjobs.com": "NVIDIA",
}

// Hosts of boards that only list remote positions.
var remoteBoards = []string{"weworkremotely.com", "remoteok.com", "remoteok.io", "remote.co", "remotive.com", "remotive.io"}

// Confidence of domain-derived values.
const (
	entityConfidence      = 0.9
	aliasConfidence       = 0.9
	slugConfidence        = 0.7
	careersHostConfidence = 0.5
	remoteBoardConfidence = 0.8
)

// DomainStrategy maps the URL host and path to a known entity: a career
// site owned by one company, an applicant tracking system slug, or a
// remote-only job board.
type DomainStrategy struct {
	thresholds jobcore.Thresholds
	entities   map[string]string
}

// NewDomainStrategy creates a DomainStrategy over KnownEntities plus extra.
// Entries in extra win.
func NewDomainStrategy(thresholds jobcore.Thresholds, extra map[string]string) *DomainStrategy {
	entities := maps.Clone(KnownEntities)
	for host, company := range extra {
		entities[strings.TrimPrefix(strings.ToLower(host), "www.")] = company
	}
	return &DomainStrategy{thresholds: thresholds, entities: entities}
}

// Method returns jobcore.MethodDomain.
func (s *DomainStrategy) Method() jobcore.ExtractionMethod {
	return jobcore.MethodDomain
}

// Validate applies the shared validation rules.
func (s *DomainStrategy) Validate(p jobcore.Partial) []jobcore.ValidationResult {
	return jobcore.ValidatePartial(p, s.thresholds)
}

// Extract resolves the company from the known entities first, then from
// the profile's company slug, then from a careers subdomain.
func (s *DomainStrategy) Extract(page *jobcore.Page, profile *jobcore.SiteProfile) jobcore.Extraction {
	res := jobcore.DomainResult{}
	host := page.Host

	if entity, company, ok := s.entity(host); ok {
		res.Entity = entity
		res.Company = jobcore.NewField(company, entityConfidence)
		res.Evidence = append(res.Evidence, evidence("company", jobcore.MethodDomain, entity))
	} else if company, confidence, ok := slugCompany(page, profile); ok {
		res.Entity = host
		res.Company = jobcore.NewField(company, confidence)
		res.Evidence = append(res.Evidence, evidence("company", jobcore.MethodDomain, page.URL.Path))
	} else if company, ok := careersHostCompany(page); ok {
		res.Entity = host
		res.Company = jobcore.NewField(company, careersHostConfidence)
		res.Evidence = append(res.Evidence, evidence("company", jobcore.MethodDomain, host))
	}

	for _, board := range remoteBoards {
		if host == board || strings.HasSuffix(host, "."+board) {
			res.Remote = jobcore.NewField(true, remoteBoardConfidence)
			res.Evidence = append(res.Evidence, evidence("remote", jobcore.MethodDomain, host))
			break
		}
	}
	return res
}

func (s *DomainStrategy) entity(host string) (string, string, bool) {
	for h := host; h != ""; {
		if company, ok := s.entities[h]; ok {
			return h, company, true
		}
		i := strings.IndexByte(h, '.')
		if i < 0 {
			break
		}
		h = h[i+1:]
	}
	return "", "", false
}

// slugCompany reads the company slug of an applicant tracking system URL,
// mapped through the profile's aliases when known.
func slugCompany(page *jobcore.Page, profile *jobcore.SiteProfile) (string, float64, bool) {
	if profile == nil {
		return "", 0, false
	}
	slug := profile.Slug(page.URL)
	if slug == "" {
		return "", 0, false
	}
	if company, ok := profile.CompanyAliases[slug]; ok {
		return company, aliasConfidence, true
	}
	if company := humanizeSlug(slug); company != "" {
		return company, slugConfidence, true
	}
	return "", 0, false
}

// careersHostCompany derives "Acme" from careers.acme.com or jobs.acme.com.
func careersHostCompany(page *jobcore.Page) (string, bool) {
	if jobcore.PlatformFromURL(page.URL) != jobcore.PlatformCompany {
		return "", false
	}
	labels := strings.Split(page.Host, ".")
	if len(labels) < 2 {
		return "", false
	}
	name := labels[len(labels)-2]
	// Second-level country domains such as acme.co.uk.
	if len(labels) >= 3 && (name == "co" || name == "com") {
		name = labels[len(labels)-3]
	}
	if name == "careers" || name == "jobs" {
		return "", false
	}
	company := humanizeSlug(name)
	return company, company != ""
}
