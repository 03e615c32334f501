package extract_test

import (
	"net/url"
	"testing"

	"github.com/fwojciec/jobcore"
	"github.com/fwojciec/jobcore/extract"
	"github.com/fwojciec/jobcore/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// strategy returns a mock strategy producing ex for every page.
func strategy(method jobcore.ExtractionMethod, ex jobcore.Extraction) *mock.Strategy {
	return &mock.Strategy{
		MethodFn:   func() jobcore.ExtractionMethod { return method },
		ExtractFn:  func(*jobcore.Page, *jobcore.SiteProfile) jobcore.Extraction { return ex },
		ValidateFn: func(jobcore.Partial) []jobcore.ValidationResult { return nil },
	}
}

func profile(name string, ceiling float64) jobcore.SiteProfile {
	return jobcore.SiteProfile{Name: name, AcceptAll: true, Ceiling: ceiling, Specificity: 10}
}

func parse(t *testing.T, p *extract.Parser, rawURL string) (jobcore.JobRecord, []jobcore.ExtractionAttempt) {
	t.Helper()
	return p.Parse(textPage(t, rawURL, "", "plain text posting"))
}

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	th := jobcore.DefaultThresholds()

	t.Run("keeps the first value unless a later one is materially better", func(t *testing.T) {
		t.Parallel()

		p := extract.NewParser(profile("site", 1), []jobcore.Strategy{
			strategy(jobcore.MethodTextPattern, jobcore.PatternResult{
				Title:    jobcore.NewField("Pattern Title", 0.65),
				Location: jobcore.NewField("Pattern Location", 0.9),
			}),
			strategy(jobcore.MethodSelector, jobcore.SelectorResult{
				Title:    jobcore.NewField("Selector Title", 0.6),
				Location: jobcore.NewField("Selector Location", 0.75),
			}),
		}, nil, th)

		rec, attempts := parse(t, p, "https://example.com/jobs/1")

		assert.Equal(t, "Selector Title", rec.Title.Value, "selectors run first and pattern is not 0.1 better")
		assert.Equal(t, "Pattern Location", rec.Location.Value, "pattern is more than 0.1 better")
		require.Len(t, attempts, 2)
		assert.Equal(t, jobcore.MethodSelector, attempts[0].Method)
		assert.Equal(t, "site", attempts[0].Parser)
	})

	t.Run("caps every field at the parser ceiling", func(t *testing.T) {
		t.Parallel()

		p := extract.NewParser(extract.GenericProfile(th), []jobcore.Strategy{
			strategy(jobcore.MethodSelector, jobcore.SelectorResult{
				Title:   jobcore.NewField("Data Engineer", 0.9),
				Company: jobcore.NewField("Globex", 0.9),
			}),
		}, nil, th)

		rec, _ := parse(t, p, "https://example.com/jobs/1")

		assert.InDelta(t, 0.3, rec.Title.Confidence, 1e-9)
		assert.InDelta(t, 0.3, rec.Company.Confidence, 1e-9)
		assert.InDelta(t, 0.3, rec.ParserConfidence, 1e-9)
		assert.LessOrEqual(t, rec.Confidence, 0.3)
	})

	t.Run("removes boilerplate and the company from the title", func(t *testing.T) {
		t.Parallel()

		prof := profile("site", 1)
		prof.TitleSuffixes = []string{" | Acme Careers"}
		p := extract.NewParser(prof, []jobcore.Strategy{
			strategy(jobcore.MethodSelector, jobcore.SelectorResult{
				Title:   jobcore.NewField("Apply for Acme — Staff Engineer | Acme Careers", 0.9),
				Company: jobcore.NewField("at  Acme", 0.9),
			}),
		}, nil, th)

		rec, _ := parse(t, p, "https://example.com/jobs/1")

		assert.Equal(t, "Staff Engineer", rec.Title.Value)
		assert.Equal(t, "Acme", rec.Company.Value)
	})

	t.Run("fills the company from the URL slug", func(t *testing.T) {
		t.Parallel()

		prof := profile("ats", 0.95)
		prof.CompanySlug = 1
		prof.CompanyAliases = map[string]string{"umbrellacorp": "Umbrella Corporation"}
		p := extract.NewParser(prof, nil, nil, th)

		rec, _ := parse(t, p, "https://ats.example.com/umbrellacorp/jobs/55")
		assert.Equal(t, "Umbrella Corporation", rec.Company.Value)

		rec, _ = parse(t, p, "https://ats.example.com/wayne-enterprises/jobs/55")
		assert.Equal(t, "Wayne Enterprises", rec.Company.Value)
		assert.Equal(t, jobcore.MethodDomain, rec.Method)
	})

	t.Run("replaces a company that is only the slug with its alias", func(t *testing.T) {
		t.Parallel()

		prof := profile("ats", 0.95)
		prof.CompanySlug = 1
		prof.CompanyAliases = map[string]string{"umbrellacorp": "Umbrella Corporation"}
		p := extract.NewParser(prof, []jobcore.Strategy{
			strategy(jobcore.MethodSelector, jobcore.SelectorResult{Company: jobcore.NewField("UmbrellaCorp", 0.8)}),
		}, nil, th)

		rec, _ := parse(t, p, "https://ats.example.com/umbrellacorp/jobs/55")

		assert.Equal(t, "Umbrella Corporation", rec.Company.Value)
	})

	t.Run("detects remote work from the location", func(t *testing.T) {
		t.Parallel()

		p := extract.NewParser(profile("site", 1), []jobcore.Strategy{
			strategy(jobcore.MethodSelector, jobcore.SelectorResult{Location: jobcore.NewField("Remote, EMEA", 0.8)}),
		}, nil, th)

		rec, _ := parse(t, p, "https://example.com/jobs/1")

		assert.True(t, rec.Remote.Set())
		assert.True(t, rec.Remote.Value)
	})

	t.Run("uses sentinels for a missing title and company", func(t *testing.T) {
		t.Parallel()

		p := extract.NewParser(profile("site", 1), nil, nil, th)

		rec, _ := parse(t, p, "https://example.com/about")

		assert.Equal(t, jobcore.UnknownTitle, rec.Title.Value)
		assert.Equal(t, jobcore.UnknownCompany, rec.Company.Value)
		assert.InDelta(t, th.SentinelConfidence, rec.Title.Confidence, 1e-9)
		assert.Equal(t, jobcore.MethodFallback, rec.Method)
	})

	t.Run("halves the confidence of fields failing validation", func(t *testing.T) {
		t.Parallel()

		p := extract.NewParser(profile("site", 1), []jobcore.Strategy{
			strategy(jobcore.MethodSelector, jobcore.SelectorResult{
				Title:    jobcore.NewField("QA", 0.8),
				Location: jobcore.NewField("12345", 0.8),
			}),
		}, nil, th)

		rec, _ := parse(t, p, "https://example.com/jobs/1")

		assert.InDelta(t, 0.4, rec.Title.Confidence, 1e-9)
		assert.InDelta(t, 0.4, rec.Location.Confidence, 1e-9)
		var failed []string
		for _, v := range rec.Validation {
			if !v.Passed {
				failed = append(failed, v.Rule)
			}
		}
		assert.ElementsMatch(t, []string{"title_length", "location_format"}, failed)
	})

	t.Run("keeps evidence only from the strategies owning a field", func(t *testing.T) {
		t.Parallel()

		p := extract.NewParser(profile("site", 1), []jobcore.Strategy{
			strategy(jobcore.MethodStructuredData, jobcore.StructuredDataResult{
				Source:   "json-ld",
				RawTitle: "Raw",
				Title:    jobcore.NewField("Platform Engineer", 0.95),
				Evidence: []jobcore.Evidence{{Field: "title", Method: jobcore.MethodStructuredData, Excerpt: "a"}},
			}),
			strategy(jobcore.MethodSelector, jobcore.SelectorResult{
				Title:    jobcore.NewField("Other", 0.8),
				Evidence: []jobcore.Evidence{{Field: "title", Method: jobcore.MethodSelector, Excerpt: "b"}},
			}),
		}, nil, th)

		rec, _ := parse(t, p, "https://example.com/jobs/1")

		require.Len(t, rec.Evidence, 1)
		assert.Equal(t, "a", rec.Evidence[0].Excerpt)
		assert.True(t, rec.Meta.StructuredDataFound)
		assert.Equal(t, "Raw", rec.Meta.RawTitle)
		assert.Equal(t, jobcore.MethodStructuredData, rec.Method)
		assert.NotEmpty(t, rec.ID)
	})
}

func TestParser_CanHandle(t *testing.T) {
	t.Parallel()

	th := jobcore.DefaultThresholds()
	parsers := make(map[string]*extract.Parser)
	for _, p := range extract.NewParsers(extract.Profiles(th), nil, nil, th) {
		parsers[p.Name()] = p
	}

	for _, tc := range []struct {
		parser string
		url    string
		want   bool
	}{
		{"greenhouse", "https://boards.greenhouse.io/acme/jobs/1", true},
		{"greenhouse", "https://job-boards.eu.greenhouse.io/acme/jobs/1", true},
		{"lever", "https://jobs.lever.co/acme/5ac21346-8e0c-4494-8e7a-3eb92ff77902", true},
		{"linkedin", "https://www.linkedin.com/jobs/view/3812345678", true},
		{"linkedin", "https://www.linkedin.com/in/someone", false},
		{"company-careers", "https://careers.acme.com/roles/9", true},
		{"company-careers-path", "https://acme.com/careers/9", true},
		{"company-careers-path", "https://acme.com/about", false},
		{extract.GenericName, "https://anything.example/at/all", true},
	} {
		u, err := url.Parse(tc.url)
		require.NoError(t, err)
		assert.Equal(t, tc.want, parsers[tc.parser].CanHandle(u), "%s %s", tc.parser, tc.url)
	}

	assert.Equal(t, extract.SpecificityATS, parsers["greenhouse"].Specificity())
	assert.InDelta(t, th.GenericCeiling, parsers[extract.GenericName].Confidence(), 1e-9)
}
