package goquery_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/fwojciec/jobcore"
	"github.com/fwojciec/jobcore/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(t *testing.T, rawURL, document string) *jobcore.Page {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return jobcore.NewPage(u, document)
}

const jsonLDPosting = `<!DOCTYPE html>
<html>
<head>
<title>Senior Backend Engineer - Acme Robotics</title>
<meta property="og:title" content="Backend role">
<meta name="description" content="Join Acme">
<script type="application/ld+json">
{
  "@context": "https://schema.org/",
  "@type": "JobPosting",
  "title": "Senior Backend Engineer",
  "description": "<p>Build the services behind our robots.</p><ul><li>Go</li><li>Kubernetes</li></ul>",
  "datePosted": "2024-03-01",
  "hiringOrganization": {"@type": "Organization", "name": "Acme Robotics"},
  "jobLocation": {"@type": "Place", "address": {"@type": "PostalAddress", "addressLocality": "Berlin", "addressRegion": "BE", "addressCountry": "DE"}},
  "jobLocationType": "TELECOMMUTE",
  "baseSalary": {"@type": "MonetaryAmount", "currency": "EUR", "value": {"@type": "QuantitativeValue", "minValue": 80000, "maxValue": 95000, "unitText": "YEAR"}}
}
</script>
</head>
<body><h1>Senior Backend Engineer</h1></body>
</html>`

func TestStructuredDataStrategy_Extract(t *testing.T) {
	t.Parallel()

	t.Run("reads a JSON-LD JobPosting", func(t *testing.T) {
		t.Parallel()

		s := goquery.NewStructuredDataStrategy(jobcore.DefaultThresholds())
		res, ok := s.Extract(page(t, "https://acme.com/careers/1", jsonLDPosting), nil).(jobcore.StructuredDataResult)

		require.True(t, ok)
		assert.Equal(t, "json-ld", res.Source)
		assert.Equal(t, "Senior Backend Engineer", res.Title.Value)
		assert.InDelta(t, 0.95, res.Title.Confidence, 1e-9)
		assert.Equal(t, "Acme Robotics", res.Company.Value)
		assert.Equal(t, "Berlin, BE, DE", res.Location.Value)
		assert.Contains(t, res.Description.Value, "Build the services behind our robots.")
		assert.Contains(t, res.Description.Value, "- Go")
		assert.True(t, res.PostedAt.Value.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
		assert.True(t, res.Remote.Value)
		assert.InDelta(t, 80000, res.Salary.Value.Min, 1e-9)
		assert.InDelta(t, 95000, res.Salary.Value.Max, 1e-9)
		assert.Equal(t, "EUR", res.Salary.Value.Currency)
		assert.Equal(t, "year", res.Salary.Value.Interval)
		assert.Equal(t, 2, res.MetaTagsCount)
		assert.Equal(t, "Senior Backend Engineer - Acme Robotics", res.RawTitle)
		assert.NotEmpty(t, res.Evidence)
	})

	t.Run("finds a JobPosting inside an @graph", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><script type="application/ld+json">
{"@context": "https://schema.org", "@graph": [
  {"@type": "WebPage", "name": "Careers"},
  {"@type": ["Thing", "JobPosting"], "title": "Data Analyst", "hiringOrganization": "Globex", "jobLocation": [{"address": "Austin, TX"}, {"name": "Remote US"}]}
]}
</script></head><body></body></html>`

		s := goquery.NewStructuredDataStrategy(jobcore.DefaultThresholds())
		res := s.Extract(page(t, "https://globex.com/jobs/9", html), nil).Partial()

		assert.Equal(t, "Data Analyst", res.Title.Value)
		assert.Equal(t, "Globex", res.Company.Value)
		assert.Equal(t, "Austin, TX; Remote US", res.Location.Value)
	})

	t.Run("skips malformed blocks and falls back to meta tags", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<script type="application/ld+json">{not json</script>
<meta property="og:title" content="Warehouse Associate">
<meta property="og:site_name" content="Initech">
<meta name="description" content="Pick and pack orders in our Dallas warehouse.">
</head><body></body></html>`

		s := goquery.NewStructuredDataStrategy(jobcore.DefaultThresholds())
		res, ok := s.Extract(page(t, "https://initech.com/jobs/1", html), nil).(jobcore.StructuredDataResult)

		require.True(t, ok)
		assert.Equal(t, "meta", res.Source)
		assert.Equal(t, "Warehouse Associate", res.Title.Value)
		assert.InDelta(t, 0.6, res.Title.Confidence, 1e-9)
		assert.Equal(t, "Initech", res.Company.Value)
		assert.Less(t, res.Company.Confidence, res.Title.Confidence)
		assert.Equal(t, "Pick and pack orders in our Dallas warehouse.", res.Description.Value)
		assert.False(t, res.Location.Set())
	})

	t.Run("returns an empty result for plain text", func(t *testing.T) {
		t.Parallel()

		s := goquery.NewStructuredDataStrategy(jobcore.DefaultThresholds())
		res := s.Extract(page(t, "https://example.com/x", "Senior Engineer at Acme"), nil)

		assert.Equal(t, jobcore.MethodStructuredData, res.Method())
		assert.True(t, res.Partial().Empty())
	})
}

func TestStructuredDataStrategy_Validate(t *testing.T) {
	t.Parallel()

	s := goquery.NewStructuredDataStrategy(jobcore.DefaultThresholds())
	results := s.Validate(jobcore.Partial{
		Title:   jobcore.NewField("QA", 0.9),
		Company: jobcore.NewField("Acme", 0.9),
	})

	byRule := map[string]bool{}
	for _, r := range results {
		byRule[r.Rule] = r.Passed
	}
	assert.False(t, byRule["title_length"])
	assert.True(t, byRule["company_length"])
}
