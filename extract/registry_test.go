package extract_test

import (
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/jobcore"
	"github.com/fwojciec/jobcore/extract"
	"github.com/fwojciec/jobcore/goquery"
	"github.com/fwojciec/jobcore/inmem"
	"github.com/fwojciec/jobcore/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// newRegistry wires the shipped profiles over the real strategies.
func newRegistry(t *testing.T) *extract.Registry {
	t.Helper()
	th := jobcore.DefaultThresholds()
	text := goquery.NewTextExtractor()

	selector := goquery.NewSelectorStrategy(th)
	selector.Now = func() time.Time { return now }
	pattern := extract.NewTextPatternStrategy(th)
	pattern.Now = func() time.Time { return now }

	strategies := []jobcore.Strategy{
		goquery.NewStructuredDataStrategy(th),
		selector,
		pattern,
		extract.NewDomainStrategy(th, nil),
		goquery.NewLearnedStrategy(inmem.NewPatternStore(), th),
	}
	r := extract.NewRegistry(th, text, goquery.NewDetector())
	for _, p := range extract.NewParsers(extract.Profiles(th), strategies, text, th) {
		r.Register(p)
	}
	return r
}

var longDescription = strings.Repeat("You will design, build and operate the data platform that powers our analytics. ", 3)

const greenhouseJSONLD = `<!DOCTYPE html>
<html>
<head>
<title>Job Application for Senior Backend Engineer at Acme Robotics</title>
<script type="application/ld+json">
{"@type": "JobPosting", "title": "Senior Backend Engineer", "datePosted": "2025-02-20",
 "hiringOrganization": {"name": "Acme Robotics"},
 "jobLocation": {"address": {"addressLocality": "Berlin", "addressCountry": "Germany"}},
 "description": "<p>DESCRIPTION</p>"}
</script>
</head>
<body><div id="app_body"><h1 class="app-title">Senior Backend Engineer</h1></div></body>
</html>`

func TestRegistry_SelectAndParse(t *testing.T) {
	t.Parallel()

	t.Run("returns the generic sentinel record for unknown URLs", func(t *testing.T) {
		t.Parallel()

		rec, err := newRegistry(t).SelectAndParse(
			"https://blog.example.org/posts/hello",
			"<html><body><p>Just a blog post about gardening.</p></body></html>",
		)

		require.NoError(t, err)
		assert.Equal(t, extract.GenericName, rec.Parser)
		assert.InDelta(t, 0.3, rec.ParserConfidence, 1e-9)
		assert.Equal(t, jobcore.UnknownTitle, rec.Title.Value)
		assert.Equal(t, jobcore.UnknownCompany, rec.Company.Value)
		assert.LessOrEqual(t, rec.Title.Confidence, 0.05)
		assert.LessOrEqual(t, rec.Company.Confidence, 0.05)
		assert.LessOrEqual(t, rec.Confidence, 0.3)
		assert.Equal(t, 1, rec.Meta.Candidates)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		t.Parallel()

		r := newRegistry(t)
		for _, in := range []jobcore.Input{
			{URL: "", Document: "x"},
			{URL: "/jobs/1", Document: "x"},
			{URL: "ftp://example.com/jobs/1", Document: "x"},
			{URL: "https://example.com/jobs/1", Document: "  \n"},
		} {
			_, err := r.SelectAndParse(in.URL, in.Document)

			assert.Equal(t, jobcore.EINVALID, jobcore.ErrorCode(err), "%+v", in)
		}
	})

	t.Run("answers from the site parser when its record is confident", func(t *testing.T) {
		t.Parallel()

		html := strings.Replace(greenhouseJSONLD, "DESCRIPTION", longDescription, 1)

		var logs []jobcore.AttemptLog
		r := newRegistry(t)
		r.Tracker = &mock.AttemptTracker{LogAttemptFn: func(a jobcore.AttemptLog) { logs = append(logs, a) }}

		rec, err := r.SelectAndParse("https://boards.greenhouse.io/acmerobotics/jobs/4412345?gh_src=abc", html)

		require.NoError(t, err)
		assert.Equal(t, "greenhouse", rec.Parser)
		assert.Equal(t, jobcore.PlatformGreenhouse, rec.Platform)
		assert.Equal(t, "4412345", rec.PlatformJobID)
		assert.Equal(t, "Senior Backend Engineer", rec.Title.Value)
		assert.Equal(t, "Acme Robotics", rec.Company.Value)
		assert.Equal(t, "Berlin, Germany", rec.Location.Value)
		assert.Equal(t, jobcore.MethodStructuredData, rec.Method)
		assert.True(t, rec.Meta.StructuredDataFound)
		assert.Equal(t, 1, rec.Meta.Candidates)
		assert.False(t, r.LowConfidence(rec))
		assert.Greater(t, rec.Confidence, 0.7)
		require.Len(t, logs, 1)
		assert.Equal(t, "greenhouse", logs[0].Parser)
		assert.True(t, logs[0].Success)
	})

	t.Run("reads a job board layout through its selectors", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Globex hiring Senior Data Engineer in Austin, TX | LinkedIn</title></head><body>
<section class="top-card-layout">
  <h1 class="top-card-layout__title">Senior Data Engineer</h1>
  <a class="topcard__org-name-link">Globex</a>
  <span class="topcard__flavor--bullet">Austin, TX</span>
  <span class="posted-time-ago__text">2 weeks ago</span>
</section>
<div class="show-more-less-html__markup"><p>` + longDescription + `</p></div>
</body></html>`

		rec, err := newRegistry(t).SelectAndParse("https://www.linkedin.com/jobs/view/3812345678/?trk=abc", html)

		require.NoError(t, err)
		assert.Equal(t, "linkedin", rec.Parser)
		assert.Equal(t, "Senior Data Engineer", rec.Title.Value)
		assert.InDelta(t, 0.85, rec.Title.Confidence, 1e-9, "capped at the parser ceiling")
		assert.Equal(t, "Globex", rec.Company.Value)
		assert.Equal(t, "Austin, TX", rec.Location.Value)
		assert.True(t, rec.PostedAt.Value.Equal(now.AddDate(0, 0, -14)))
		assert.Equal(t, "3812345678", rec.PlatformJobID)
		assert.Equal(t, jobcore.MethodSelector, rec.Method)
	})

	t.Run("adds a parser recognized from the page layout", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div id="app_body">
  <h1 class="app-title">Firmware Engineer</h1>
  <div class="company-name">at Initech</div>
  <div class="location">Reno, NV</div>
  <div id="content"><p>` + longDescription + `</p></div>
</div>
</body></html>`

		rec, err := newRegistry(t).SelectAndParse("https://initech.com/about/open-role?id=4", html)

		require.NoError(t, err)
		assert.Equal(t, "greenhouse", rec.Parser)
		assert.Equal(t, "Firmware Engineer", rec.Title.Value)
		assert.Equal(t, "Initech", rec.Company.Value)
		assert.Equal(t, "Reno, NV", rec.Location.Value)
	})
}

// record builds a parser result with the given field confidences.
func record(parser string, title, company, location float64, description string) jobcore.JobRecord {
	return jobcore.JobRecord{
		Parser:           parser,
		ParserConfidence: 0.9,
		Title:            jobcore.NewField(parser+" title", title),
		Company:          jobcore.NewField(parser+" company", company),
		Location:         jobcore.NewField(parser+" location", location),
		Description:      jobcore.NewField(description, 0.8),
		Method:           jobcore.MethodSelector,
	}
}

func parser(name string, specificity int, handles bool, rec jobcore.JobRecord, calls *[]string, mu *sync.Mutex) *mock.SiteParser {
	return &mock.SiteParser{
		NameFn:        func() string { return name },
		CanHandleFn:   func(*url.URL) bool { return handles },
		ConfidenceFn:  func() float64 { return rec.ParserConfidence },
		SpecificityFn: func() int { return specificity },
		ParseFn: func(*jobcore.Page) (jobcore.JobRecord, []jobcore.ExtractionAttempt) {
			mu.Lock()
			defer mu.Unlock()
			*calls = append(*calls, name)
			return rec, nil
		},
	}
}

func TestRegistry_FallbackChain(t *testing.T) {
	t.Parallel()

	th := jobcore.DefaultThresholds()

	t.Run("merges lower candidates into fields below threshold", func(t *testing.T) {
		t.Parallel()

		var (
			calls []string
			mu    sync.Mutex
			logs  []jobcore.AttemptLog
		)
		site := record("site", 0.9, 0.5, 0.6, "short")
		site.Salary = jobcore.NewField(jobcore.Salary{Text: "$1"}, 0.4)
		family := record("family", 0.95, 0.85, 0.5, longDescription)
		family.Salary = jobcore.NewField(jobcore.Salary{Text: "$2"}, 0.4)
		generic := record(extract.GenericName, 0.3, 0.3, 0.3, "")

		r := extract.NewRegistry(th, nil, nil)
		r.Tracker = &mock.AttemptTracker{LogAttemptFn: func(a jobcore.AttemptLog) { logs = append(logs, a) }}
		r.Register(parser(extract.GenericName, 0, true, generic, &calls, &mu))
		r.Register(parser("family", 50, true, family, &calls, &mu))
		r.Register(parser("site", 100, true, site, &calls, &mu))
		r.Register(parser("other", 100, false, site, &calls, &mu))

		rec, err := r.SelectAndParse("https://jobs.example.com/1", "Senior Engineer")

		require.NoError(t, err)
		assert.Equal(t, []string{"site", "family", extract.GenericName}, calls)
		assert.Equal(t, "site title", rec.Title.Value, "fields at threshold are kept")
		assert.Equal(t, "family company", rec.Company.Value, "strictly higher confidence replaces")
		assert.Equal(t, "site location", rec.Location.Value, "lower confidence never replaces")
		assert.Equal(t, longDescription, rec.Description.Value, "short descriptions are replaced")
		assert.Equal(t, "$1", rec.Salary.Value.Text, "equal confidence keeps the earlier value")
		assert.Equal(t, "site", rec.Parser)
		assert.Equal(t, 3, rec.Meta.Candidates)
		require.Len(t, logs, 3)
		assert.False(t, logs[2].Success)
	})

	t.Run("stops once the merged record is confident", func(t *testing.T) {
		t.Parallel()

		var (
			calls []string
			mu    sync.Mutex
		)
		r := extract.NewRegistry(th, nil, nil)
		r.Register(parser("site", 100, true, record("site", 0.9, 0.9, 0.9, longDescription), &calls, &mu))
		r.Register(parser(extract.GenericName, 0, true, record(extract.GenericName, 0.3, 0.3, 0.3, ""), &calls, &mu))

		_, err := r.SelectAndParse("https://jobs.example.com/1", "Senior Engineer")

		require.NoError(t, err)
		assert.Equal(t, []string{"site"}, calls)
	})

	t.Run("inserts the detected parser ahead of the generic parser", func(t *testing.T) {
		t.Parallel()

		var (
			calls []string
			mu    sync.Mutex
		)
		detector := &mock.LayoutDetector{DetectFn: func(string) string { return "ats" }}
		r := extract.NewRegistry(th, &mock.TextExtractor{ExtractTextFn: func(string) (string, string) { return "", "" }}, detector)
		r.Register(parser(extract.GenericName, 0, true, record(extract.GenericName, 0.3, 0.3, 0.3, ""), &calls, &mu))
		r.Register(parser("careers", 50, true, record("careers", 0.5, 0.5, 0.5, ""), &calls, &mu))
		r.Register(parser("ats", 100, false, record("ats", 0.5, 0.5, 0.5, ""), &calls, &mu))

		_, err := r.SelectAndParse("https://careers.example.com/1", "<html><body><div id=\"grnhse_app\"></div></body></html>")

		require.NoError(t, err)
		assert.Equal(t, []string{"careers", "ats", extract.GenericName}, calls)
	})

	t.Run("returns a sentinel record without any parser", func(t *testing.T) {
		t.Parallel()

		rec, err := extract.NewRegistry(th, nil, nil).SelectAndParse("https://example.com/1", "text")

		require.NoError(t, err)
		assert.Equal(t, jobcore.UnknownTitle, rec.Title.Value)
		assert.Equal(t, extract.GenericName, rec.Parser)
		assert.InDelta(t, th.GenericCeiling, rec.ParserConfidence, 1e-9)
	})
}

func TestRegistry_Fallback(t *testing.T) {
	t.Parallel()

	var (
		calls []string
		mu    sync.Mutex
	)
	th := jobcore.DefaultThresholds()
	r := extract.NewRegistry(th, nil, nil)
	r.Register(parser("site", 100, true, record("site", 0.9, 0.9, 0.9, longDescription), &calls, &mu))
	r.Register(parser(extract.GenericName, 0, true, record(extract.GenericName, 0.3, 0.3, 0.3, ""), &calls, &mu))

	rec, err := r.Fallback("https://jobs.example.com/1", "Senior Engineer")

	require.NoError(t, err)
	assert.Equal(t, []string{extract.GenericName}, calls)
	assert.Equal(t, extract.GenericName, rec.Parser)

	_, err = r.Fallback("", "Senior Engineer")
	assert.Equal(t, jobcore.EINVALID, jobcore.ErrorCode(err))
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	var (
		calls []string
		mu    sync.Mutex
	)
	r := extract.NewRegistry(jobcore.DefaultThresholds(), nil, nil)
	r.Register(parser("a", 10, true, jobcore.JobRecord{}, &calls, &mu))
	r.Register(parser("b", 90, true, jobcore.JobRecord{}, &calls, &mu))
	r.Register(parser("c", 10, true, jobcore.JobRecord{}, &calls, &mu))
	r.Register(parser("a", 50, true, jobcore.JobRecord{}, &calls, &mu))

	var names []string
	for _, p := range r.Parsers() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"b", "a", "c"}, names)
}
