package jobcore_test

import (
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/jobcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInput_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts absolute http URL with document", func(t *testing.T) {
		t.Parallel()

		in := jobcore.Input{URL: "https://acme.com/jobs/1", Document: "Backend Engineer"}

		assert.NoError(t, in.Validate())
	})

	tests := []struct {
		name string
		in   jobcore.Input
	}{
		{"missing URL", jobcore.Input{Document: "text"}},
		{"relative URL", jobcore.Input{URL: "/jobs/1", Document: "text"}},
		{"non-http scheme", jobcore.Input{URL: "ftp://acme.com/jobs", Document: "text"}},
		{"malformed URL", jobcore.Input{URL: "http://[::1", Document: "text"}},
		{"blank document", jobcore.Input{URL: "https://acme.com", Document: " \n\t "}},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.in.Validate()

			require.Error(t, err)
			assert.Equal(t, jobcore.EINVALID, jobcore.ErrorCode(err))
		})
	}
}

func TestNewPage(t *testing.T) {
	t.Parallel()

	t.Run("detects HTML and strips www from host", func(t *testing.T) {
		t.Parallel()

		p := jobcore.NewPage(mustURL(t, "https://www.Acme.com/jobs/1"), "<html><body><h1>Hi</h1></body></html>")

		assert.True(t, p.IsHTML)
		assert.Equal(t, "acme.com", p.Host)
		assert.Empty(t, p.Text)
	})

	t.Run("uses plain text documents as page text", func(t *testing.T) {
		t.Parallel()

		p := jobcore.NewPage(mustURL(t, "https://acme.com/jobs/1"), "Senior Engineer\nRemote")

		assert.False(t, p.IsHTML)
		assert.Equal(t, "Senior Engineer\nRemote", p.Text)
	})
}

func TestSiteProfile_Matches(t *testing.T) {
	t.Parallel()

	profile := &jobcore.SiteProfile{
		HostSuffixes: []string{"greenhouse.io"},
		PathContains: []string{"/jobs/"},
	}

	assert.True(t, profile.Matches(mustURL(t, "https://boards.greenhouse.io/acme/jobs/123")))
	assert.True(t, profile.Matches(mustURL(t, "https://greenhouse.io/acme/jobs/123")))
	assert.False(t, profile.Matches(mustURL(t, "https://boards.greenhouse.io/acme")))
	assert.False(t, profile.Matches(mustURL(t, "https://notgreenhouse.io/acme/jobs/123")))
	assert.False(t, profile.Matches(nil))

	generic := &jobcore.SiteProfile{AcceptAll: true}
	assert.True(t, generic.Matches(mustURL(t, "https://anything.example")))

	careers := &jobcore.SiteProfile{HostPrefixes: []string{"careers."}}
	assert.True(t, careers.Matches(mustURL(t, "https://careers.acme.com/x")))

	byPath := &jobcore.SiteProfile{PathContains: []string{"/careers/"}}
	assert.True(t, byPath.Matches(mustURL(t, "https://acme.com/careers/42")))
	assert.False(t, byPath.Matches(mustURL(t, "https://acme.com/about")))
	assert.False(t, (&jobcore.SiteProfile{}).Matches(mustURL(t, "https://acme.com/careers/42")))
}

func TestSiteProfile_Slug(t *testing.T) {
	t.Parallel()

	byPath := &jobcore.SiteProfile{CompanySlug: 1}
	bySubdomain := &jobcore.SiteProfile{SubdomainSlug: true}

	assert.Equal(t, "acme", byPath.Slug(mustURL(t, "https://boards.greenhouse.io/Acme/jobs/1")))
	assert.Equal(t, "", byPath.Slug(mustURL(t, "https://boards.greenhouse.io")))
	assert.Equal(t, "acme", bySubdomain.Slug(mustURL(t, "https://acme.wd5.myworkdayjobs.com/x")))
}

func TestValidatePartial(t *testing.T) {
	t.Parallel()

	th := jobcore.DefaultThresholds()

	t.Run("skips unset fields", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, jobcore.ValidatePartial(jobcore.Partial{}, th))
	})

	t.Run("flags sentinel title and short description", func(t *testing.T) {
		t.Parallel()

		p := jobcore.Partial{
			Title:       jobcore.NewField(jobcore.UnknownTitle, 0.05),
			Description: jobcore.NewField(strings.Repeat("x", 70), 0.5),
		}

		results := jobcore.ValidatePartial(p, th)

		failed := map[string]jobcore.ValidationResult{}
		for _, r := range results {
			if !r.Passed {
				failed[r.Rule] = r
			}
		}
		require.Contains(t, failed, "title_not_sentinel")
		require.Contains(t, failed, "description_length")
		assert.InDelta(t, 0.5, failed["description_length"].Score, 0.001)
	})

	t.Run("flags inverted salary range and future dates", func(t *testing.T) {
		t.Parallel()

		p := jobcore.Partial{
			Salary:   jobcore.NewField(jobcore.Salary{Min: 200, Max: 100}, 0.5),
			PostedAt: jobcore.NewField(time.Now().AddDate(1, 0, 0), 0.5),
		}

		for _, r := range jobcore.ValidatePartial(p, th) {
			assert.False(t, r.Passed, r.Rule)
		}
	})
}
