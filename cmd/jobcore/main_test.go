package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/jobcore"
	main "github.com/fwojciec/jobcore/cmd/jobcore"
	"github.com/fwojciec/jobcore/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greenhousePosting = `<html><head><title>Platform Engineer</title>
<script type="application/ld+json">
{"@context": "https://schema.org", "@type": "JobPosting", "title": "Platform Engineer",
 "hiringOrganization": {"@type": "Organization", "name": "Initech Inc."},
 "jobLocation": {"@type": "Place", "address": {"addressLocality": "Austin", "addressRegion": "TX"}},
 "datePosted": "2025-01-15",
 "description": "<h2>Responsibilities</h2><ul><li>Operate our Kubernetes clusters</li><li>Automate deployments end to end</li></ul><h2>Requirements</h2><ul><li>Five years of Linux administration</li><li>Experience with Terraform modules</li></ul>"}
</script></head><body><h1>Platform Engineer</h1></body></html>`

const greenhouseURL = "https://boards.greenhouse.io/initech/jobs/7712345"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newMain(t *testing.T) *main.Main {
	t.Helper()
	return &main.Main{DBPath: ":memory:"}
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints usage and fails without a command", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		err := newMain(t).Run(context.Background(), nil, stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout.String(), "Usage: jobcore")
	})

	t.Run("prints usage for help", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		err := newMain(t).Run(context.Background(), []string{"help"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "parse")
		assert.Contains(t, stdout.String(), "cluster")
	})

	t.Run("parses a posting from a file", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "posting.html", greenhousePosting)
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := newMain(t).Run(context.Background(), []string{"parse", greenhouseURL, "--file", path}, stdout, stderr)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "greenhouse")
		assert.Contains(t, output, "Platform Engineer")
		assert.Contains(t, output, "Initech Inc. => Initech")
		assert.Contains(t, output, "Austin, TX")
		assert.Contains(t, output, "responsibilities")
		assert.Contains(t, output, "create_new")
	})

	t.Run("fetches the posting when no file is given", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) { return greenhousePosting, nil },
		}
		m := newMain(t)
		m.Fetcher = fetcher
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"parse", greenhouseURL}, stdout, stderr)

		require.NoError(t, err)
		assert.Equal(t, []string{greenhouseURL}, fetcher.Fetched())
		assert.Contains(t, stdout.String(), "Platform Engineer")
	})

	t.Run("reports a removed posting", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		m.Fetcher = &mock.Fetcher{}
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"parse", greenhouseURL}, stdout, stderr)

		assert.Equal(t, jobcore.ENOTFOUND, jobcore.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error: no posting at "+greenhouseURL)
	})

	t.Run("fails with a hint for an invalid config", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		m.ConfigPath = writeFile(t, "jobcore.yaml", "thresholds:\n  titleMin: 2\n")
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"normalize", "Acme"}, stdout, stderr)

		assert.Equal(t, jobcore.EINVALID, jobcore.ErrorCode(err))
		assert.Contains(t, stderr.String(), "JOBCORE_CONFIG")
	})

	t.Run("applies configured company variations", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		m.ConfigPath = writeFile(t, "jobcore.yaml", "variations:\n  - canonical: Meta Platforms\n    variations: [Facebook]\n    confidence: 0.9\n")
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"normalize", "Facebook"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Facebook\tMeta Platforms\t0.90 learned")
	})

	t.Run("persists learned variations across runs", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "jobcore.db")
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := (&main.Main{DBPath: dbPath}).Run(context.Background(), []string{"learn", "FACEBOOK", "Meta Platforms"}, stdout, stderr)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Learned Meta Platforms")

		stdout.Reset()
		err = (&main.Main{DBPath: dbPath}).Run(context.Background(), []string{"normalize", "FACEBOOK"}, stdout, stderr)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "FACEBOOK\tMeta Platforms")
	})

	t.Run("records parse attempts for stats", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "jobcore.db")
		path := writeFile(t, "posting.html", greenhousePosting)
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := (&main.Main{DBPath: dbPath}).Run(context.Background(), []string{"parse", greenhouseURL, "-f", path}, stdout, stderr)
		require.NoError(t, err)

		stdout.Reset()
		err = (&main.Main{DBPath: dbPath}).Run(context.Background(), []string{"stats"}, stdout, stderr)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "greenhouse")
		assert.Contains(t, stdout.String(), "success=100%")
	})

	t.Run("logs at debug level with verbose", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		err := newMain(t).Run(context.Background(), []string{"--verbose", "normalize", "Acme Inc"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "level=DEBUG")
		assert.Contains(t, stderr.String(), "normalize company")
	})
}
