package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/jobcore"
	"github.com/fwojciec/jobcore/mock"
	jobslog "github.com/fwojciec/jobcore/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher(t *testing.T) {
	t.Parallel()

	const postingURL = "https://jobs.lever.co/acme/5f1c"

	t.Run("records the size of the fetched posting", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		f := jobslog.NewLoggingFetcher(&mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) { return "<h1>SRE</h1>", nil },
		}, slog.New(slog.NewTextHandler(&buf, nil)))

		body, err := f.Fetch(context.Background(), postingURL)

		require.NoError(t, err)
		assert.Equal(t, "<h1>SRE</h1>", body)
		assert.Contains(t, buf.String(), "msg=fetch url="+postingURL+" bytes=12")
	})

	t.Run("records the failure of a removed posting", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		f := jobslog.NewLoggingFetcher(&mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "", jobcore.Errorf(jobcore.ENOTFOUND, "HTTP 410")
			},
		}, slog.New(slog.NewTextHandler(&buf, nil)))

		_, err := f.Fetch(context.Background(), postingURL)

		assert.Equal(t, jobcore.ENOTFOUND, jobcore.ErrorCode(err))
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "bytes=0 host=jobs.lever.co")
		assert.Contains(t, buf.String(), "code=not_found")
		assert.Contains(t, buf.String(), "HTTP 410")
	})

	t.Run("closes the wrapped fetcher", func(t *testing.T) {
		t.Parallel()

		calls := 0
		f := jobslog.NewLoggingFetcher(&mock.Fetcher{
			CloseFn: func() error { calls++; return nil },
		}, slog.New(slog.DiscardHandler))

		require.NoError(t, f.Close())
		assert.Equal(t, 1, calls)
	})
}
