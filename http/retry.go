package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/jobcore"
)

var _ jobcore.Fetcher = (*RetryFetcher)(nil)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// RetryFetcher retries failed fetches with backoff. Invalid URLs and
// missing documents are not retried.
type RetryFetcher struct {
	next   jobcore.Fetcher
	delays []time.Duration
	logger *slog.Logger
}

// NewRetryFetcher wraps next. A nil delays uses DefaultRetryDelays.
func NewRetryFetcher(next jobcore.Fetcher, delays []time.Duration, logger *slog.Logger) *RetryFetcher {
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RetryFetcher{next: next, delays: delays, logger: logger}
}

// Fetch makes up to len(delays)+1 attempts.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= len(f.delays); attempt++ {
		body, err := f.next.Fetch(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		switch jobcore.ErrorCode(err) {
		case jobcore.EINVALID, jobcore.ENOTFOUND:
			return "", err
		}
		if attempt == len(f.delays) {
			break
		}

		f.logger.Warn("retry fetch", "url", url, "attempt", attempt+2, "err", err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.delays[attempt]):
		}
	}
	return "", lastErr
}

// Close closes the wrapped fetcher.
func (f *RetryFetcher) Close() error {
	return f.next.Close()
}
