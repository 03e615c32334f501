package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/jobcore"
)

// Ensure LoggingFetcher implements jobcore.Fetcher.
var _ jobcore.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher logs every posting download. Failures are logged at warn
// level with their error code so removed postings (not_found) can be told
// apart from transport trouble.
type LoggingFetcher struct {
	next   jobcore.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next jobcore.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, rawURL string) (document string, err error) {
	defer func(begin time.Time) {
		args := []any{
			"url", rawURL,
			"bytes", len(document),
			"host", jobcore.Hostname(rawURL),
			"duration", time.Since(begin),
		}
		if err != nil {
			f.logger.Warn("fetch", append(args, "code", jobcore.ErrorCode(err), "err", err)...)
			return
		}
		f.logger.Info("fetch", args...)
	}(time.Now())
	return f.next.Fetch(ctx, rawURL)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
