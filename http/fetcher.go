// Package http fetches raw posting documents over plain HTTP for the
// ingestion layer. Nothing in the extraction core depends on it.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/jobcore"
)

const (
	// DefaultFetchTimeout is the default timeout for HTTP requests.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultMaxBytes caps the size of a fetched document.
	DefaultMaxBytes = 5 << 20

	// DefaultUserAgent identifies the fetcher to job boards.
	DefaultUserAgent = "jobcore/1.0 (+https://github.com/fwojciec/jobcore)"
)

// Ensure Fetcher implements jobcore.Fetcher at compile time.
var _ jobcore.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves posting documents using HTTP GET requests. It does not
// execute JavaScript.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	limiter   jobcore.DomainLimiter
	userAgent string
	maxBytes  int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithLimiter makes every request wait for its host's rate limit.
func WithLimiter(l jobcore.DomainLimiter) Option {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBytes overrides DefaultMaxBytes.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBytes = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		maxBytes:  DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the document at rawURL. Returns EINVALID for URLs that
// are not absolute http(s) and ENOTFOUND for 404 and 410 responses.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", jobcore.Errorf(jobcore.EINVALID, "invalid fetch url %q", rawURL)
	}
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, u.Hostname()); err != nil {
			return "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return "", jobcore.Errorf(jobcore.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, rawURL)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
