package mock

import (
	"context"
	"sync"

	"github.com/fwojciec/jobcore"
)

var _ jobcore.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of jobcore.Fetcher. It records every
// requested URL; with no FetchFn every posting is reported as removed.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error

	mu   sync.Mutex
	urls []string
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	f.urls = append(f.urls, url)
	f.mu.Unlock()
	if f.FetchFn == nil {
		return "", jobcore.Errorf(jobcore.ENOTFOUND, "no posting at %s", url)
	}
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

// Fetched returns the URLs passed to Fetch in call order.
func (f *Fetcher) Fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.urls...)
}

var _ jobcore.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of jobcore.DomainLimiter. A nil
// WaitFn never blocks.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if l.WaitFn == nil {
		return ctx.Err()
	}
	return l.WaitFn(ctx, domain)
}
