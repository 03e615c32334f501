package http

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/jobcore"
	"golang.org/x/time/rate"
)

var _ jobcore.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter keeps one token bucket per host. Hosts are compared
// case-insensitively without a "www." prefix, so www.indeed.com and
// indeed.com share a budget.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rates    map[string]rate.Limit
	rps      rate.Limit
}

// NewDomainLimiter allows rps requests per second to each host, with no
// bursting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rates:    make(map[string]rate.Limit),
		rps:      rate.Limit(rps),
	}
}

// SetRate overrides the rate of one host. Boards that throttle
// aggressively, such as linkedin.com, get a lower rate than the default.
func (d *DomainLimiter) SetRate(domain string, rps float64) {
	key := hostKey(domain)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rates[key] = rate.Limit(rps)
	if l, ok := d.limiters[key]; ok {
		l.SetLimit(rate.Limit(rps))
	}
}

// Wait blocks until the host's bucket has a token or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.limiter(domain).Wait(ctx)
}

func (d *DomainLimiter) limiter(domain string) *rate.Limiter {
	key := hostKey(domain)
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.limiters[key]
	if !ok {
		r, ok := d.rates[key]
		if !ok {
			r = d.rps
		}
		l = rate.NewLimiter(r, 1)
		d.limiters[key] = l
	}
	return l
}

func hostKey(domain string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "www.")
}
