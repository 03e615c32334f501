package jobcore

import "context"

// Fetcher retrieves raw posting documents. It belongs to the ingestion
// layer; the extraction core never calls it.
type Fetcher interface {
	// Fetch returns the body of the document at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (string, error)

	// Close releases resources held by the fetcher.
	Close() error
}

// DomainLimiter provides per-domain rate limiting for fetchers.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
