package jobcore

import "time"

// ExtractResult holds the main content extracted from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML with navigation,
	// footers and sidebars removed.
	ContentHTML string

	// SiteName is the publishing site when the page declares it.
	SiteName string

	// Date is the publication date when the page declares it.
	Date time.Time
}

// ContentExtractor extracts the main content of an HTML page.
type ContentExtractor interface {
	Extract(html string) (*ExtractResult, error)
}
