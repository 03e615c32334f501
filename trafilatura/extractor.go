// Package trafilatura extracts the main posting body and page metadata
// with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/jobcore"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ jobcore.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main content of a posting.
type Extractor struct {
	// Fallback enables the readability and dom-distiller fallbacks built
	// into go-trafilatura. Defaults to true.
	Fallback bool
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{Fallback: true}
}

// Extract processes raw HTML and returns the main content with the
// declared site name and publication date.
func (e *Extractor) Extract(rawHTML string) (*jobcore.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, jobcore.Errorf(jobcore.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: e.Fallback,
	})
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &jobcore.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
		SiteName:    result.Metadata.Sitename,
		Date:        result.Metadata.Date,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
