// Package readability extracts the main posting body with go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/jobcore"
	"github.com/go-shiori/go-readability"
)

var _ jobcore.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main content of a posting.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*jobcore.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, jobcore.Errorf(jobcore.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	res := &jobcore.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
		SiteName:    article.SiteName,
	}
	if article.PublishedTime != nil {
		res.Date = *article.PublishedTime
	}
	return res, nil
}
