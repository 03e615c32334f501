package mock

import "github.com/fwojciec/jobcore"

var _ jobcore.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of jobcore.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*jobcore.ExtractResult, error)
}

func (e *ContentExtractor) Extract(html string) (*jobcore.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ jobcore.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of jobcore.TextExtractor.
type TextExtractor struct {
	ExtractTextFn func(html string) (string, string)
}

func (e *TextExtractor) ExtractText(html string) (string, string) {
	return e.ExtractTextFn(html)
}
