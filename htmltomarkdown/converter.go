// Package htmltomarkdown renders posting HTML as Markdown for the segmenter.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/jobcore"
)

var _ jobcore.Converter = (*Converter)(nil)

var (
	escapeRe     = regexp.MustCompile(`\\([\\*_#.\-+!\[\]()>|])`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

// Converter wraps html-to-markdown to convert HTML to Markdown.
// The output is meant to be read, not rendered: Markdown escapes are
// removed so that headers, list markers and "Label: value" lines stay
// recognizable.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", jobcore.Errorf(jobcore.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	result = escapeRe.ReplaceAllString(result, "$1")
	result = blankLinesRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result), nil
}
