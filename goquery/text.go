package goquery

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/jobcore"
	"golang.org/x/net/html"
)

var _ jobcore.TextExtractor = (*TextExtractor)(nil)

// TextExtractor renders the visible text of an HTML page line by line.
// Block elements start new lines, list items are prefixed with "- " and
// scripts, styles and navigation chrome are skipped.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// ExtractText returns the page title and text. Unparseable input yields
// empty strings.
func (e *TextExtractor) ExtractText(raw string) (string, string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", ""
	}
	title := jobcore.NormalizeSpace(doc.Find("title").First().Text())

	var b strings.Builder
	for _, n := range doc.Find("body").Nodes {
		renderText(&b, n)
	}
	if b.Len() == 0 {
		for _, n := range doc.Nodes {
			renderText(&b, n)
		}
	}
	return title, tidyLines(b.String())
}

var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"svg": true, "nav": true, "head": true, "iframe": true,
}

var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true,
	"header": true, "footer": true, "aside": true, "ul": true, "ol": true,
	"table": true, "tr": true, "br": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "dt": true, "dd": true, "dl": true,
	"blockquote": true, "pre": true, "form": true, "li": true, "hr": true,
}

func renderText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if skippedElements[n.Data] {
			return
		}
		if _, ok := attr(n, "hidden"); ok {
			return
		}
		if v, _ := attr(n, "aria-hidden"); v == "true" {
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteByte('\n')
	}
	if n.Type == html.ElementNode && n.Data == "li" {
		b.WriteString("- ")
	}
	if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderText(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// tidyLines normalizes the spacing inside each line and drops empty lines
// and empty list items.
func tidyLines(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = jobcore.NormalizeSpace(line)
		if line == "" || line == "-" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// htmlText returns the text of an HTML fragment, or s itself when it holds
// no markup.
func htmlText(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	nodes, err := html.ParseFragment(strings.NewReader(s), &html.Node{Type: html.ElementNode, Data: "div"})
	if err != nil {
		return s
	}
	var b strings.Builder
	for _, n := range nodes {
		renderText(&b, n)
	}
	return tidyLines(b.String())
}

func evidence(field string, method jobcore.ExtractionMethod, excerpt string) jobcore.Evidence {
	const maxExcerpt = 200
	if r := []rune(excerpt); len(r) > maxExcerpt {
		excerpt = string(r[:maxExcerpt])
	}
	return jobcore.Evidence{Field: field, Method: method, Excerpt: excerpt}
}

func strconvFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
