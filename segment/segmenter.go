// Package segment turns the text of a job posting into typed sections with
// normalized bullet points, document metadata and a structure quality score.
package segment

import (
	"sort"
	"strings"

	"github.com/fwojciec/jobcore"
)

// ImplicitSectionTitle names the section holding text before the first header.
const ImplicitSectionTitle = "Job Overview"

var _ jobcore.Segmenter = (*Segmenter)(nil)

// Segmenter implements jobcore.Segmenter.
type Segmenter struct {
	thresholds jobcore.Thresholds
}

// NewSegmenter returns a Segmenter using the segmentation thresholds.
func NewSegmenter(thresholds jobcore.Thresholds) *Segmenter {
	return &Segmenter{thresholds: thresholds}
}

type block struct {
	title    string
	implicit bool
	lines    []string
}

// Segment splits rawText into sections. It never fails: text without any
// header yields a single unknown section.
func (s *Segmenter) Segment(rawText string) jobcore.HierarchicalDocument {
	lines, ratio := denoise(rawText)

	blocks, headers := s.split(lines)
	var sections []jobcore.Section
	for _, b := range blocks {
		sec, ok := s.section(b, headers > 0)
		if ok {
			sections = append(sections, sec)
		}
	}
	if len(sections) == 0 {
		sections = []jobcore.Section{{
			Type:       jobcore.SectionUnknown,
			Content:    strings.TrimSpace(strings.Join(lines, "\n")),
			Confidence: 0.2,
		}}
	}

	var metaText []string
	for _, sec := range sections {
		if sec.Type == jobcore.SectionMetadata {
			metaText = append(metaText, sec.Content)
		}
	}
	doc := jobcore.HierarchicalDocument{
		Metadata: extractMetadata(strings.Join(metaText, "\n"), strings.Join(lines, "\n")),
		Quality:  s.quality(sections, ratio),
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Type.Rank() < sections[j].Type.Rank()
	})
	doc.Sections = sections
	return doc
}

// split groups lines under their headers. Lines before the first header
// form an implicit block. It returns the blocks and the header count.
func (s *Segmenter) split(lines []string) ([]block, int) {
	cur := block{title: ImplicitSectionTitle, implicit: true}
	var blocks []block
	headers := 0
	for _, line := range lines {
		if title, ok := headerTitle(line, s.thresholds.HeaderScore); ok {
			blocks = append(blocks, cur)
			cur = block{title: title}
			headers++
			continue
		}
		cur.lines = append(cur.lines, line)
	}
	return append(blocks, cur), headers
}

// section builds a typed section from a block. Blocks without any content
// are skipped.
func (s *Segmenter) section(b block, structured bool) (jobcore.Section, bool) {
	raw := strings.TrimSpace(strings.Join(trimmed(b.lines), "\n"))
	if raw == "" {
		return jobcore.Section{}, false
	}

	sec := jobcore.Section{Title: b.title}
	switch {
	case !structured:
		sec.Title = ""
		sec.Type, sec.Confidence = jobcore.SectionUnknown, 0.2
	case b.implicit:
		sec.Type, sec.Confidence = classify("", raw)
		if sec.Type == jobcore.SectionUnknown {
			sec.Type, sec.Confidence = jobcore.SectionRoleOverview, 0.4
		}
	default:
		sec.Type, sec.Confidence = classify(b.title, raw)
	}

	bs, kept := bullets(b.lines, s.thresholds.MinBulletLength, s.thresholds.MinParagraphLength)
	sec.Bullets = bs
	sec.Content = strings.Join(kept, "\n")
	if sec.Content == "" {
		sec.Content = raw
	}
	return sec, true
}

func trimmed(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, strings.TrimSpace(l))
	}
	return out
}
