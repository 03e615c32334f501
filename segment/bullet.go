package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/jobcore"
)

var (
	markerRe = regexp.MustCompile(`^(?:[•\-*–·▪◦‣]|\d{1,2}[.)])\s+`)
	labelRe  = regexp.MustCompile(`^([A-Z][^:]{0,40}?):\s+(\S.*)$`)
)

// bullets splits section lines into bullet points and the lines that stay
// in the section content. Marker and label lines become bullets; nesting
// follows indentation in steps of four spaces. Lines shorter than
// minLength are dropped, as are plain paragraphs no longer than
// minParagraph.
func bullets(lines []string, minLength, minParagraph int) ([]jobcore.BulletPoint, []string) {
	var out []jobcore.BulletPoint
	var kept []string
	for _, line := range lines {
		text := strings.TrimSpace(line)
		if utf8.RuneCountInString(text) < minLength {
			continue
		}
		level := (len(line) - len(strings.TrimLeft(line, " "))) / 4

		if loc := markerRe.FindStringIndex(text); loc != nil {
			b := bullet(strings.TrimSpace(text[loc[1]:]), level, 0.9)
			if b.Description == "" {
				continue
			}
			out = append(out, b)
			kept = append(kept, text)
			continue
		}
		if labelRe.MatchString(text) {
			out = append(out, bullet(text, level, 0.8))
			kept = append(kept, text)
			continue
		}
		if utf8.RuneCountInString(text) > minParagraph {
			kept = append(kept, text)
		}
	}
	return out, kept
}

// bullet builds a bullet point from item text, splitting off a label when
// the text reads "Label: Description". Labelled items gain confidence.
func bullet(text string, level int, confidence float64) jobcore.BulletPoint {
	text = strings.Trim(text, "*_ ")
	b := jobcore.BulletPoint{Description: text, Level: level, Confidence: confidence}
	if m := labelRe.FindStringSubmatch(strings.ReplaceAll(text, "**", "")); m != nil {
		b.Label = strings.TrimSpace(m[1])
		b.Description = strings.TrimSpace(m[2])
		b.Confidence = jobcore.ClampConfidence(confidence + 0.1)
	}
	return b
}
