package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/jobcore"
)

var (
	imageRe     = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkRe      = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	bareURLRe   = regexp.MustCompile(`(?i)\bhttps?://\S+`)
	innerSpaces = regexp.MustCompile(`[ \t\x{00a0}]+`)
	timestampRe = regexp.MustCompile(`(?i)^(?:(?:posted|updated|published)\s*:?\s*)?(?:\d+\+?\s+(?:minute|hour|day|week|month)s?\s+ago|today|yesterday|just now|\d{1,2}:\d{2}(?:\s*[ap]m)?|\d{4}-\d{2}-\d{2}(?:[ t]\d{2}:\d{2}(?::\d{2})?)?)$`)
)

// Phrases that mark a whole line as boilerplate wherever they appear.
var noiseContains = []string{
	"we use cookies",
	"accept cookies",
	"cookie policy",
	"cookie settings",
	"all rights reserved",
	"©",
	"powered by",
}

// Navigation and footer lines dropped only when they make up the entire line.
var noiseLines = map[string]bool{
	"skip to main content": true,
	"skip to content":      true,
	"sign in":              true,
	"log in":               true,
	"login":                true,
	"menu":                 true,
	"home":                 true,
	"back to jobs":         true,
	"back to search":       true,
	"back to all jobs":     true,
	"view all jobs":        true,
	"share this job":       true,
	"share":                true,
	"save job":             true,
	"print":                true,
	"privacy policy":       true,
	"terms of use":         true,
	"terms of service":     true,
}

// denoise strips links, boilerplate lines and repeated timestamps and
// collapses whitespace inside lines. Leading indentation survives so bullet
// nesting can still be measured. It returns the cleaned lines and the
// retained/original length ratio.
func denoise(raw string) ([]string, float64) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	seenStamps := make(map[string]bool)
	var lines []string
	blank := false
	for _, line := range strings.Split(raw, "\n") {
		line = strings.ReplaceAll(line, "\t", "    ")
		line = imageRe.ReplaceAllString(line, "")
		line = linkRe.ReplaceAllString(line, "$1")
		line = bareURLRe.ReplaceAllString(line, "")

		indent := len(line) - len(strings.TrimLeft(line, " "))
		text := strings.TrimSpace(innerSpaces.ReplaceAllString(line, " "))
		if text == "" {
			if !blank && len(lines) > 0 {
				lines = append(lines, "")
			}
			blank = true
			continue
		}

		lower := strings.ToLower(text)
		if isNoise(lower) {
			continue
		}
		if timestampRe.MatchString(lower) {
			if seenStamps[lower] {
				continue
			}
			seenStamps[lower] = true
		}

		lines = append(lines, strings.Repeat(" ", indent)+text)
		blank = false
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	original := utf8.RuneCountInString(jobcore.NormalizeSpace(raw))
	if original == 0 {
		return lines, 0
	}
	retained := utf8.RuneCountInString(jobcore.NormalizeSpace(strings.Join(lines, " ")))
	return lines, float64(retained) / float64(original)
}

func isNoise(lower string) bool {
	if noiseLines[strings.Trim(lower, " .:|>")] {
		return true
	}
	for _, p := range noiseContains {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
