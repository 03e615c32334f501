package jobcore

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const agoUnits = `(\d+|an?|one)\+?\s+(minute|hour|day|week|month|year)s?\s+ago\b`

var (
	// postedAgoRe needs a posting verb so unrelated history ("founded 12
	// years ago") in page text is not read as a posting date.
	postedAgoRe = regexp.MustCompile(`(?i)\b(?:re)?(?:posted|listed|updated|published|active)\s*:?\s+` + agoUnits)
	// bareAgoRe accepts a phrase only when it is the whole text, as in a
	// date element selected from the page.
	bareAgoRe   = regexp.MustCompile(`(?i)^\s*` + agoUnits + `\s*$`)
	postedDayRe = regexp.MustCompile(`(?i)\b(?:re)?(?:posted|updated|listed|published)\s+(today|yesterday|just now)\b`)
)

// ParsePostedAgo converts phrases such as "posted 3 days ago" or
// "posted yesterday" to an absolute time relative to now. A bare
// "3 days ago" is accepted only when it makes up all of text.
func ParsePostedAgo(text string, now time.Time) (time.Time, bool) {
	if m := postedDayRe.FindStringSubmatch(text); m != nil {
		if strings.EqualFold(m[1], "yesterday") {
			return now.AddDate(0, 0, -1), true
		}
		return now, true
	}

	m := postedAgoRe.FindStringSubmatch(text)
	if m == nil {
		m = bareAgoRe.FindStringSubmatch(text)
	}
	if m == nil {
		return time.Time{}, false
	}
	n := 1
	if v, err := strconv.Atoi(m[1]); err == nil {
		n = v
	}
	switch strings.ToLower(m[2]) {
	case "minute":
		return now.Add(-time.Duration(n) * time.Minute), true
	case "hour":
		return now.Add(-time.Duration(n) * time.Hour), true
	case "day":
		return now.AddDate(0, 0, -n), true
	case "week":
		return now.AddDate(0, 0, -7*n), true
	case "month":
		return now.AddDate(0, -n, 0), true
	}
	return now.AddDate(-n, 0, 0), true
}
