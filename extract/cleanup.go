package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// Keyword sets for remote-work detection, most specific first.
var (
	notRemoteRe = regexp.MustCompile(`(?i)\b(?:not\s+(?:a\s+)?remote|no\s+remote|non-remote|on-?site\s+only|in[- ]office\s+only)\b`)
	remoteRe    = regexp.MustCompile(`(?i)\b(?:remote|work\s+from\s+home|wfh|fully\s+distributed|anywhere\s+in\s+the\s+world|telecommute)\b`)
	hybridRe    = regexp.MustCompile(`(?i)\bhybrid\b`)
	onsiteRe    = regexp.MustCompile(`(?i)\b(?:on-?site|on\s+site|in[- ]office)\b`)
)

// DetectRemote reports whether a posting is remote from its location, title
// and body, checked in that order. The bool is false when no keyword is found.
// Hybrid and on-site postings count as not remote.
func DetectRemote(location, title, body string) (remote, ok bool) {
	for _, s := range []string{location, title, body} {
		switch {
		case s == "":
			continue
		case notRemoteRe.MatchString(s):
			return false, true
		case hybridRe.MatchString(s):
			return false, true
		case remoteRe.MatchString(s):
			return true, true
		case onsiteRe.MatchString(s):
			return false, true
		}
	}
	return false, false
}

// Generic page-title suffixes of job boards and career sites.
var genericTitleSuffixes = []string{
	" | LinkedIn", " | Indeed.com", " | Indeed", " | Glassdoor", " | ZipRecruiter",
	" | Monster.com", " | Careers", " - Careers", " | Jobs", " - Jobs",
}

// stripSuffixes removes the first matching suffix, case-insensitively.
// Profile suffixes are tried before the generic ones.
func stripSuffixes(title string, suffixes []string) string {
	title = strings.TrimSpace(title)
	lower := strings.ToLower(title)
	for _, list := range [][]string{suffixes, genericTitleSuffixes} {
		for _, s := range list {
			if s != "" && strings.HasSuffix(lower, strings.ToLower(s)) {
				return strings.TrimSpace(title[:len(title)-len(s)])
			}
		}
	}
	return title
}

var titleSeparators = []string{" — ", " – ", " - ", " | ", ": ", " at "}

// stripCompany removes a leading "Company — " prefix or a trailing
// " - Company" or " at Company" suffix from a title.
func stripCompany(title, company string) string {
	if company == "" {
		return title
	}
	lt, lc := strings.ToLower(title), strings.ToLower(company)
	if len(lt) != len(title) || len(lc) != len(company) {
		return title
	}
	for _, sep := range titleSeparators {
		if sep != " at " && strings.HasPrefix(lt, lc+strings.ToLower(sep)) {
			if rest := strings.TrimSpace(title[len(company)+len(sep):]); rest != "" {
				return rest
			}
		}
		if strings.HasSuffix(lt, strings.ToLower(sep)+lc) {
			if rest := strings.TrimSpace(title[:len(title)-len(company)-len(sep)]); rest != "" {
				return rest
			}
		}
	}
	return title
}

// humanizeSlug turns "acme-robotics" into "Acme Robotics". Purely numeric
// slugs are not names and yield "".
func humanizeSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == '+' || unicode.IsSpace(r)
	})
	letters := false
	for i, w := range words {
		for _, r := range w {
			if unicode.IsLetter(r) {
				letters = true
				break
			}
		}
		rs := []rune(strings.ToLower(w))
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	if !letters {
		return ""
	}
	return strings.Join(words, " ")
}
