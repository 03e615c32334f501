package segment

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/fwojciec/jobcore"
)

// keywordSet lists the phrases that identify a section type in a header
// and in a section body.
type keywordSet struct {
	title []string
	body  []string
}

var taxonomy = map[jobcore.SectionType]keywordSet{
	jobcore.SectionMetadata: {
		title: []string{"job details", "position details", "job information", "key details", "at a glance", "details"},
		body:  []string{"location:", "job type", "employment type", "department:", "requisition", "req id", "job id", "salary:"},
	},
	jobcore.SectionRoleOverview: {
		title: []string{"overview", "about the role", "about this role", "about the job", "about the position", "the role", "role", "position summary", "job summary", "summary", "job description", "the opportunity", "opportunity", "introduction"},
		body:  []string{"you will", "we are looking for", "we're looking for", "this role", "as a ", "join our", "the ideal candidate"},
	},
	jobcore.SectionResponsibilities: {
		title: []string{"responsibilities", "what you'll do", "what you will do", "what you'll be doing", "what you will be doing", "duties", "your role", "day to day", "day-to-day", "key tasks", "your impact", "your mission", "the work"},
		body:  []string{"develop", "build", "design", "collaborate", "maintain", "own ", "lead ", "drive ", "implement"},
	},
	jobcore.SectionQualifications: {
		title: []string{"qualifications", "requirements", "what you'll bring", "what you bring", "what we're looking for", "what we are looking for", "who you are", "about you", "skills", "experience", "must have", "must-have", "nice to have", "nice-to-have", "preferred", "you have"},
		body:  []string{"years of experience", "years experience", "degree", "proficiency", "proficient", "knowledge of", "experience with", "bachelor", "familiarity"},
	},
	jobcore.SectionCompensation: {
		title: []string{"compensation", "benefits", "salary", "pay", "perks", "what we offer", "total rewards", "why join"},
		body:  []string{"$", "€", "£", "401(k)", "health insurance", "dental", "equity", "paid time off", "pto", "per year", "bonus", "vacation"},
	},
	jobcore.SectionCompanyInfo: {
		title: []string{"about us", "about the company", "company overview", "who we are", "our company", "our mission", "our culture", "our story", "life at", "about the team", "our team"},
		body:  []string{"founded", "our mission", "we are a", "we're a", "headquartered", "our customers", "employees"},
	},
	jobcore.SectionApplication: {
		title: []string{"how to apply", "application process", "to apply", "next steps", "interview process", "hiring process", "apply"},
		body:  []string{"submit", "resume", "cover letter", "apply", "application"},
	},
	jobcore.SectionLegal: {
		title: []string{"equal opportunity", "equal employment", "eeo", "diversity", "accommodation", "legal", "disclaimer", "privacy notice", "e-verify"},
		body:  []string{"equal opportunity employer", "race", "religion", "gender identity", "sexual orientation", "disability", "veteran", "national origin"},
	},
}

var (
	markdownHeadingRe = regexp.MustCompile(`^#{1,6}\s+(.+?)\s*#*$`)
	boldLineRe        = regexp.MustCompile(`^(?:\*\*|__)(.+?)(?:\*\*|__)\s*:?$`)
	labelLineRe       = regexp.MustCompile(`:\s+\S`)
)

// smallWords may stay lowercase in a title-cased header.
var smallWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "by": true, "for": true,
	"in": true, "of": true, "on": true, "or": true, "the": true, "to": true, "with": true,
}

// headerTitle reports whether line opens a new section and returns the
// header text without markup.
func headerTitle(line string, minScore int) (string, bool) {
	t := strings.TrimSpace(line)
	if t == "" || markerRe.MatchString(t) {
		return "", false
	}
	if m := markdownHeadingRe.FindStringSubmatch(t); m != nil {
		return cleanHeader(m[1]), true
	}
	if m := boldLineRe.FindStringSubmatch(t); m != nil {
		return cleanHeader(m[1]), true
	}

	words := strings.Fields(t)
	if len(words) > 8 || strings.ContainsAny(t[len(t)-1:], ".,;!?") || labelLineRe.MatchString(t) {
		return "", false
	}
	title := cleanHeader(t)
	// A keyword header is mostly keyword: "Experience with Go" is a sentence.
	if hits := titleHits(title); hits > 0 && len(words) <= 6 && len(words) <= hits+2 && !startsWithDigit(title) {
		return title, true
	}
	if formattingScore(t) >= minScore {
		return title, true
	}
	return "", false
}

// formattingScore counts the independent header-like traits of a line:
// short, trailing colon, all caps, title case.
func formattingScore(t string) int {
	score := 0
	if len([]rune(t)) <= 50 {
		score++
	}
	if strings.HasSuffix(t, ":") {
		score++
	}
	letters, upper := 0, 0
	for _, r := range t {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters >= 3 && upper == letters {
		score++
	}
	if letters > 0 && titleCase(strings.TrimSuffix(t, ":")) {
		score++
	}
	return score
}

func titleCase(t string) bool {
	words := strings.Fields(t)
	if len(words) == 0 {
		return false
	}
	for i, w := range words {
		r := []rune(strings.TrimLeft(w, "(\"'"))
		if len(r) == 0 || !unicode.IsLetter(r[0]) {
			continue
		}
		if i > 0 && smallWords[strings.ToLower(w)] {
			continue
		}
		if !unicode.IsUpper(r[0]) {
			return false
		}
	}
	return true
}

func cleanHeader(s string) string {
	s = strings.Trim(strings.TrimSpace(s), "*_#")
	s = strings.TrimSuffix(strings.TrimSpace(s), ":")
	return strings.TrimSpace(s)
}

func startsWithDigit(s string) bool {
	for _, r := range s {
		return unicode.IsDigit(r)
	}
	return false
}

// normalizeKeywordText lowercases s and straightens typographic apostrophes.
func normalizeKeywordText(s string) string {
	return strings.NewReplacer("’", "'", "‘", "'").Replace(strings.ToLower(s))
}

// titleHits returns the summed word weight of the taxonomy title phrases in
// a header. Longer phrases weigh more.
func titleHits(header string) int {
	padded := pad(header)
	total := 0
	for _, t := range jobcore.SectionOrder {
		total += phraseWeight(padded, taxonomy[t].title)
	}
	return total
}

// pad normalizes s for phrase matching and surrounds it with spaces.
func pad(s string) string {
	return " " + normalizeKeywordText(s) + " "
}

func phraseWeight(padded string, phrases []string) int {
	w := 0
	for _, p := range phrases {
		if containsPhrase(padded, p) {
			w += len(strings.Fields(p))
		}
	}
	return w
}

// containsPhrase matches p in padded text on word boundaries. Phrases that
// end in punctuation or a space match as plain substrings.
func containsPhrase(padded, p string) bool {
	last := p[len(p)-1]
	if last == ' ' || last == ':' || !isWordByte(p[0]) {
		return strings.Contains(padded, p)
	}
	for i := 0; ; {
		j := strings.Index(padded[i:], p)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(p)
		if !isWordByte(padded[start-1]) && (end >= len(padded) || !isWordByte(padded[end])) {
			return true
		}
		i = start + 1
	}
}

func isWordByte(b byte) bool {
	return b == '\'' || b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b >= 'A' && b <= 'Z'
}

// classify assigns a section type by keyword scoring. Header phrases weigh
// three times as much as body keywords. Ties resolve in canonical order.
func classify(title, body string) (jobcore.SectionType, float64) {
	best, bestScore := jobcore.SectionUnknown, 0
	var bestTitle, bestBody int
	paddedTitle, paddedBody := pad(title), pad(body)
	for _, t := range jobcore.SectionOrder {
		kw, ok := taxonomy[t]
		if !ok {
			continue
		}
		th := phraseWeight(paddedTitle, kw.title)
		bh := 0
		for _, p := range kw.body {
			if containsPhrase(paddedBody, p) {
				bh++
			}
		}
		if score := 3*th + bh; score > bestScore {
			best, bestScore, bestTitle, bestBody = t, score, th, bh
		}
	}
	if best == jobcore.SectionUnknown {
		return best, 0.2
	}
	return best, jobcore.ClampConfidence(0.3 + 0.25*float64(bestTitle) + 0.05*float64(bestBody))
}
