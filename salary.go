package jobcore

import (
	"regexp"
	"strconv"
	"strings"
)

var salaryRe = regexp.MustCompile(`(?i)(?:([$€£])|\b(USD|EUR|GBP|CAD|AUD|CHF)\s?)(\d{1,3}(?:[,.]\d{3})+|\d+(?:\.\d+)?)\s*([km])?\b` +
	`(?:\s*(?:-|–|—|to)\s*(?:[$€£]|(?:USD|EUR|GBP|CAD|AUD|CHF)\s?)?(\d{1,3}(?:[,.]\d{3})+|\d+(?:\.\d+)?)\s*([km])?\b)?` +
	`(?:\s*(?:per|/|an?|each)\s*(year|yr|annum|hour|hr|month|mo|week|wk|day))?`)

var thousandsRe = regexp.MustCompile(`^\d{1,3}(?:[,.]\d{3})+$`)

var currencySymbols = map[string]string{"$": "USD", "€": "EUR", "£": "GBP"}

var intervals = map[string]string{
	"year": "year", "yr": "year", "annum": "year",
	"hour": "hour", "hr": "hour",
	"month": "month", "mo": "month",
	"week": "week", "wk": "week",
	"day": "day",
}

// ParseSalary finds the first salary figure or range in text. Missing
// intervals are inferred from magnitude: amounts of 10,000 and above are
// yearly, amounts below 300 hourly.
func ParseSalary(text string) (Salary, bool) {
	m := salaryRe.FindStringSubmatch(text)
	if m == nil {
		return Salary{}, false
	}

	s := Salary{Text: strings.TrimSpace(m[0])}
	if m[1] != "" {
		s.Currency = currencySymbols[m[1]]
	} else {
		s.Currency = strings.ToUpper(m[2])
	}

	lo, ok := amount(m[3], m[4])
	if !ok {
		return Salary{}, false
	}
	hi := lo
	if m[5] != "" {
		if hi, ok = amount(m[5], m[6]); !ok {
			return Salary{}, false
		}
		// "$120-150k" shares the suffix.
		if m[4] == "" && m[6] != "" && lo < 1000 {
			lo, _ = amount(m[3], m[6])
		}
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	s.Min, s.Max = lo, hi

	if m[7] != "" {
		s.Interval = intervals[strings.ToLower(m[7])]
	} else {
		switch {
		case hi >= 10000:
			s.Interval = "year"
		case hi > 0 && hi < 300:
			s.Interval = "hour"
		}
	}
	return s, true
}

func amount(digits, suffix string) (float64, bool) {
	if thousandsRe.MatchString(digits) {
		digits = strings.NewReplacer(",", "", ".", "").Replace(digits)
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToLower(suffix) {
	case "k":
		v *= 1_000
	case "m":
		v *= 1_000_000
	}
	return v, true
}
