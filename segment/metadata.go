package segment

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/fwojciec/jobcore"
)

// labelPattern matches "Label: value" lines for any of the given labels.
func labelPattern(labels ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t]*(?:[-*•][ \t]+)?(?:\*\*)?(?:` + strings.Join(labels, "|") +
		`)(?:\*\*)?(?:[ \t]*:[ \t]*(?:\*\*)?|[ \t]+[-–][ \t]+)[ \t]*(.+?)[ \t]*$`)
}

var (
	titleLabelRe      = labelPattern(`job title`, `position title`, `position`, `role`, `title`)
	companyLabelRe    = labelPattern(`company`, `employer`, `organization`, `hiring company`)
	locationLabelRe   = labelPattern(`job location`, `office location`, `work location`, `location`, `based in`)
	salaryLabelRe     = labelPattern(`salary range`, `base salary`, `salary`, `pay range`, `compensation`, `pay`)
	dateLabelRe       = labelPattern(`date posted`, `posting date`, `posted on`, `posted`, `date`)
	reqLabelRe        = labelPattern(`requisition id`, `requisition number`, `requisition`, `req id`, `req #`, `job id`, `job number`, `reference`)
	jobTypeLabelRe    = labelPattern(`job type`, `employment type`, `type`)
	levelLabelRe      = labelPattern(`experience level`, `seniority level`, `seniority`, `level`)
	departmentLabelRe = labelPattern(`department`, `team`, `division`)
	industryLabelRe   = labelPattern(`industry`, `sector`)

	salaryRe  = regexp.MustCompile(`(?i)[$€£]\s?\d[\d,.]*\s?[km]?(?:\s*(?:-|–|to)\s*[$€£]?\s?\d[\d,.]*\s?[km]?)?(?:\s*(?:per|/|an?)\s*(?:year|yr|annum|hour|hr|month))?`)
	isoDateRe = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	reqIDRe   = regexp.MustCompile(`\b(?:R|REQ|JR|JOB)[-_]?\d{3,}\b`)
	jobTypeRe = regexp.MustCompile(`(?i)\b(full[- ]time|part[- ]time|contract|temporary|internship|freelance)\b`)
	levelRe   = regexp.MustCompile(`(?i)\b(entry[- ]level|junior|mid[- ]level|senior|staff|principal|lead|director|executive)\b`)
)

// maxMetadataValue bounds accepted field values; longer matches are prose.
const maxMetadataValue = 120

// extractMetadata reads document-level fields from the metadata section,
// falling back to the full text field by field.
func extractMetadata(metaText, fullText string) jobcore.DocumentMetadata {
	lookup := func(label, pattern *regexp.Regexp) *string {
		for _, text := range []string{metaText, fullText} {
			if text == "" {
				continue
			}
			if label != nil {
				if v := labelled(label, text); v != "" {
					return &v
				}
			}
			if pattern != nil {
				if v := pattern.FindString(text); v != "" {
					v = strings.TrimSpace(v)
					return &v
				}
			}
		}
		return nil
	}

	md := jobcore.DocumentMetadata{
		Title:         lookup(titleLabelRe, nil),
		Company:       lookup(companyLabelRe, nil),
		Location:      lookup(locationLabelRe, nil),
		Salary:        lookup(salaryLabelRe, salaryRe),
		RequisitionID: lookup(reqLabelRe, reqIDRe),
		Department:    lookup(departmentLabelRe, nil),
		Industry:      lookup(industryLabelRe, nil),
	}
	if v := lookup(jobTypeLabelRe, jobTypeRe); v != nil {
		s := canonicalJobType(*v)
		md.JobType = &s
	}
	if v := lookup(levelLabelRe, levelRe); v != nil {
		s := strings.ToLower(*v)
		md.ExperienceLevel = &s
	}
	if v := lookup(dateLabelRe, isoDateRe); v != nil {
		if t, err := dateparse.ParseIn(*v, time.UTC); err == nil {
			md.Date = &t
		}
	}
	return md
}

func labelled(re *regexp.Regexp, text string) string {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		v := strings.Trim(strings.TrimSpace(m[1]), "*_ ")
		if v != "" && utf8.RuneCountInString(v) <= maxMetadataValue {
			return v
		}
	}
	return ""
}

// canonicalJobType folds job type spellings like "FULL TIME" to "full-time".
func canonicalJobType(v string) string {
	if m := jobTypeRe.FindString(v); m != "" {
		v = m
	}
	return strings.ReplaceAll(strings.ToLower(v), " ", "-")
}
