package pipeline

import (
	"strings"

	"github.com/fwojciec/jobcore"
)

// backfillContent fills fields the parsers left missing from the main
// content extraction: title, company from the site name, posting date and
// a description too short to be useful.
func backfillContent(rec jobcore.JobRecord, c *mainContent, t jobcore.Thresholds) jobcore.JobRecord {
	res := c.result
	if missingTitle(rec) {
		fillString(&rec, &rec.Title, "title", res.Title, contentTitleConfidence)
	}
	if missingCompany(rec) {
		fillString(&rec, &rec.Company, "company", res.SiteName, contentCompanyConfidence)
	}
	if !rec.PostedAt.Set() && !res.Date.IsZero() {
		rec.PostedAt = jobcore.NewField(res.Date.UTC(), capped(rec, contentDateConfidence))
		rec.Evidence = append(rec.Evidence, backfillEvidence("postedAt", res.Date.Format("2006-01-02")))
	}
	if c.markdown != "" && runes(rec.Description.Value) < t.DescriptionMinLength && runes(c.markdown) > runes(rec.Description.Value) {
		rec.Description = jobcore.NewField(c.markdown, capped(rec, contentDescriptionConfidence))
		rec.Evidence = append(rec.Evidence, backfillEvidence("description", c.markdown))
	}
	return rec
}

// backfillMetadata fills fields the parsers left missing from the
// metadata found by the segmenter.
func backfillMetadata(rec jobcore.JobRecord, m jobcore.DocumentMetadata) jobcore.JobRecord {
	if m.Title != nil && missingTitle(rec) {
		fillString(&rec, &rec.Title, "title", *m.Title, metadataConfidence)
	}
	if m.Company != nil && missingCompany(rec) {
		fillString(&rec, &rec.Company, "company", *m.Company, metadataConfidence)
	}
	if m.Location != nil && !rec.Location.Set() {
		fillString(&rec, &rec.Location, "location", *m.Location, metadataConfidence)
	}
	if m.Salary != nil && !rec.Salary.Set() {
		sal, ok := jobcore.ParseSalary(*m.Salary)
		if !ok {
			sal = jobcore.Salary{Text: jobcore.NormalizeSpace(*m.Salary)}
		}
		if sal.Text != "" {
			rec.Salary = jobcore.NewField(sal, capped(rec, metadataConfidence))
			rec.Evidence = append(rec.Evidence, backfillEvidence("salary", sal.Text))
		}
	}
	if m.Date != nil && !rec.PostedAt.Set() {
		rec.PostedAt = jobcore.NewField(m.Date.UTC(), capped(rec, metadataConfidence))
		rec.Evidence = append(rec.Evidence, backfillEvidence("postedAt", m.Date.Format("2006-01-02")))
	}
	return rec
}

func fillString(rec *jobcore.JobRecord, f *jobcore.Field[string], field, value string, confidence float64) {
	value = jobcore.NormalizeSpace(value)
	if value == "" {
		return
	}
	*f = jobcore.NewField(value, capped(*rec, confidence))
	rec.Evidence = append(rec.Evidence, backfillEvidence(field, value))
}

func missingTitle(rec jobcore.JobRecord) bool {
	return !rec.Title.Set() || rec.Title.Value == jobcore.UnknownTitle
}

func missingCompany(rec jobcore.JobRecord) bool {
	return !rec.Company.Set() || rec.Company.Value == jobcore.UnknownCompany
}

// capped limits a back-filled confidence to the answering parser's ceiling.
func capped(rec jobcore.JobRecord, confidence float64) float64 {
	if rec.ParserConfidence > 0 {
		return min(confidence, rec.ParserConfidence)
	}
	return confidence
}

func backfillEvidence(field, excerpt string) jobcore.Evidence {
	if r := []rune(excerpt); len(r) > 200 {
		excerpt = string(r[:200])
	}
	return jobcore.Evidence{Field: field, Method: jobcore.MethodFallback, Excerpt: strings.TrimSpace(excerpt)}
}

func runes(s string) int {
	return len([]rune(jobcore.NormalizeSpace(s)))
}

func partialOf(rec jobcore.JobRecord) jobcore.Partial {
	return jobcore.Partial{
		Title:       rec.Title,
		Company:     rec.Company,
		Location:    rec.Location,
		Description: rec.Description,
		Salary:      rec.Salary,
		PostedAt:    rec.PostedAt,
		Remote:      rec.Remote,
	}
}
