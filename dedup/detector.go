package dedup

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/jobcore"
	"github.com/fwojciec/jobcore/levenshtein"
)

var _ jobcore.DuplicateDetector = (*Detector)(nil)

// Detector implements jobcore.DuplicateDetector.
type Detector struct {
	normalizer jobcore.CompanyNormalizer
	thresholds jobcore.Thresholds

	// Now returns the current time for recency scoring. Defaults to time.Now.
	Now func() time.Time
}

// NewDetector returns a Detector. The normalizer may be nil, in which case
// companies are compared by string similarity only.
func NewDetector(normalizer jobcore.CompanyNormalizer, thresholds jobcore.Thresholds) *Detector {
	return &Detector{normalizer: normalizer, thresholds: thresholds, Now: time.Now}
}

// Check compares r against candidates. Tiers run in order and the first
// match wins: exact content hash, partial hash, business rules, weighted
// fuzzy similarity. Business rules outrank fuzzy scoring.
func (d *Detector) Check(r jobcore.JobRecord, candidates []jobcore.JobRecord) jobcore.DuplicateVerdict {
	if len(candidates) == 0 {
		return jobcore.DuplicateVerdict{Action: jobcore.ActionCreateNew, Method: jobcore.DetectNone}
	}

	h := d.Hash(r)
	hashes := make([]jobcore.ContentHashBundle, len(candidates))
	for i, c := range candidates {
		hashes[i] = d.Hash(c)
	}

	if v, ok := d.exactHash(r, h, candidates, hashes); ok {
		return v
	}
	if v, ok := d.partialHash(r, h, candidates, hashes); ok {
		return v
	}
	if v, ok := d.businessRule(r, candidates); ok {
		return v
	}
	return d.fuzzy(r, candidates)
}

func (d *Detector) exactHash(r jobcore.JobRecord, h jobcore.ContentHashBundle, candidates []jobcore.JobRecord, hashes []jobcore.ContentHashBundle) (jobcore.DuplicateVerdict, bool) {
	identified := identifiable(r)
	for i, ch := range hashes {
		var factor string
		switch {
		case h.Full == ch.Full && identified:
			factor = "all normalized fields match"
		case h.Combined == ch.Combined && identified:
			factor = "title, company and location match"
		default:
			continue
		}
		return jobcore.DuplicateVerdict{
			IsDuplicate: true,
			MatchedID:   candidates[i].ID,
			Score:       1,
			Factors:     []string{factor},
			Action:      jobcore.ActionUpdateExisting,
			Method:      jobcore.DetectExactHash,
		}, true
	}
	return jobcore.DuplicateVerdict{}, false
}

// businessRule applies the record-level shortcuts ahead of fuzzy scoring.
func (d *Detector) businessRule(r jobcore.JobRecord, candidates []jobcore.JobRecord) (jobcore.DuplicateVerdict, bool) {
	var best jobcore.DuplicateVerdict
	found := false
	for _, c := range candidates {
		m, ok := d.relate(r, c, false)
		if !ok || (found && m.confidence <= best.Score) {
			continue
		}
		found = true
		best = jobcore.DuplicateVerdict{
			IsDuplicate: true,
			MatchedID:   c.ID,
			Score:       m.confidence,
			Factors:     []string{m.factor},
			Action:      d.action(m.confidence),
			Method:      m.method,
		}
	}
	return best, found
}

func (d *Detector) partialHash(r jobcore.JobRecord, h jobcore.ContentHashBundle, candidates []jobcore.JobRecord, hashes []jobcore.ContentHashBundle) (jobcore.DuplicateVerdict, bool) {
	bestScore, bestIdx := 0.0, -1
	var bestFactors []string
	for i, ch := range hashes {
		var factors []string
		if h.Title == ch.Title && !placeholder(r.Title.Value, jobcore.UnknownTitle) {
			factors = append(factors, "title hash matches")
		}
		if h.Company == ch.Company && !placeholder(r.Company.Value, jobcore.UnknownCompany) {
			factors = append(factors, "company hash matches")
		}
		if h.Description == ch.Description && strings.TrimSpace(r.Description.Value) != "" {
			factors = append(factors, "description hash matches")
		}
		if len(factors) < 2 {
			continue
		}
		if score := float64(len(factors)) / 3; score > bestScore {
			bestScore, bestIdx, bestFactors = score, i, factors
		}
	}
	if bestIdx < 0 || bestScore <= d.thresholds.ExactMatch {
		return jobcore.DuplicateVerdict{}, false
	}
	return jobcore.DuplicateVerdict{
		IsDuplicate: true,
		MatchedID:   candidates[bestIdx].ID,
		Score:       bestScore,
		Factors:     bestFactors,
		Action:      jobcore.ActionUpdateExisting,
		Method:      jobcore.DetectPartialHash,
	}, true
}

func (d *Detector) fuzzy(r jobcore.JobRecord, candidates []jobcore.JobRecord) jobcore.DuplicateVerdict {
	bestScore, bestIdx := -1.0, -1
	var bestFactors []string
	for i, c := range candidates {
		score, factors := d.Score(r, c)
		if score > bestScore {
			bestScore, bestIdx, bestFactors = score, i, factors
		}
	}

	v := jobcore.DuplicateVerdict{
		Score:   jobcore.ClampConfidence(bestScore),
		Factors: bestFactors,
		Method:  jobcore.DetectFuzzy,
	}
	switch {
	case bestScore > d.thresholds.FuzzyDuplicate:
		v.IsDuplicate = true
		v.MatchedID = candidates[bestIdx].ID
		v.Action = d.action(bestScore)
	case bestScore > d.thresholds.FuzzySimilar:
		v.Similar = true
		v.MatchedID = candidates[bestIdx].ID
		v.Action = jobcore.ActionUserConfirm
	default:
		v.Action = jobcore.ActionCreateNew
	}
	return v
}

// action maps a duplicate score to the recommended action.
func (d *Detector) action(score float64) jobcore.Action {
	if score > d.thresholds.ExactMatch {
		return jobcore.ActionUpdateExisting
	}
	return jobcore.ActionUserConfirm
}

// Score returns the weighted fuzzy similarity of two records and the
// human-readable factors behind it. Placeholder titles and companies never
// count as similar.
func (d *Detector) Score(a, b jobcore.JobRecord) (float64, []string) {
	var title, company float64
	if !placeholder(a.Title.Value, jobcore.UnknownTitle) && !placeholder(b.Title.Value, jobcore.UnknownTitle) {
		title = TitleSimilarity(a.Title.Value, b.Title.Value)
	}
	if !placeholder(a.Company.Value, jobcore.UnknownCompany) && !placeholder(b.Company.Value, jobcore.UnknownCompany) {
		company = d.CompanySimilarity(a.Company.Value, b.Company.Value)
	}
	location := LocationSimilarity(a.Location.Value, b.Location.Value)
	desc := d.descriptionSimilarity(a.Description.Value, b.Description.Value)
	date := DateProximity(a.PostedAt, b.PostedAt)

	score := 0.30*title + 0.25*company + 0.15*location + 0.20*desc + 0.10*date
	factors := []string{
		fmt.Sprintf("title similarity %.2f", title),
		fmt.Sprintf("company similarity %.2f", company),
		fmt.Sprintf("location similarity %.2f", location),
		fmt.Sprintf("description similarity %.2f", desc),
		fmt.Sprintf("posting date proximity %.2f", date),
	}
	return jobcore.ClampConfidence(score), factors
}

var titleAbbreviations = map[string]string{
	"sr":   "senior",
	"snr":  "senior",
	"jr":   "junior",
	"mgr":  "manager",
	"engr": "engineer",
	"eng":  "engineering",
	"dev":  "developer",
	"swe":  "software engineer",
	"sde":  "software development engineer",
	"qa":   "quality assurance",
	"vp":   "vice president",
	"ii":   "2",
	"iii":  "3",
}

// normalizeTitle normalizes text and expands common title abbreviations.
func normalizeTitle(s string) string {
	words := strings.Fields(normalizeText(s))
	for i, w := range words {
		if full, ok := titleAbbreviations[w]; ok {
			words[i] = full
		}
	}
	return strings.Join(words, " ")
}

// TitleSimilarity compares titles after abbreviation expansion.
func TitleSimilarity(a, b string) float64 {
	return levenshtein.Similarity(normalizeTitle(a), normalizeTitle(b))
}

// CompanySimilarity is 1 when both names share a canonical form and the
// string similarity of the canonical forms otherwise.
func (d *Detector) CompanySimilarity(a, b string) float64 {
	ca, cb := d.companyText(a), d.companyText(b)
	if ca == "" && cb == "" {
		return 1
	}
	if ca != "" && strings.ReplaceAll(ca, " ", "") == strings.ReplaceAll(cb, " ", "") {
		return 1
	}
	return levenshtein.Similarity(ca, cb)
}

// LocationSimilarity compares locations. Two empty locations match fully,
// one empty location scores 0.3 and two remote locations score 0.9.
func LocationSimilarity(a, b string) float64 {
	na, nb := normalizeText(a), normalizeText(b)
	switch {
	case na == "" && nb == "":
		return 1
	case na == "" || nb == "":
		return 0.3
	case strings.Contains(na, "remote") && strings.Contains(nb, "remote"):
		return 0.9
	}
	return levenshtein.Similarity(na, nb)
}

func (d *Detector) descriptionSimilarity(a, b string) float64 {
	na := prefix(normalizeText(a), d.thresholds.DescriptionPrefix)
	nb := prefix(normalizeText(b), d.thresholds.DescriptionPrefix)
	switch {
	case na == "" && nb == "":
		return 1
	case na == "" || nb == "":
		return 0.3
	}
	return levenshtein.Similarity(na, nb)
}

// DateProximity scores how close two posting dates are. Missing dates are neutral.
func DateProximity(a, b jobcore.Field[time.Time]) float64 {
	if !a.Set() || !b.Set() || a.Value.IsZero() || b.Value.IsZero() {
		return 0.5
	}
	days := math.Abs(a.Value.Sub(b.Value).Hours()) / 24
	switch {
	case days <= 7:
		return 0.9
	case days <= 30:
		return 0.7
	case days <= 90:
		return 0.5
	}
	return 0.2
}

// identifiable reports whether r has a real title and company, so that
// hash equality is meaningful.
func identifiable(r jobcore.JobRecord) bool {
	return !placeholder(r.Title.Value, jobcore.UnknownTitle) && !placeholder(r.Company.Value, jobcore.UnknownCompany)
}

func parseURL(raw string) *url.URL {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return nil
	}
	return u
}
