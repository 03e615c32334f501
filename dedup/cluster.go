package dedup

import (
	"strings"

	"github.com/fwojciec/jobcore"
)

// match is a business-rule relation between two records.
type match struct {
	method     jobcore.DetectionMethod
	confidence float64
	factor     string
}

// relate applies the business rules to a pair of records, strongest first.
// The cross-platform heuristic runs only when crossPlatform is set.
func (d *Detector) relate(a, b jobcore.JobRecord, crossPlatform bool) (match, bool) {
	if ua := jobcore.CanonicalURL(a.SourceURL); ua != "" && ua == jobcore.CanonicalURL(b.SourceURL) {
		return match{jobcore.DetectExactURL, 1, "source URLs identical after canonicalization"}, true
	}

	if scope := d.jobIDScope(a); scope != "" && scope == d.jobIDScope(b) {
		if id := jobID(a); id != "" && id == jobID(b) {
			return match{jobcore.DetectJobID, 1, "same job id " + id + " on " + scope}, true
		}
	}

	titleA, titleB := normalizeTitle(a.Title.Value), normalizeTitle(b.Title.Value)
	if identifiable(a) && identifiable(b) && titleA == titleB &&
		d.companyText(a.Company.Value) == d.companyText(b.Company.Value) {
		return match{jobcore.DetectTitleCompany, d.thresholds.TitleCompanyConfidence, "normalized title and canonical company match"}, true
	}

	titleSim := TitleSimilarity(a.Title.Value, b.Title.Value)
	if sa := jobcore.StableURL(a.SourceURL); sa != "" && sa == jobcore.StableURL(b.SourceURL) &&
		titleSim >= d.thresholds.ExactMatch {
		return match{jobcore.DetectVolatileURL, d.thresholds.StableURLConfidence, "same posting URL apart from volatile segments"}, true
	}

	if crossPlatform && identifiable(a) && identifiable(b) {
		ha, hb := jobcore.Hostname(a.SourceURL), jobcore.Hostname(b.SourceURL)
		companySim := d.CompanySimilarity(a.Company.Value, b.Company.Value)
		if ha != "" && hb != "" && ha != hb &&
			companySim >= d.thresholds.CrossPlatformCompany && titleSim >= d.thresholds.CrossPlatformTitle {
			return match{jobcore.DetectCrossPlatform, (companySim + titleSim) / 2, "same company and similar title on different sites"}, true
		}
	}

	return match{}, false
}

// jobIDScope returns the namespace a record's job id is unique in. The
// global boards share one id space per board; ATS ids are unique per
// tenant and company-site ids per host.
func (d *Detector) jobIDScope(r jobcore.JobRecord) string {
	p := d.platform(r)
	switch p {
	case jobcore.PlatformLinkedIn, jobcore.PlatformIndeed, jobcore.PlatformGlassdoor:
		return string(p)
	}
	u := parseURL(r.SourceURL)
	if u == nil {
		return ""
	}
	host := jobcore.Hostname(r.SourceURL)
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	switch p {
	case jobcore.PlatformGreenhouse:
		if board := u.Query().Get("for"); board != "" {
			return host + "/" + strings.ToLower(board)
		}
		return host + "/" + strings.ToLower(segments[0])
	case jobcore.PlatformLever, jobcore.PlatformSmartRecruiters, jobcore.PlatformAshby:
		return host + "/" + strings.ToLower(segments[0])
	case jobcore.PlatformWorkday:
		// myworkdaysite.com hosts many tenants under /recruiting/<tenant>.
		for i, seg := range segments[:len(segments)-1] {
			if seg == "recruiting" {
				return host + "/" + strings.ToLower(segments[i+1])
			}
		}
	}
	return host
}

func jobID(r jobcore.JobRecord) string {
	if r.PlatformJobID != "" {
		return r.PlatformJobID
	}
	return jobcore.JobIDFromURL(parseURL(r.SourceURL))
}

// Cluster groups records that describe the same posting. Each group holds
// at least two records in input order; its confidence is that of the
// weakest relation that joined it.
func (d *Detector) Cluster(records []jobcore.JobRecord) []jobcore.DuplicateGroup {
	n := len(records)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	weakest := make(map[int]match)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			m, ok := d.relate(records[i], records[j], true)
			if !ok {
				continue
			}
			ri, rj := find(i), find(j)
			if ri == rj {
				continue
			}
			w := m
			for _, r := range []int{ri, rj} {
				if prev, ok := weakest[r]; ok && prev.confidence < w.confidence {
					w = prev
				}
			}
			if rj < ri {
				ri, rj = rj, ri
			}
			parent[rj] = ri
			delete(weakest, rj)
			weakest[ri] = w
		}
	}

	members := make(map[int][]int)
	var roots []int
	for i := range records {
		r := find(i)
		if _, ok := members[r]; !ok {
			roots = append(roots, r)
		}
		members[r] = append(members[r], i)
	}

	var groups []jobcore.DuplicateGroup
	for _, r := range roots {
		idx := members[r]
		if len(idx) < 2 {
			continue
		}
		group := make([]jobcore.JobRecord, len(idx))
		for k, i := range idx {
			group[k] = records[i]
		}
		w := weakest[r]
		groups = append(groups, jobcore.DuplicateGroup{
			Records:    group,
			Primary:    group[d.SelectPrimary(group)],
			Method:     w.method,
			Confidence: w.confidence,
		})
	}
	return groups
}

// SelectPrimary returns the index of the preferred record: platform
// preference plus data completeness plus a capped recency bonus. Ties keep
// the first record. Returns -1 for an empty slice.
func (d *Detector) SelectPrimary(records []jobcore.JobRecord) int {
	best, bestScore := -1, -1.0
	now := d.Now()
	for i, r := range records {
		score := float64(d.platform(r).Tier()) / 3 * 0.5

		complete := 0
		if !placeholder(r.Title.Value, jobcore.UnknownTitle) {
			complete++
		}
		if !placeholder(r.Company.Value, jobcore.UnknownCompany) {
			complete++
		}
		if strings.TrimSpace(r.Location.Value) != "" {
			complete++
		}
		score += float64(complete) / 3 * 0.3

		if r.PostedAt.Set() && !r.PostedAt.Value.IsZero() {
			age := now.Sub(r.PostedAt.Value).Hours() / 24
			score += 0.2 * min(1, max(0, 1-age/90))
		}

		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}
