package extract

import (
	"slices"
	"sync"
	"time"

	"github.com/fwojciec/jobcore"
	"github.com/google/uuid"
)

var _ jobcore.ParserRegistry = (*Registry)(nil)

// Registry selects site parsers for a URL and drives the fallback chain.
// Candidates run from most to least specific until the merged record is no
// longer low-confidence. A LayoutDetector, when set, lets a parser whose
// layout is recognized in the HTML join the chain ahead of the generic
// parser even when its URL rules do not match.
type Registry struct {
	mu         sync.RWMutex
	parsers    []jobcore.SiteParser
	detector   jobcore.LayoutDetector
	text       jobcore.TextExtractor
	thresholds jobcore.Thresholds

	// Tracker receives one attempt per candidate tried. Optional.
	Tracker jobcore.AttemptTracker

	// Now stamps sentinel records. Defaults to time.Now.
	Now func() time.Time
}

// NewRegistry creates an empty Registry. The detector may be nil.
func NewRegistry(thresholds jobcore.Thresholds, text jobcore.TextExtractor, detector jobcore.LayoutDetector) *Registry {
	return &Registry{
		detector:   detector,
		text:       text,
		thresholds: thresholds,
		Now:        time.Now,
	}
}

// NewParsers builds one Parser per profile over the shared strategies.
func NewParsers(profiles []jobcore.SiteProfile, strategies []jobcore.Strategy, text jobcore.TextExtractor, thresholds jobcore.Thresholds) []*Parser {
	parsers := make([]*Parser, 0, len(profiles))
	for _, p := range profiles {
		parsers = append(parsers, NewParser(p, strategies, text, thresholds))
	}
	return parsers
}

// Register adds a parser. A parser with the same name is replaced.
func (r *Registry) Register(p jobcore.SiteParser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.parsers {
		if existing.Name() == p.Name() {
			r.parsers[i] = p
			return
		}
	}
	r.parsers = append(r.parsers, p)
}

// Parsers returns registered parsers in candidate order: most specific
// first, registration order among equals.
func (r *Registry) Parsers() []jobcore.SiteParser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := slices.Clone(r.parsers)
	slices.SortStableFunc(out, func(a, b jobcore.SiteParser) int {
		return b.Specificity() - a.Specificity()
	})
	return out
}

// SelectAndParse returns the aggregated record for the document. Returns
// EINVALID only for a missing or malformed URL or an empty document.
func (r *Registry) SelectAndParse(rawURL, document string) (jobcore.JobRecord, error) {
	page, err := r.page(rawURL, document)
	if err != nil {
		return jobcore.JobRecord{}, err
	}

	all := r.Parsers()
	var candidates []jobcore.SiteParser
	for _, p := range all {
		if p.CanHandle(page.URL) {
			candidates = append(candidates, p)
		}
	}
	candidates = r.withDetected(page, all, candidates)
	if len(candidates) == 0 {
		return r.sentinelRecord(page), nil
	}

	var (
		agg     aggregate
		tried   int
		records []jobcore.JobRecord
	)
	for _, p := range candidates {
		begin := time.Now()
		rec, _ := p.Parse(page)
		tried++
		records = append(records, rec)
		agg.merge(rec, r.thresholds)
		low := r.LowConfidence(agg.rec)
		r.track(jobcore.AttemptLog{
			URL:        page.URL.String(),
			Parser:     p.Name(),
			Success:    !low,
			Confidence: rec.Confidence,
			Duration:   time.Since(begin),
			Method:     rec.Method,
		})
		if !low {
			break
		}
	}
	return agg.finish(records, tried, r.thresholds), nil
}

// Fallback runs only the generic parser.
func (r *Registry) Fallback(rawURL, document string) (jobcore.JobRecord, error) {
	page, err := r.page(rawURL, document)
	if err != nil {
		return jobcore.JobRecord{}, err
	}
	for _, p := range r.Parsers() {
		if p.Name() != GenericName {
			continue
		}
		begin := time.Now()
		rec, _ := p.Parse(page)
		rec.Meta.Candidates = 1
		r.track(jobcore.AttemptLog{
			URL:        page.URL.String(),
			Parser:     p.Name(),
			Success:    !r.LowConfidence(rec),
			Confidence: rec.Confidence,
			Duration:   time.Since(begin),
			Method:     jobcore.MethodFallback,
		})
		return rec, nil
	}
	return r.sentinelRecord(page), nil
}

// LowConfidence reports whether any thresholded field of rec is below its
// minimum: title, company, location confidence or description length.
func (r *Registry) LowConfidence(rec jobcore.JobRecord) bool {
	t := r.thresholds
	return rec.Title.Confidence < t.TitleMin ||
		rec.Company.Confidence < t.CompanyMin ||
		rec.Location.Confidence < t.LocationMin ||
		len([]rune(jobcore.NormalizeSpace(rec.Description.Value))) < t.DescriptionMinLength
}

func (r *Registry) page(rawURL, document string) (*jobcore.Page, error) {
	in := jobcore.Input{URL: rawURL, Document: document}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	u, _ := in.ParseURL()
	return PreparePage(jobcore.NewPage(u, document), r.text), nil
}

// withDetected inserts the parser named by the layout detector ahead of
// the generic parser when its URL rules did not already select it.
func (r *Registry) withDetected(page *jobcore.Page, all, candidates []jobcore.SiteParser) []jobcore.SiteParser {
	if r.detector == nil || !page.IsHTML {
		return candidates
	}
	name := r.detector.Detect(page.Raw)
	if name == "" || slices.ContainsFunc(candidates, func(p jobcore.SiteParser) bool { return p.Name() == name }) {
		return candidates
	}
	i := slices.IndexFunc(all, func(p jobcore.SiteParser) bool { return p.Name() == name })
	if i < 0 {
		return candidates
	}
	at := slices.IndexFunc(candidates, func(p jobcore.SiteParser) bool { return p.Name() == GenericName })
	if at < 0 {
		at = len(candidates)
	}
	return slices.Insert(slices.Clone(candidates), at, all[i])
}

func (r *Registry) track(a jobcore.AttemptLog) {
	if r.Tracker != nil {
		r.Tracker.LogAttempt(a)
	}
}

func (r *Registry) sentinelRecord(page *jobcore.Page) jobcore.JobRecord {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	c := r.thresholds.SentinelConfidence
	rec := jobcore.JobRecord{
		ID:               uuid.New().String(),
		SourceURL:        page.URL.String(),
		Platform:         jobcore.PlatformFromURL(page.URL),
		PlatformJobID:    jobcore.JobIDFromURL(page.URL),
		Title:            jobcore.Field[string]{Value: jobcore.UnknownTitle, Confidence: c},
		Company:          jobcore.Field[string]{Value: jobcore.UnknownCompany, Confidence: c},
		Method:           jobcore.MethodFallback,
		Parser:           GenericName,
		ParserConfidence: r.thresholds.GenericCeiling,
		Meta:             jobcore.ParsingMetadata{RawTitle: page.Title},
		ExtractedAt:      now().UTC(),
	}
	rec.Confidence = jobcore.BlendConfidence(rec)
	return rec
}

// aggregate merges candidate records field by field and remembers which
// candidate supplied each field.
type aggregate struct {
	rec    jobcore.JobRecord
	owners map[string]int
	n      int
}

func (a *aggregate) merge(next jobcore.JobRecord, t jobcore.Thresholds) {
	idx := a.n
	a.n++
	if idx == 0 {
		a.rec = next
		a.owners = map[string]int{
			"title": 0, "company": 0, "location": 0, "description": 0,
			"salary": 0, "postedAt": 0, "remote": 0,
		}
		return
	}
	own := func(field string, replaced bool) {
		if replaced {
			a.owners[field] = idx
		}
	}
	own("title", replaceBelow(&a.rec.Title, next.Title, t.TitleMin))
	own("company", replaceBelow(&a.rec.Company, next.Company, t.CompanyMin))
	own("location", replaceBelow(&a.rec.Location, next.Location, t.LocationMin))
	own("description", replaceShort(&a.rec.Description, next.Description, t.DescriptionMinLength))
	own("salary", replaceBelow(&a.rec.Salary, next.Salary, 2))
	own("postedAt", replaceBelow(&a.rec.PostedAt, next.PostedAt, 2))
	own("remote", replaceBelow(&a.rec.Remote, next.Remote, 2))
}

// replaceBelow replaces cur with next when cur is below floor and next is
// strictly more confident. A floor above 1 means the field has no threshold.
func replaceBelow[T any](cur *jobcore.Field[T], next jobcore.Field[T], floor float64) bool {
	if cur.Confidence >= floor || next.Confidence <= cur.Confidence {
		return false
	}
	*cur = next
	return true
}

// replaceShort replaces a description shorter than minLength with a longer
// one.
func replaceShort(cur *jobcore.Field[string], next jobcore.Field[string], minLength int) bool {
	have := len([]rune(jobcore.NormalizeSpace(cur.Value)))
	if have >= minLength || !next.Set() || len([]rune(jobcore.NormalizeSpace(next.Value))) <= have {
		return false
	}
	*cur = next
	return true
}

// finish attributes the record to the candidate that supplied the most
// fields, earlier candidates winning ties, and recomputes evidence,
// validation and confidence.
func (a *aggregate) finish(records []jobcore.JobRecord, tried int, t jobcore.Thresholds) jobcore.JobRecord {
	rec := a.rec
	counts := make([]int, len(records))
	for _, idx := range a.owners {
		counts[idx]++
	}
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	rec.Parser = records[best].Parser
	rec.ParserConfidence = records[best].ParserConfidence
	rec.Method = records[best].Method

	rec.Evidence = nil
	for i, r := range records {
		for _, ev := range r.Evidence {
			if a.owners[ev.Field] == i {
				rec.Evidence = append(rec.Evidence, ev)
			}
		}
	}
	rec.Validation = jobcore.ValidatePartial(jobcore.Partial{
		Title:       rec.Title,
		Company:     rec.Company,
		Location:    rec.Location,
		Description: rec.Description,
		Salary:      rec.Salary,
		PostedAt:    rec.PostedAt,
		Remote:      rec.Remote,
	}, t)
	rec.Meta.Candidates = tried
	rec.Confidence = jobcore.BlendConfidence(rec)
	return rec
}
