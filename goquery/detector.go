package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/jobcore"
)

var _ jobcore.LayoutDetector = (*Detector)(nil)

// Detector identifies applicant tracking systems and job boards from HTML
// content. It checks for embed scripts, data attributes, meta tags and
// structural markers that are unique to each system, so a board embedded on
// a company domain is still recognized.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the name of the parser for the identified
// layout. Returns "" if the layout cannot be determined.
func (d *Detector) Detect(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	// Check meta generator tags first - most reliable when present
	if name := d.detectFromMetaGenerator(doc); name != "" {
		return name
	}

	// Greenhouse embeds load from boards.greenhouse.io into #grnhse_app
	if d.hasSelector(doc, "#grnhse_app") ||
		d.hasSelector(doc, "#grnhse_iframe") ||
		d.hasSelector(doc, `script[src*="greenhouse.io"]`) ||
		d.hasSelector(doc, "#app_body") && d.hasSelector(doc, ".app-title") {
		return string(jobcore.PlatformGreenhouse)
	}

	// Lever hosted and embedded postings share the posting-* class family
	if d.hasSelector(doc, ".posting-headline") ||
		d.hasSelector(doc, ".posting-categories") ||
		d.hasSelector(doc, `script[src*="lever.co"]`) {
		return string(jobcore.PlatformLever)
	}

	// Workday marks every component with data-automation-id
	if d.hasSelector(doc, `[data-automation-id="jobPostingHeader"]`) ||
		d.hasSelector(doc, `[data-automation-id="jobPostingDescription"]`) {
		return string(jobcore.PlatformWorkday)
	}

	if d.hasSelector(doc, `script[src*="smartrecruiters.com"]`) ||
		d.hasSelector(doc, ".job-sections") && d.hasSelector(doc, ".job-title") {
		return string(jobcore.PlatformSmartRecruiters)
	}

	if d.hasSelector(doc, `script[src*="ashbyhq.com"]`) ||
		d.hasSelector(doc, `[class*="ashby-job-posting"]`) {
		return string(jobcore.PlatformAshby)
	}

	if d.hasSelector(doc, ".top-card-layout__title") ||
		d.hasSelector(doc, ".show-more-less-html__markup") {
		return string(jobcore.PlatformLinkedIn)
	}

	if d.hasSelector(doc, "#jobDescriptionText") ||
		d.hasSelector(doc, ".jobsearch-JobInfoHeader-title") {
		return string(jobcore.PlatformIndeed)
	}

	return ""
}

// detectFromMetaGenerator checks the meta generator tag for layout identification.
func (d *Detector) detectFromMetaGenerator(doc *goquery.Document) string {
	generator := ""
	doc.Find("meta[name='generator']").Each(func(_ int, s *goquery.Selection) {
		if content, exists := s.Attr("content"); exists {
			generator = strings.ToLower(content)
		}
	})

	for _, p := range []jobcore.Platform{
		jobcore.PlatformGreenhouse,
		jobcore.PlatformLever,
		jobcore.PlatformWorkday,
		jobcore.PlatformSmartRecruiters,
		jobcore.PlatformAshby,
	} {
		if generator != "" && strings.Contains(generator, string(p)) {
			return string(p)
		}
	}
	return ""
}

// hasSelector checks if the document contains at least one element matching the selector.
func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}
