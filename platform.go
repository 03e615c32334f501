package jobcore

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// Platform identifies where a posting was published.
type Platform string

// Platform constants.
const (
	PlatformLinkedIn        Platform = "linkedin"
	PlatformIndeed          Platform = "indeed"
	PlatformGlassdoor       Platform = "glassdoor"
	PlatformZipRecruiter    Platform = "ziprecruiter"
	PlatformMonster         Platform = "monster"
	PlatformGreenhouse      Platform = "greenhouse"
	PlatformLever           Platform = "lever"
	PlatformWorkday         Platform = "workday"
	PlatformSmartRecruiters Platform = "smartrecruiters"
	PlatformAshby           Platform = "ashby"
	PlatformCompany         Platform = "company"
	PlatformOther           Platform = "other"
)

var platformHosts = []struct {
	suffix   string
	platform Platform
}{
	{"linkedin.com", PlatformLinkedIn},
	{"indeed.com", PlatformIndeed},
	{"glassdoor.com", PlatformGlassdoor},
	{"ziprecruiter.com", PlatformZipRecruiter},
	{"monster.com", PlatformMonster},
	{"greenhouse.io", PlatformGreenhouse},
	{"lever.co", PlatformLever},
	{"myworkdayjobs.com", PlatformWorkday},
	{"myworkdaysite.com", PlatformWorkday},
	{"smartrecruiters.com", PlatformSmartRecruiters},
	{"ashbyhq.com", PlatformAshby},
}

// PlatformFromURL classifies the host of u. Hosts starting with "careers."
// or "jobs." and paths containing /careers or /jobs count as company sites.
func PlatformFromURL(u *url.URL) Platform {
	if u == nil {
		return PlatformOther
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, h := range platformHosts {
		if host == h.suffix || strings.HasSuffix(host, "."+h.suffix) {
			return h.platform
		}
	}
	// Regional job-board domains such as indeed.co.uk or uk.indeed.com.
	for _, board := range []Platform{PlatformIndeed, PlatformGlassdoor, PlatformLinkedIn} {
		if strings.Contains(host, string(board)+".") {
			return board
		}
	}
	path := strings.ToLower(u.Path)
	if strings.HasPrefix(host, "careers.") || strings.HasPrefix(host, "jobs.") ||
		strings.Contains(path, "/careers") || strings.Contains(path, "/jobs") {
		return PlatformCompany
	}
	return PlatformOther
}

// Tier ranks platforms for primary-record selection: company sites and the
// applicant tracking systems they publish through rank above large job
// boards, which rank above everything else.
func (p Platform) Tier() int {
	switch p {
	case PlatformCompany, PlatformGreenhouse, PlatformLever, PlatformWorkday,
		PlatformSmartRecruiters, PlatformAshby:
		return 3
	case PlatformLinkedIn, PlatformIndeed, PlatformGlassdoor, PlatformZipRecruiter, PlatformMonster:
		return 2
	}
	return 1
}

var (
	digitsPathRe    = regexp.MustCompile(`/jobs?/(?:view/)?(\d{4,})`)
	trailingIDRe    = regexp.MustCompile(`[-_](\d{6,})/?$`)
	uuidRe          = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
	workdayReqRe    = regexp.MustCompile(`_(R-?\d+(?:-\d+)?)$`)
	volatileSegRe   = regexp.MustCompile(`^(?:\d{4,}|[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})$`)
	volatileTailRe  = regexp.MustCompile(`(?:[-_]\d{6,}|_R-?\d+(?:-\d+)?)$`)
	trackingParams  = map[string]bool{"gclid": true, "fbclid": true, "msclkid": true, "mc_cid": true, "mc_eid": true, "mkt_tok": true, "trk": true, "trackingid": true, "refid": true, "ref": true, "src": true, "source": true, "gh_src": true, "lever-source": true, "lever-origin": true}
	platformIDParam = map[Platform]string{PlatformIndeed: "jk", PlatformGlassdoor: "jobListingId", PlatformLinkedIn: "currentJobId", PlatformGreenhouse: "gh_jid"}
)

// JobIDFromURL returns the platform-specific job identifier in u, or "".
func JobIDFromURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	p := PlatformFromURL(u)
	if param, ok := platformIDParam[p]; ok {
		if v := u.Query().Get(param); v != "" {
			return v
		}
	}
	switch p {
	case PlatformLever, PlatformAshby:
		if m := uuidRe.FindString(strings.ToLower(u.Path)); m != "" {
			return m
		}
	case PlatformWorkday:
		last := u.Path[strings.LastIndex(u.Path, "/")+1:]
		if m := workdayReqRe.FindStringSubmatch(last); m != nil {
			return m[1]
		}
	}
	if m := digitsPathRe.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	if m := trailingIDRe.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	return ""
}

// CanonicalURL lowercases scheme and host, drops the fragment, tracking
// parameters and trailing slashes, and sorts the query. LinkedIn URLs keep
// only currentJobId. Unparseable input is returned trimmed.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || raw == "" {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || trackingParams[lk] {
			q.Del(k)
		}
	}
	if strings.Contains(u.Host, "linkedin.com") {
		keep := url.Values{}
		if v := q.Get("currentJobId"); v != "" {
			keep.Set("currentJobId", v)
		}
		q = keep
	}
	for k := range q {
		sort.Strings(q[k])
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// StableURL is CanonicalURL with the query and volatile path segments
// (numeric ids, UUIDs, requisition suffixes) removed. Two URLs with the
// same stable form usually point at one posting scraped at different times.
func StableURL(raw string) string {
	canon := CanonicalURL(raw)
	u, err := url.Parse(canon)
	if err != nil {
		return canon
	}
	u.RawQuery = ""
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	kept := segs[:0]
	for _, s := range segs {
		if volatileSegRe.MatchString(strings.ToLower(s)) {
			continue
		}
		kept = append(kept, volatileTailRe.ReplaceAllString(s, ""))
	}
	u.Path = "/" + strings.Join(kept, "/")
	return strings.TrimRight(u.String(), "/")
}

// Hostname returns the lowercased host of raw without a www. prefix.
func Hostname(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
