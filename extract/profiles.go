package extract

import "github.com/fwojciec/jobcore"

// Specificity tiers: site-specific parsers outrank job-board families,
// which outrank company career sites and the generic parser.
const (
	SpecificityATS     = 100
	SpecificityBoard   = 90
	SpecificityCareers = 50
	SpecificityPath    = 40
	SpecificityGeneric = 0
)

// GenericName is the name of the parser accepting every URL.
const GenericName = "generic"

// Profiles returns the shipped site profiles, the generic one last.
func Profiles(t jobcore.Thresholds) []jobcore.SiteProfile {
	return []jobcore.SiteProfile{
		{
			Name:         string(jobcore.PlatformGreenhouse),
			Platform:     jobcore.PlatformGreenhouse,
			HostSuffixes: []string{"greenhouse.io"},
			Ceiling:      0.95,
			Specificity:  SpecificityATS,
			Selectors: jobcore.FieldSelectors{
				Title:       []string{".app-title", "h1.section-header", ".job__title h1", "h1"},
				Company:     []string{".company-name"},
				Location:    []string{".location", ".job__location"},
				Description: []string{"#content", ".job__description"},
			},
			Fingerprints:  []string{"#app_body", ".job__description"},
			TitleSuffixes: []string{" | Greenhouse"},
			CompanySlug:   1,
		},
		{
			Name:         string(jobcore.PlatformLever),
			Platform:     jobcore.PlatformLever,
			HostSuffixes: []string{"lever.co"},
			Ceiling:      0.95,
			Specificity:  SpecificityATS,
			Selectors: jobcore.FieldSelectors{
				Title:       []string{".posting-headline h2", "h2"},
				Location:    []string{".posting-categories .location", ".sort-by-location"},
				Description: []string{"[data-qa='job-description']", ".section-wrapper.page-full-width"},
				Salary:      []string{"[data-qa='salary-range']"},
			},
			Fingerprints: []string{".posting-headline"},
			CompanySlug:  1,
		},
		{
			Name:         string(jobcore.PlatformWorkday),
			Platform:     jobcore.PlatformWorkday,
			HostSuffixes: []string{"myworkdayjobs.com", "myworkdaysite.com"},
			Ceiling:      0.9,
			Specificity:  SpecificityATS,
			Selectors: jobcore.FieldSelectors{
				Title:       []string{`[data-automation-id="jobPostingHeader"]`},
				Location:    []string{`[data-automation-id="locations"] dd`, `[data-automation-id="locations"]`},
				Description: []string{`[data-automation-id="jobPostingDescription"]`},
				PostedAt:    []string{`[data-automation-id="postedOn"] dd`, `[data-automation-id="postedOn"]`},
			},
			Fingerprints:  []string{`[data-automation-id="jobPostingHeader"]`},
			TitleSuffixes: []string{" - Workday"},
			SubdomainSlug: true,
		},
		{
			Name:         string(jobcore.PlatformSmartRecruiters),
			Platform:     jobcore.PlatformSmartRecruiters,
			HostSuffixes: []string{"smartrecruiters.com"},
			Ceiling:      0.9,
			Specificity:  SpecificityATS,
			Selectors: jobcore.FieldSelectors{
				Title:       []string{"h1.job-title", "h1"},
				Company:     []string{"[itemprop='hiringOrganization'] [itemprop='name']"},
				Location:    []string{".job-detail-location", "[itemprop='jobLocation']"},
				Description: []string{".job-sections", "[itemprop='description']"},
				PostedAt:    []string{"[itemprop='datePosted']"},
			},
			Fingerprints: []string{".job-sections"},
			CompanySlug:  1,
		},
		{
			Name:         string(jobcore.PlatformAshby),
			Platform:     jobcore.PlatformAshby,
			HostSuffixes: []string{"ashbyhq.com"},
			Ceiling:      0.9,
			Specificity:  SpecificityATS,
			Selectors: jobcore.FieldSelectors{
				Title:       []string{"[class*='ashby-job-posting-heading']", "h1"},
				Location:    []string{"[class*='ashby-job-posting-location']"},
				Description: []string{"[class*='ashby-job-posting-description']", "#overview"},
			},
			Fingerprints: []string{"[class*='ashby-job-posting']"},
			CompanySlug:  1,
		},
		{
			Name:         string(jobcore.PlatformLinkedIn),
			Platform:     jobcore.PlatformLinkedIn,
			HostSuffixes: []string{"linkedin.com"},
			PathContains: []string{"/jobs"},
			Ceiling:      0.85,
			Specificity:  SpecificityBoard,
			Selectors: jobcore.FieldSelectors{
				Title:       []string{".top-card-layout__title", "h1.topcard__title"},
				Company:     []string{".topcard__org-name-link", ".top-card-layout__second-subline a"},
				Location:    []string{".topcard__flavor--bullet"},
				Description: []string{".show-more-less-html__markup", ".description__text"},
				PostedAt:    []string{".posted-time-ago__text"},
				Salary:      []string{".salary.compensation__salary"},
			},
			Fingerprints:  []string{".top-card-layout"},
			TitleSuffixes: []string{" | LinkedIn"},
		},
		{
			Name:         string(jobcore.PlatformIndeed),
			Platform:     jobcore.PlatformIndeed,
			HostSuffixes: []string{"indeed.com", "indeed.co.uk", "indeed.ca", "indeed.de"},
			Ceiling:      0.85,
			Specificity:  SpecificityBoard,
			Selectors: jobcore.FieldSelectors{
				Title:       []string{".jobsearch-JobInfoHeader-title", "h1"},
				Company:     []string{"[data-company-name]", "[data-testid='inlineHeader-companyName']"},
				Location:    []string{"[data-testid='job-location']", "[data-testid='inlineHeader-companyLocation']"},
				Description: []string{"#jobDescriptionText"},
				Salary:      []string{"#salaryInfoAndJobType"},
				PostedAt:    []string{"[data-testid='myJobsStateDate']"},
			},
			Fingerprints:  []string{"#jobDescriptionText"},
			TitleSuffixes: []string{" - Indeed.com", " - job post"},
		},
		{
			Name:         string(jobcore.PlatformGlassdoor),
			Platform:     jobcore.PlatformGlassdoor,
			HostSuffixes: []string{"glassdoor.com", "glassdoor.co.uk", "glassdoor.ca"},
			Ceiling:      0.8,
			Specificity:  SpecificityBoard,
			Selectors: jobcore.FieldSelectors{
				Title:       []string{"[data-test='job-title']", "h1"},
				Company:     []string{"[data-test='employer-name']"},
				Location:    []string{"[data-test='location']"},
				Description: []string{".jobDescriptionContent", "[class*='JobDetails_jobDescription']"},
				Salary:      []string{"[data-test='detailSalary']"},
			},
			Fingerprints:  []string{"[data-test='job-title']"},
			TitleSuffixes: []string{" | Glassdoor"},
		},
		{
			Name:         "company-careers",
			Platform:     jobcore.PlatformCompany,
			HostPrefixes: []string{"careers.", "jobs."},
			Ceiling:      0.8,
			Specificity:  SpecificityCareers,
			Selectors:    careerSiteSelectors,
		},
		{
			Name:         "company-careers-path",
			Platform:     jobcore.PlatformCompany,
			PathContains: []string{"/careers", "/jobs"},
			Ceiling:      0.75,
			Specificity:  SpecificityPath,
			Selectors:    careerSiteSelectors,
		},
		GenericProfile(t),
	}
}

var careerSiteSelectors = jobcore.FieldSelectors{
	Title:       []string{"[itemprop='title']", "[class*='job-title']", "h1"},
	Company:     []string{"[itemprop='hiringOrganization']"},
	Location:    []string{"[itemprop='jobLocation']", "[class*='job-location']", "[class*='location']"},
	Description: []string{"[itemprop='description']", "[class*='job-description']", "article", "main"},
	PostedAt:    []string{"[itemprop='datePosted']", "time[datetime]"},
}

// GenericProfile accepts every URL with the generic confidence ceiling.
func GenericProfile(t jobcore.Thresholds) jobcore.SiteProfile {
	return jobcore.SiteProfile{
		Name:        GenericName,
		AcceptAll:   true,
		Ceiling:     t.GenericCeiling,
		Specificity: SpecificityGeneric,
		Selectors: jobcore.FieldSelectors{
			Title:       []string{"h1"},
			Description: []string{"article", "main", "body"},
		},
	}
}
