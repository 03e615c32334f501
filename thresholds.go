package jobcore

// Thresholds holds every tunable cut-off used by the registry, segmenter,
// normalizer and duplicate detector.
type Thresholds struct {
	// Registry: a record is low-confidence while any field is below its minimum.
	TitleMin             float64 `yaml:"titleMin"`
	CompanyMin           float64 `yaml:"companyMin"`
	LocationMin          float64 `yaml:"locationMin"`
	DescriptionMinLength int     `yaml:"descriptionMinLength"`

	// MaterialOverride is the margin a later strategy needs to override an
	// earlier one inside a parser.
	MaterialOverride float64 `yaml:"materialOverride"`

	// LearnedMin is the lowest stored confidence a learned pattern may have
	// to be applied.
	LearnedMin float64 `yaml:"learnedMin"`

	GenericCeiling     float64 `yaml:"genericCeiling"`
	SentinelConfidence float64 `yaml:"sentinelConfidence"`

	// Duplicate detection.
	ExactMatch             float64 `yaml:"exactMatch"`
	FuzzyDuplicate         float64 `yaml:"fuzzyDuplicate"`
	FuzzySimilar           float64 `yaml:"fuzzySimilar"`
	StableURLConfidence    float64 `yaml:"stableUrlConfidence"`
	CrossPlatformCompany   float64 `yaml:"crossPlatformCompany"`
	CrossPlatformTitle     float64 `yaml:"crossPlatformTitle"`
	DescriptionPrefix      int     `yaml:"descriptionPrefix"`
	TitleCompanyConfidence float64 `yaml:"titleCompanyConfidence"`

	// Company normalization.
	TitleSimilarityBoost  float64 `yaml:"titleSimilarityBoost"`
	MaxLearnedConfidence  float64 `yaml:"maxLearnedConfidence"`
	UnmatchedCompanyScale float64 `yaml:"unmatchedCompanyScale"`

	// Segmentation.
	HeaderScore        int     `yaml:"headerScore"`
	MinBulletLength    int     `yaml:"minBulletLength"`
	MinParagraphLength int     `yaml:"minParagraphLength"`
	FidelityLow        float64 `yaml:"fidelityLow"`
	FidelityHigh       float64 `yaml:"fidelityHigh"`
}

// DefaultThresholds returns the standard cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TitleMin:             0.85,
		CompanyMin:           0.80,
		LocationMin:          0.75,
		DescriptionMinLength: 140,
		MaterialOverride:     0.1,
		LearnedMin:           0.7,
		GenericCeiling:       0.3,
		SentinelConfidence:   0.05,

		ExactMatch:             0.95,
		FuzzyDuplicate:         0.85,
		FuzzySimilar:           0.70,
		StableURLConfidence:    0.9,
		CrossPlatformCompany:   0.9,
		CrossPlatformTitle:     0.6,
		DescriptionPrefix:      500,
		TitleCompanyConfidence: 0.95,

		TitleSimilarityBoost:  0.7,
		MaxLearnedConfidence:  0.95,
		UnmatchedCompanyScale: 0.7,

		HeaderScore:        3,
		MinBulletLength:    10,
		MinParagraphLength: 50,
		FidelityLow:        0.6,
		FidelityHigh:       0.9,
	}
}

// Validate returns EINVALID when a value is out of range.
func (t Thresholds) Validate() error {
	unit := map[string]float64{
		"titleMin":               t.TitleMin,
		"companyMin":             t.CompanyMin,
		"locationMin":            t.LocationMin,
		"materialOverride":       t.MaterialOverride,
		"learnedMin":             t.LearnedMin,
		"genericCeiling":         t.GenericCeiling,
		"sentinelConfidence":     t.SentinelConfidence,
		"exactMatch":             t.ExactMatch,
		"fuzzyDuplicate":         t.FuzzyDuplicate,
		"fuzzySimilar":           t.FuzzySimilar,
		"stableUrlConfidence":    t.StableURLConfidence,
		"crossPlatformCompany":   t.CrossPlatformCompany,
		"crossPlatformTitle":     t.CrossPlatformTitle,
		"titleCompanyConfidence": t.TitleCompanyConfidence,
		"titleSimilarityBoost":   t.TitleSimilarityBoost,
		"maxLearnedConfidence":   t.MaxLearnedConfidence,
		"unmatchedCompanyScale":  t.UnmatchedCompanyScale,
		"fidelityLow":            t.FidelityLow,
		"fidelityHigh":           t.FidelityHigh,
	}
	for name, v := range unit {
		if v < 0 || v > 1 {
			return Errorf(EINVALID, "threshold %s must be in [0,1], got %v", name, v)
		}
	}
	if t.FuzzySimilar > t.FuzzyDuplicate || t.FuzzyDuplicate > t.ExactMatch {
		return Errorf(EINVALID, "fuzzy thresholds must satisfy similar <= duplicate <= exact")
	}
	if t.FidelityLow > t.FidelityHigh {
		return Errorf(EINVALID, "fidelity band is empty")
	}
	if t.DescriptionMinLength < 0 || t.DescriptionPrefix <= 0 || t.HeaderScore <= 0 ||
		t.MinBulletLength < 0 || t.MinParagraphLength < 0 {
		return Errorf(EINVALID, "length thresholds must not be negative")
	}
	return nil
}
