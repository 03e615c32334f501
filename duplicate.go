package jobcore

// ContentHashBundle holds content digests of a normalized record.
// Identical normalized input always yields identical hashes.
type ContentHashBundle struct {
	Full        string `json:"fullHash"`
	Title       string `json:"titleHash"`
	Company     string `json:"companyHash"`
	Location    string `json:"locationHash"`
	Description string `json:"descriptionHash"`
	Combined    string `json:"combinedHash"`
}

// Action is the recommended handling of a checked record.
type Action string

// Action constants.
const (
	ActionCreateNew      Action = "create_new"
	ActionUpdateExisting Action = "update_existing"
	ActionUserConfirm    Action = "user_confirm"
)

// DetectionMethod names the rule that produced a verdict or group.
type DetectionMethod string

// DetectionMethod constants.
const (
	DetectExactHash     DetectionMethod = "exact_hash"
	DetectPartialHash   DetectionMethod = "partial_hash"
	DetectFuzzy         DetectionMethod = "fuzzy"
	DetectTitleCompany  DetectionMethod = "title_company"
	DetectExactURL      DetectionMethod = "exact_url"
	DetectVolatileURL   DetectionMethod = "volatile_url"
	DetectJobID         DetectionMethod = "platform_job_id"
	DetectCrossPlatform DetectionMethod = "cross_platform"
	DetectNone          DetectionMethod = "none"
)

// DuplicateVerdict is the outcome of checking a record against candidates.
type DuplicateVerdict struct {
	IsDuplicate bool            `json:"isDuplicate"`
	Similar     bool            `json:"similar"`
	MatchedID   string          `json:"matchedId,omitempty"`
	Score       float64         `json:"score"`
	Factors     []string        `json:"factors,omitempty"`
	Action      Action          `json:"action"`
	Method      DetectionMethod `json:"method"`
}

// DuplicateGroup is a set of records judged to be the same posting.
type DuplicateGroup struct {
	Records    []JobRecord     `json:"records"`
	Primary    JobRecord       `json:"primary"`
	Method     DetectionMethod `json:"method"`
	Confidence float64         `json:"confidence"`
}

// DuplicateDetector decides whether records describe the same posting.
// Candidate sets are bounded and supplied by the caller.
type DuplicateDetector interface {
	// Hash returns the content hash bundle of r.
	Hash(r JobRecord) ContentHashBundle

	// Check compares r against candidates.
	Check(r JobRecord, candidates []JobRecord) DuplicateVerdict

	// Cluster groups records that describe the same posting.
	Cluster(records []JobRecord) []DuplicateGroup

	// SelectPrimary returns the index of the preferred record, or -1 when empty.
	SelectPrimary(records []JobRecord) int
}
