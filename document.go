package jobcore

import "time"

// SectionType classifies a section of a posting.
type SectionType string

// SectionType constants in canonical order.
const (
	SectionMetadata         SectionType = "metadata"
	SectionRoleOverview     SectionType = "role-overview"
	SectionResponsibilities SectionType = "responsibilities"
	SectionQualifications   SectionType = "qualifications"
	SectionCompensation     SectionType = "compensation"
	SectionCompanyInfo      SectionType = "company-info"
	SectionApplication      SectionType = "application"
	SectionLegal            SectionType = "legal"
	SectionUnknown          SectionType = "unknown"
)

// SectionOrder is the canonical professional order of sections.
var SectionOrder = []SectionType{
	SectionMetadata,
	SectionRoleOverview,
	SectionResponsibilities,
	SectionQualifications,
	SectionCompensation,
	SectionCompanyInfo,
	SectionApplication,
	SectionLegal,
	SectionUnknown,
}

// Rank returns the position of t in SectionOrder.
func (t SectionType) Rank() int {
	for i, s := range SectionOrder {
		if s == t {
			return i
		}
	}
	return len(SectionOrder) - 1
}

// BulletPoint is a normalized list item within a section.
type BulletPoint struct {
	Label       string  `json:"label,omitempty"`
	Description string  `json:"description"`
	Level       int     `json:"level"`
	Confidence  float64 `json:"confidence"`
}

// Section is a typed block of a posting.
type Section struct {
	Type       SectionType   `json:"type"`
	Title      string        `json:"title"`
	Content    string        `json:"content"`
	Confidence float64       `json:"confidence"`
	Bullets    []BulletPoint `json:"bullets,omitempty"`
}

// DocumentMetadata holds fields found in a posting's text. Nil means absent.
type DocumentMetadata struct {
	Title           *string    `json:"title,omitempty"`
	Company         *string    `json:"company,omitempty"`
	Location        *string    `json:"location,omitempty"`
	Salary          *string    `json:"salary,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
	RequisitionID   *string    `json:"requisitionId,omitempty"`
	JobType         *string    `json:"jobType,omitempty"`
	ExperienceLevel *string    `json:"experienceLevel,omitempty"`
	Department      *string    `json:"department,omitempty"`
	Industry        *string    `json:"industry,omitempty"`
}

// StructureQualityMetrics scores how well a posting segmented. All values lie in [0,1].
type StructureQualityMetrics struct {
	SectionCompleteness     float64 `json:"sectionCompleteness"`
	BulletQuality           float64 `json:"bulletQuality"`
	HierarchicalConsistency float64 `json:"hierarchicalConsistency"`
	ContentFidelity         float64 `json:"contentFidelity"`
	Overall                 float64 `json:"overallStructureScore"`
}

// HierarchicalDocument is the segmented form of a posting.
type HierarchicalDocument struct {
	Sections []Section               `json:"sections"`
	Metadata DocumentMetadata        `json:"metadata"`
	Quality  StructureQualityMetrics `json:"quality"`
}

// SectionsOf returns the sections of type t in document order.
func (d HierarchicalDocument) SectionsOf(t SectionType) []Section {
	var out []Section
	for _, s := range d.Sections {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

// Segmenter turns raw posting text into typed sections. It never fails:
// text without structure yields a single unknown section with a low score.
type Segmenter interface {
	Segment(rawText string) HierarchicalDocument
}
