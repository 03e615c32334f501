package segment_test

import (
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/jobcore"
	"github.com/fwojciec/jobcore/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const posting = `Acme Robotics
Senior Backend Engineer
Location: Berlin, Germany
Job Type: Full Time
We use cookies to improve your experience.

## About the Role
We are looking for a backend engineer to build the services behind our warehouse robots. You will work closely with hardware teams.

**Responsibilities**
- Design and build reliable Go services for fleet telemetry
- Own the deployment pipeline and on-call rotation
    - Mentor junior engineers on the team
- Ok

QUALIFICATIONS:
- 5+ years of experience building distributed systems
- Experience: Go, Kubernetes and PostgreSQL

Benefits
- Salary: $120,000 - $150,000 per year
- 30 days of paid time off

About Us
Acme Robotics was founded in 2015 and builds autonomous warehouse robots for logistics companies.

Equal Opportunity
Acme is an equal opportunity employer and values diversity of race, religion and disability status.

© 2025 Acme Robotics. All rights reserved.`

func newSegmenter() *segment.Segmenter {
	return segment.NewSegmenter(jobcore.DefaultThresholds())
}

func types(doc jobcore.HierarchicalDocument) []jobcore.SectionType {
	out := make([]jobcore.SectionType, len(doc.Sections))
	for i, s := range doc.Sections {
		out[i] = s.Type
	}
	return out
}

func TestSegmenter_Segment(t *testing.T) {
	t.Parallel()

	t.Run("classifies a structured posting", func(t *testing.T) {
		t.Parallel()

		doc := newSegmenter().Segment(posting)

		assert.Equal(t, []jobcore.SectionType{
			jobcore.SectionMetadata,
			jobcore.SectionRoleOverview,
			jobcore.SectionResponsibilities,
			jobcore.SectionQualifications,
			jobcore.SectionCompensation,
			jobcore.SectionCompanyInfo,
			jobcore.SectionLegal,
		}, types(doc))
		assert.Equal(t, segment.ImplicitSectionTitle, doc.Sections[0].Title)
		assert.Equal(t, "About the Role", doc.Sections[1].Title)
		assert.Equal(t, "QUALIFICATIONS", doc.Sections[3].Title)
		for _, s := range doc.Sections {
			assert.Greater(t, s.Confidence, 0.0)
			assert.LessOrEqual(t, s.Confidence, 1.0)
		}
	})

	t.Run("strips boilerplate lines", func(t *testing.T) {
		t.Parallel()

		doc := newSegmenter().Segment(posting)

		for _, s := range doc.Sections {
			assert.NotContains(t, s.Content, "cookies")
			assert.NotContains(t, s.Content, "All rights reserved")
		}
	})

	t.Run("extracts bullets with levels and labels", func(t *testing.T) {
		t.Parallel()

		doc := newSegmenter().Segment(posting)

		resp := doc.SectionsOf(jobcore.SectionResponsibilities)
		require.Len(t, resp, 1)
		require.Len(t, resp[0].Bullets, 3, "short items are dropped")
		assert.Equal(t, "Design and build reliable Go services for fleet telemetry", resp[0].Bullets[0].Description)
		assert.Equal(t, 0, resp[0].Bullets[0].Level)
		assert.Equal(t, 1, resp[0].Bullets[2].Level)

		qual := doc.SectionsOf(jobcore.SectionQualifications)
		require.Len(t, qual, 1)
		require.Len(t, qual[0].Bullets, 2)
		assert.Equal(t, "Experience", qual[0].Bullets[1].Label)
		assert.Equal(t, "Go, Kubernetes and PostgreSQL", qual[0].Bullets[1].Description)
		assert.Greater(t, qual[0].Bullets[1].Confidence, qual[0].Bullets[0].Confidence)
	})

	t.Run("extracts metadata from the metadata section and full text", func(t *testing.T) {
		t.Parallel()

		doc := newSegmenter().Segment(posting)

		require.NotNil(t, doc.Metadata.Location)
		assert.Equal(t, "Berlin, Germany", *doc.Metadata.Location)
		require.NotNil(t, doc.Metadata.JobType)
		assert.Equal(t, "full-time", *doc.Metadata.JobType)
		require.NotNil(t, doc.Metadata.Salary)
		assert.Equal(t, "$120,000 - $150,000 per year", *doc.Metadata.Salary)
		require.NotNil(t, doc.Metadata.ExperienceLevel)
		assert.Equal(t, "senior", *doc.Metadata.ExperienceLevel)
		assert.Nil(t, doc.Metadata.Date)
		assert.Nil(t, doc.Metadata.RequisitionID)
	})

	t.Run("scores a well structured posting highly", func(t *testing.T) {
		t.Parallel()

		q := newSegmenter().Segment(posting).Quality

		assert.Equal(t, 1.0, q.SectionCompleteness)
		assert.Equal(t, 1.0, q.HierarchicalConsistency)
		assert.Greater(t, q.BulletQuality, 0.0)
		assert.Greater(t, q.ContentFidelity, 0.5)
		assert.Greater(t, q.Overall, 0.5)
		assert.LessOrEqual(t, q.Overall, 1.0)
	})

	t.Run("returns one unknown section for text without headers", func(t *testing.T) {
		t.Parallel()

		raw := "just some text without any structure at all, it keeps going with lowercase sentences.\n" +
			"another line of plain prose that is long enough to count as a paragraph of text."

		doc := newSegmenter().Segment(raw)

		require.Len(t, doc.Sections, 1)
		assert.Equal(t, jobcore.SectionUnknown, doc.Sections[0].Type)
		assert.Contains(t, doc.Sections[0].Content, "another line of plain prose")
		assert.Less(t, doc.Quality.Overall, 0.5)
	})

	t.Run("never fails on empty or garbage input", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"", "   \n\n\t", "©©©", strings.Repeat("-", 500), "::::\n####\n**"} {
			doc := newSegmenter().Segment(raw)

			require.Len(t, doc.Sections, 1, "%q", raw)
			assert.Equal(t, jobcore.SectionUnknown, doc.Sections[0].Type)
			assert.Less(t, doc.Quality.Overall, 0.5)
		}
	})

	t.Run("reorders sections canonically and penalizes the source order", func(t *testing.T) {
		t.Parallel()

		raw := "Benefits\n- Generous equity and health insurance for everyone\n" +
			"Responsibilities\n- Build and maintain the billing platform services\n" +
			"Perks\n- A yearly budget for conferences and books"

		doc := newSegmenter().Segment(raw)

		assert.Equal(t, []jobcore.SectionType{
			jobcore.SectionResponsibilities,
			jobcore.SectionCompensation,
			jobcore.SectionCompensation,
		}, types(doc))
		assert.Equal(t, "Benefits", doc.Sections[1].Title, "ties keep source order")
		assert.Equal(t, "Perks", doc.Sections[2].Title)
		assert.InDelta(t, 0.5, doc.Quality.HierarchicalConsistency, 1e-9)
	})

	t.Run("puts text before the first header in an implicit overview", func(t *testing.T) {
		t.Parallel()

		raw := "We are looking for a product designer who enjoys working on developer tools.\n" +
			"What You'll Do:\n- Shape the design system used across every product surface"

		doc := newSegmenter().Segment(raw)

		require.Len(t, doc.Sections, 2)
		assert.Equal(t, segment.ImplicitSectionTitle, doc.Sections[0].Title)
		assert.Equal(t, jobcore.SectionRoleOverview, doc.Sections[0].Type)
		assert.Equal(t, jobcore.SectionResponsibilities, doc.Sections[1].Type)
		assert.Equal(t, "What You'll Do", doc.Sections[1].Title)
	})

	t.Run("reads labelled metadata fields", func(t *testing.T) {
		t.Parallel()

		raw := "Job Details\n" +
			"Job Title: Data Engineer\n" +
			"Company: Globex\n" +
			"Date Posted: 2024-03-15\n" +
			"Req ID: R-10234\n" +
			"Department: Analytics\n" +
			"Industry: Logistics\n" +
			"Experience Level: Mid-Level\n"

		md := newSegmenter().Segment(raw).Metadata

		require.NotNil(t, md.Title)
		assert.Equal(t, "Data Engineer", *md.Title)
		require.NotNil(t, md.Company)
		assert.Equal(t, "Globex", *md.Company)
		require.NotNil(t, md.Date)
		assert.True(t, md.Date.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)), md.Date.String())
		require.NotNil(t, md.RequisitionID)
		assert.Equal(t, "R-10234", *md.RequisitionID)
		require.NotNil(t, md.Department)
		assert.Equal(t, "Analytics", *md.Department)
		require.NotNil(t, md.Industry)
		assert.Equal(t, "Logistics", *md.Industry)
		require.NotNil(t, md.ExperienceLevel)
		assert.Equal(t, "mid-level", *md.ExperienceLevel)
		assert.Nil(t, md.Location)
	})
}
