package jobcore_test

import (
	"testing"

	"github.com/fwojciec/jobcore"
	"github.com/stretchr/testify/assert"
)

func TestCompanyKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "googleinc", jobcore.CompanyKey("Google, Inc."))
	assert.Equal(t, "attinc", jobcore.CompanyKey("AT&T Inc"))
	assert.Equal(t, "zürichversicherung", jobcore.CompanyKey("Zürich Versicherung"))
	assert.Empty(t, jobcore.CompanyKey(" -- "))
}

func TestCompanyVariation_Keys(t *testing.T) {
	t.Parallel()

	v := jobcore.CompanyVariation{
		Canonical:  "Google",
		Variations: []string{"google", "Google Inc", "GOOGLE INC.", ""},
	}

	assert.Equal(t, []string{"google", "googleinc"}, v.Keys())
}

func TestSectionType_Rank(t *testing.T) {
	t.Parallel()

	assert.Less(t, jobcore.SectionMetadata.Rank(), jobcore.SectionRoleOverview.Rank())
	assert.Less(t, jobcore.SectionApplication.Rank(), jobcore.SectionLegal.Rank())
	assert.Equal(t, jobcore.SectionUnknown.Rank(), jobcore.SectionType("bogus").Rank())
}
