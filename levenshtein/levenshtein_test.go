package levenshtein_test

import (
	"testing"

	"github.com/fwojciec/jobcore/levenshtein"
	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	t.Parallel()

	t.Run("identical strings are fully similar", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 1.0, levenshtein.Similarity("backend engineer", "backend engineer"))
		assert.Equal(t, 1.0, levenshtein.Similarity("", ""))
	})

	t.Run("empty against non-empty is zero", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 0.0, levenshtein.Similarity("", "acme"))
	})

	t.Run("normalizes by the longer string", func(t *testing.T) {
		t.Parallel()

		// kitten -> sitting is 3 edits over 7 runes.
		assert.InDelta(t, 1-3.0/7.0, levenshtein.Similarity("kitten", "sitting"), 1e-9)
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		t.Parallel()

		assert.InDelta(t, 1-1.0/6.0, levenshtein.Similarity("zürich", "zurich"), 1e-9)
	})

	t.Run("never increases as edits accumulate", func(t *testing.T) {
		t.Parallel()

		base := "senior software engineer"
		variants := []string{
			"senior software engineer",
			"senior software enginee",
			"senior softwar enginee",
			"senio softwar enginee",
			"seni softwar engin",
		}
		prev := 1.0
		for _, v := range variants {
			s := levenshtein.Similarity(base, v)
			assert.LessOrEqual(t, s, prev)
			prev = s
		}
	})
}
