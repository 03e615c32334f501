package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/jobcore"
	"github.com/fwojciec/jobcore/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts section headings", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<h2>Responsibilities</h2><h3>Nice to have</h3>`)

		require.NoError(t, err)
		assert.Contains(t, md, "## Responsibilities")
		assert.Contains(t, md, "### Nice to have")
	})

	t.Run("converts unordered lists", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<ul><li>Build services</li><li>Review designs</li></ul>`)

		require.NoError(t, err)
		assert.Contains(t, md, "- Build services")
		assert.Contains(t, md, "- Review designs")
	})

	t.Run("converts ordered lists", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<ol><li>Apply</li><li>Interview</li></ol>`)

		require.NoError(t, err)
		assert.Contains(t, md, "1. Apply")
		assert.Contains(t, md, "2. Interview")
	})

	t.Run("keeps bold labels", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p><strong>Location:</strong> Berlin</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "**Location:**")
		assert.Contains(t, md, "Berlin")
	})

	t.Run("removes markdown escapes", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p>5+ years of C++ and 401(k) matching - fully remote.</p><p>2024. A year of growth.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "5+ years of C++ and 401(k) matching - fully remote.")
		assert.Contains(t, md, "2024. A year of growth.")
		assert.NotContains(t, md, `\`)
	})

	t.Run("converts compensation tables", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<thead><tr><th>Level</th><th>Base salary</th></tr></thead>
<tbody><tr><td>Senior</td><td>$150,000</td></tr></tbody>
</table>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "Base salary")
		assert.Contains(t, md, "$150,000")
		assert.Contains(t, md, "|")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("")

		require.Error(t, err)
		assert.Equal(t, jobcore.EINVALID, jobcore.ErrorCode(err))
	})
}
