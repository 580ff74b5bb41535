package htmltomarkdown_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomecat/tomecat"
	"github.com/tomecat/tomecat/htmltomarkdown"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts headings and paragraphs", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<h1>Night Walks</h1><p>An essay about <em>walking</em> at night.</p>`)
		require.NoError(t, err)
		assert.Contains(t, md, "# Night Walks")
		assert.Contains(t, md, "*walking*")
	})

	t.Run("converts links", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p>See <a href="https://example.com/notes">the notes</a>.</p>`)
		require.NoError(t, err)
		assert.Contains(t, md, "[the notes](https://example.com/notes)")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<table><tr><th>Name</th></tr><tr><td>Atlas</td></tr></table>`)
		require.NoError(t, err)
		assert.Contains(t, md, "| Name |")
		assert.Contains(t, md, "| Atlas |")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.Convert("   ")
		assert.Equal(t, tomecat.EINVALID, tomecat.ErrorCode(err))
	})
}
