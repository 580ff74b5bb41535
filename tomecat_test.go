package tomecat_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tomecat/tomecat"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := tomecat.Errorf(tomecat.ENOTFOUND, "item %q not found", "test")

	assert.Equal(t, tomecat.ENOTFOUND, tomecat.ErrorCode(err))
	assert.Equal(t, "item \"test\" not found", tomecat.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, tomecat.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, tomecat.EINTERNAL, tomecat.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, tomecat.ErrorMessage(nil))
}

func TestItem_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid item", func(t *testing.T) {
		t.Parallel()

		item := &tomecat.Item{Title: "Field Manual", Kind: tomecat.KindDocument}
		assert.NoError(t, item.Validate())
	})

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()

		item := &tomecat.Item{Kind: tomecat.KindDocument}
		assert.Equal(t, tomecat.EINVALID, tomecat.ErrorCode(item.Validate()))
	})

	t.Run("missing kind", func(t *testing.T) {
		t.Parallel()

		item := &tomecat.Item{Title: "Field Manual"}
		assert.Equal(t, tomecat.EINVALID, tomecat.ErrorCode(item.Validate()))
	})
}

func TestAcquisitionKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "item-1", tomecat.AcquisitionKey("item-1", ""))
	assert.Equal(t, "item-1/ch-2", tomecat.AcquisitionKey("item-1", "ch-2"))
}

func TestExtractedPage_Text(t *testing.T) {
	t.Parallel()

	page := &tomecat.ExtractedPage{Tokens: []tomecat.Token{
		{Text: "the"}, {Text: "quick"}, {Text: "fox"},
	}}
	assert.Equal(t, "the quick fox", page.Text())

	empty := &tomecat.ExtractedPage{}
	assert.Empty(t, empty.Text())
}
