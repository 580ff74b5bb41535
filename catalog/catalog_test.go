package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomecat/tomecat"
	"github.com/tomecat/tomecat/catalog"
	"github.com/tomecat/tomecat/fs"
	"github.com/tomecat/tomecat/sqlite"
)

func newCatalog(t *testing.T) (*catalog.Catalog, *fs.BlobStore) {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })

	blobs := fs.NewBlobStore(t.TempDir())
	return catalog.New(sqlite.NewKV(db), blobs), blobs
}

func TestCatalog_UpsertItem(t *testing.T) {
	t.Parallel()

	t.Run("creates item with generated ID and defaults", func(t *testing.T) {
		t.Parallel()

		cat, _ := newCatalog(t)
		item := &tomecat.Item{Title: "Field Manual", Kind: tomecat.KindDocument}

		require.NoError(t, cat.UpsertItem(context.Background(), item))
		require.NotEmpty(t, item.ID)
		assert.Equal(t, tomecat.CategoryUnlisted, item.Category)
		assert.False(t, item.CreatedAt.IsZero())

		got, err := cat.FindItemByID(context.Background(), item.ID)
		require.NoError(t, err)
		assert.Equal(t, "Field Manual", got.Title)
	})

	t.Run("replaces existing item and keeps creation time", func(t *testing.T) {
		t.Parallel()

		cat, _ := newCatalog(t)
		item := &tomecat.Item{Title: "First", Kind: tomecat.KindDocument}
		require.NoError(t, cat.UpsertItem(context.Background(), item))
		created := item.CreatedAt

		item.Title = "Second"
		require.NoError(t, cat.UpsertItem(context.Background(), item))

		got, err := cat.FindItemByID(context.Background(), item.ID)
		require.NoError(t, err)
		assert.Equal(t, "Second", got.Title)
		assert.Equal(t, created.Unix(), got.CreatedAt.Unix())
	})

	t.Run("rejects invalid items", func(t *testing.T) {
		t.Parallel()

		cat, _ := newCatalog(t)
		err := cat.UpsertItem(context.Background(), &tomecat.Item{Kind: tomecat.KindDocument})
		assert.Equal(t, tomecat.EINVALID, tomecat.ErrorCode(err))
	})
}

func TestCatalog_FindItems(t *testing.T) {
	t.Parallel()

	cat, _ := newCatalog(t)
	ctx := context.Background()

	require.NoError(t, cat.UpsertItem(ctx, &tomecat.Item{Title: "Zebra", Kind: tomecat.KindDocument, Category: "Reference"}))
	require.NoError(t, cat.UpsertItem(ctx, &tomecat.Item{Title: "Aardvark", Kind: tomecat.KindComic}))
	require.NoError(t, cat.UpsertItem(ctx, &tomecat.Item{Title: "Meerkat", Kind: tomecat.KindDocument}))

	t.Run("sorted by title", func(t *testing.T) {
		items, err := cat.FindItems(ctx, tomecat.ItemFilter{})
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "Aardvark", items[0].Title)
		assert.Equal(t, "Meerkat", items[1].Title)
		assert.Equal(t, "Zebra", items[2].Title)
	})

	t.Run("filter by kind", func(t *testing.T) {
		kind := tomecat.KindComic
		items, err := cat.FindItems(ctx, tomecat.ItemFilter{Kind: &kind})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Aardvark", items[0].Title)
	})

	t.Run("filter by category", func(t *testing.T) {
		category := "Reference"
		items, err := cat.FindItems(ctx, tomecat.ItemFilter{Category: &category})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Zebra", items[0].Title)
	})

	t.Run("offset and limit", func(t *testing.T) {
		items, err := cat.FindItems(ctx, tomecat.ItemFilter{Offset: 1, Limit: 1})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Meerkat", items[0].Title)
	})
}

func TestCatalog_DeleteItem(t *testing.T) {
	t.Parallel()

	t.Run("removes item and stored content", func(t *testing.T) {
		t.Parallel()

		cat, blobs := newCatalog(t)
		ctx := context.Background()

		require.NoError(t, blobs.SaveAsset(ctx, "ref-1", []byte("bytes")))
		item := &tomecat.Item{Title: "Doomed", Kind: tomecat.KindDocument, ContentRef: "ref-1", Downloaded: true}
		require.NoError(t, cat.UpsertItem(ctx, item))

		require.NoError(t, cat.DeleteItem(ctx, item.ID))

		_, err := cat.FindItemByID(ctx, item.ID)
		assert.Equal(t, tomecat.ENOTFOUND, tomecat.ErrorCode(err))

		_, err = blobs.AssetBytes(ctx, "ref-1")
		assert.Equal(t, tomecat.ENOTFOUND, tomecat.ErrorCode(err))
	})

	t.Run("missing item returns ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		cat, _ := newCatalog(t)
		err := cat.DeleteItem(context.Background(), "nope")
		assert.Equal(t, tomecat.ENOTFOUND, tomecat.ErrorCode(err))
	})
}

func TestCatalog_Subscribe(t *testing.T) {
	t.Parallel()

	t.Run("listeners observe post-mutation state", func(t *testing.T) {
		t.Parallel()

		cat, _ := newCatalog(t)
		ctx := context.Background()

		var seen []tomecat.Change
		unsubscribe := cat.Subscribe(func(change tomecat.Change) {
			// The mutation must be visible to the listener.
			if change.Op == tomecat.ChangeItemUpserted {
				_, err := cat.FindItemByID(ctx, change.ItemID)
				assert.NoError(t, err)
			}
			seen = append(seen, change)
		})
		defer unsubscribe()

		item := &tomecat.Item{Title: "Observed", Kind: tomecat.KindDocument}
		require.NoError(t, cat.UpsertItem(ctx, item))
		require.NoError(t, cat.DeleteItem(ctx, item.ID))

		require.Len(t, seen, 2)
		assert.Equal(t, tomecat.ChangeItemUpserted, seen[0].Op)
		assert.Equal(t, tomecat.ChangeItemDeleted, seen[1].Op)
	})

	t.Run("unsubscribe stops notifications", func(t *testing.T) {
		t.Parallel()

		cat, _ := newCatalog(t)
		ctx := context.Background()

		var calls int
		unsubscribe := cat.Subscribe(func(tomecat.Change) { calls++ })

		require.NoError(t, cat.UpsertItem(ctx, &tomecat.Item{Title: "One", Kind: tomecat.KindDocument}))
		unsubscribe()
		require.NoError(t, cat.UpsertItem(ctx, &tomecat.Item{Title: "Two", Kind: tomecat.KindDocument}))

		assert.Equal(t, 1, calls)
	})
}
