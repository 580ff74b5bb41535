package fs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomecat/tomecat"
	"github.com/tomecat/tomecat/fs"
)

func TestBlobStore_SaveAndRead(t *testing.T) {
	t.Parallel()

	store := fs.NewBlobStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.SaveAsset(ctx, "book-1", []byte("pdf bytes")))

	got, err := store.AssetBytes(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), got)
}

func TestBlobStore_Replace(t *testing.T) {
	t.Parallel()

	store := fs.NewBlobStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.SaveAsset(ctx, "book-1", []byte("v1")))
	require.NoError(t, store.SaveAsset(ctx, "book-1", []byte("v2")))

	got, err := store.AssetBytes(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestBlobStore_Missing(t *testing.T) {
	t.Parallel()

	store := fs.NewBlobStore(t.TempDir())

	_, err := store.AssetBytes(context.Background(), "nope")
	assert.Equal(t, tomecat.ENOTFOUND, tomecat.ErrorCode(err))
}

func TestBlobStore_Delete(t *testing.T) {
	t.Parallel()

	store := fs.NewBlobStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.SaveAsset(ctx, "book-1", []byte("x")))
	require.NoError(t, store.DeleteAsset(ctx, "book-1"))

	_, err := store.AssetBytes(ctx, "book-1")
	assert.Equal(t, tomecat.ENOTFOUND, tomecat.ErrorCode(err))

	// Deleting again is not an error.
	assert.NoError(t, store.DeleteAsset(ctx, "book-1"))
}

func TestBlobStore_OpaqueIDs(t *testing.T) {
	t.Parallel()

	store := fs.NewBlobStore(t.TempDir())
	ctx := context.Background()

	// Ids that would be hostile as file paths must still round-trip.
	id := "../weird/https://example.com/a?b=c"
	require.NoError(t, store.SaveAsset(ctx, id, []byte("ok")))

	got, err := store.AssetBytes(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), got)
}
