package tomecat

import (
	"context"
	"time"
)

// KV is a durable key-value store used for catalog records, categories,
// and read history. Values are opaque bytes.
type KV interface {
	// Get returns the value for key, or ENOTFOUND if absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A non-zero ttl expires the entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all live keys with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// BlobStore persists binary assets keyed by opaque string ids.
type BlobStore interface {
	// SaveAsset durably stores data under id, replacing any prior asset.
	SaveAsset(ctx context.Context, id string, data []byte) error

	// AssetBytes returns the stored asset, or ENOTFOUND if absent.
	AssetBytes(ctx context.Context, id string) ([]byte, error)

	// DeleteAsset removes the asset. Deleting a missing id is not an error.
	DeleteAsset(ctx context.Context, id string) error
}
