package mock

import (
	"context"
	"time"

	"github.com/tomecat/tomecat"
)

var _ tomecat.KV = (*KV)(nil)

// KV is a mock implementation of tomecat.KV.
type KV struct {
	GetFn    func(ctx context.Context, key string) ([]byte, error)
	SetFn    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFn func(ctx context.Context, key string) error
	KeysFn   func(ctx context.Context, prefix string) ([]string, error)
}

func (s *KV) Get(ctx context.Context, key string) ([]byte, error) {
	return s.GetFn(ctx, key)
}

func (s *KV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.SetFn(ctx, key, value, ttl)
}

func (s *KV) Delete(ctx context.Context, key string) error {
	return s.DeleteFn(ctx, key)
}

func (s *KV) Keys(ctx context.Context, prefix string) ([]string, error) {
	return s.KeysFn(ctx, prefix)
}

var _ tomecat.BlobStore = (*BlobStore)(nil)

// BlobStore is a mock implementation of tomecat.BlobStore.
type BlobStore struct {
	SaveAssetFn   func(ctx context.Context, id string, data []byte) error
	AssetBytesFn  func(ctx context.Context, id string) ([]byte, error)
	DeleteAssetFn func(ctx context.Context, id string) error
}

func (s *BlobStore) SaveAsset(ctx context.Context, id string, data []byte) error {
	return s.SaveAssetFn(ctx, id, data)
}

func (s *BlobStore) AssetBytes(ctx context.Context, id string) ([]byte, error) {
	return s.AssetBytesFn(ctx, id)
}

func (s *BlobStore) DeleteAsset(ctx context.Context, id string) error {
	return s.DeleteAssetFn(ctx, id)
}
