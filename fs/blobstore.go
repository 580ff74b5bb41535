// Package fs provides file-based blob storage.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tomecat/tomecat"
)

// Ensure BlobStore implements tomecat.BlobStore at compile time.
var _ tomecat.BlobStore = (*BlobStore)(nil)

// BlobStore stores assets as files under a base directory. Writes go to a
// temporary file first and are renamed into place, so a crash mid-write
// never leaves a truncated asset behind.
type BlobStore struct {
	baseDir string
}

// NewBlobStore creates a BlobStore rooted at baseDir.
func NewBlobStore(baseDir string) *BlobStore {
	return &BlobStore{baseDir: baseDir}
}

// assetPath maps an opaque id to a file path. Ids are hashed so callers can
// use arbitrary strings (URLs, composite keys) without path traversal risk.
func (s *BlobStore) assetPath(id string) string {
	sum := sha256.Sum256([]byte(id))
	name := hex.EncodeToString(sum[:])
	// Shard into subdirectories to keep directory listings small.
	return filepath.Join(s.baseDir, name[:2], name)
}

// SaveAsset durably stores data under id, replacing any prior asset.
func (s *BlobStore) SaveAsset(ctx context.Context, id string, data []byte) error {
	path := s.assetPath(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// AssetBytes returns the stored asset, or ENOTFOUND if absent.
func (s *BlobStore) AssetBytes(ctx context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(s.assetPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, tomecat.Errorf(tomecat.ENOTFOUND, "asset %q not found", id)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// DeleteAsset removes the asset. Deleting a missing id is not an error.
func (s *BlobStore) DeleteAsset(ctx context.Context, id string) error {
	err := os.Remove(s.assetPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
