// Package storage persists avatar blobs on the local filesystem.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// DiskStore implements domain.AvatarStore on a local directory. Files are
// written under dir and served by the HTTP layer at publicPrefix, so the
// returned URLs are relative paths under that prefix.
type DiskStore struct {
	dir          string
	publicPrefix string
}

// NewDiskStore creates the upload directory if needed and returns a store.
func NewDiskStore(dir, publicPrefix string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, publicPrefix: publicPrefix}, nil
}

func (s *DiskStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	// Uploads are named by the caller; Base guards against path traversal.
	filename = filepath.Base(filename)

	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write avatar file: %w", err)
	}
	return path.Join(s.publicPrefix, filename), nil
}
