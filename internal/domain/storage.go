package domain

import "context"

// AvatarStore persists avatar image blobs. Save writes the blob under the
// given filename and returns the public URL clients can fetch it from.
// Filenames are unique per upload, so writes never need synchronization.
type AvatarStore interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
}
