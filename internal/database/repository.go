package database

import "context"

// ImageRepository is a keyed store of encoded image bytes. Replace is atomic
// with respect to a concurrent Get of the same id: a reader observes either
// the previous bytes or the new bytes in full, never a partial write.
type ImageRepository interface {
	Put(ctx context.Context, data []byte) (string, error)
	Get(ctx context.Context, id string) ([]byte, error)
	Replace(ctx context.Context, id string, data []byte) (string, error)
	Delete(ctx context.Context, id string) error
}
