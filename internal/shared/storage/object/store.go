package object

import (
	"context"
	"io"
)

// Store defines the contract for saving and retrieving binary objects at a
// caller-chosen key. Used to archive raw upstream cause-list payloads.
type Store interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
