package blob

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("blob not found")

// Store keeps opaque byte blobs under string keys.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Name() string
}
