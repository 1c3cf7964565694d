package storage

import (
	"context"
)

// ObjectStore defines the interface for object storage operations.
// Used by the seed tooling to archive a batch before a destructive reseed.
type ObjectStore interface {
	// Put writes an object under key with the given content type.
	Put(ctx context.Context, key string, contentType string, body []byte) error

	// Delete removes an object.
	Delete(ctx context.Context, key string) error
}
