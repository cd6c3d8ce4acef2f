// Package imagestore persists product image files. Two implementations
// exist: S3 for deployments and a local directory for development. The
// database stores only the object key returned by Put.
package imagestore

import (
	"context"
	"io"
)

// Store persists and retrieves image objects by key.
type Store interface {
	// Put writes the object and returns nil on success. The key is
	// chosen by the caller and must be unique.
	Put(ctx context.Context, key, contentType string, body io.Reader) error

	// Get reads the object's contents.
	Get(ctx context.Context, key string) ([]byte, string, error)
}
