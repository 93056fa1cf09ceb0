package storage

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned when a blob does not exist.
var ErrBlobNotFound = errors.New("blob not found")

// Blobs stores binary content under path-like keys.
// Keys are the media paths persisted in the database, so the same key must
// always address the same content regardless of backend.
type Blobs interface {
	// Write creates or overwrites the blob at key.
	Write(ctx context.Context, key string, data []byte) error
	// Read returns the blob content or ErrBlobNotFound.
	Read(ctx context.Context, key string) ([]byte, error)
	// Exists reports whether a blob is stored at key.
	Exists(ctx context.Context, key string) (bool, error)
	// Remove deletes the blob or returns ErrBlobNotFound when it is absent.
	Remove(ctx context.Context, key string) error
	// List returns every key under prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
