// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when no object exists under the requested key.
var ErrNotFound = errors.New("object not found")

// ErrAlreadyExists is returned when Put would overwrite an existing key.
// Overwrite is refused so a reused id can never clobber differently-typed content.
var ErrAlreadyExists = errors.New("object already exists")

// ObjectInfo describes a stored object without its content.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Object is a stored object's content plus its metadata. The caller must
// close Body when done.
type Object struct {
	Info ObjectInfo
	Body io.ReadCloser
}

// Storage is the interface for storing and retrieving objects in a single
// logical bucket.
type Storage interface {
	// Put streams data to the store under the given key. Fails with
	// ErrAlreadyExists if the key is taken.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Get returns the object stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (*Object, error)
	// List returns up to limit objects whose keys start with prefix,
	// newest-first by creation time. An empty prefix lists everything.
	List(ctx context.Context, prefix string, limit int) ([]ObjectInfo, error)
	// Delete removes the object identified by key, or fails with ErrNotFound
	// if it is already absent.
	Delete(ctx context.Context, key string) error
	// PublicURL constructs the browser-accessible URL for a given key
	// without a storage round-trip.
	PublicURL(key string) string
}
