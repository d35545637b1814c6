// Package storage persists uploaded media assets.
package storage

import (
	"context"
	"io"
)

// Object describes a stored asset.
type Object struct {
	// Key is the storage-relative name of the asset.
	Key string
	// URL is the public path the asset is served from.
	URL string
	// Size is the number of bytes written.
	Size int64
}

type Store interface {
	// Put writes the asset under a collision-free key derived from name.
	Put(ctx context.Context, name string, contentType string, r io.Reader) (*Object, error)
	// Open returns a reader for a previously stored asset.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
