// Package storage abstracts file storage behind named disks. The local
// disk serves development; the s3 disk holds uploaded design images in
// production.
package storage

import (
	"context"
	"io"
)

// Disk stores and retrieves files by path.
type Disk interface {
	// Put writes the contents of r at path, overwriting any existing file.
	Put(ctx context.Context, path string, r io.Reader) error
	// Get opens the file at path. The caller closes the returned reader.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes the file at path. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error
	// Exists reports whether a file is present at path.
	Exists(ctx context.Context, path string) (bool, error)
	// URL returns a publicly addressable URL for path.
	URL(path string) string
}
