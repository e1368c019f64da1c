// Package storage provides the disks catalog exports are written to.
//
// Two drivers exist:
//   - "local": a directory on the local filesystem (default)
//   - "s3":    S3-compatible object storage (AWS S3, MinIO, R2)
//
// Usage:
//
//	m, err := storage.New(storage.FromEnv())
//	disk, err := m.Disk("")           // default disk
//	err = disk.Put(ctx, "exports/catalog.json", r)
//	url := disk.URL("exports/catalog.json")
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by Get for a missing path.
var ErrNotExist = errors.New("storage: file does not exist")

// Disk is implemented by every storage driver. Paths always use forward
// slashes and are relative to the disk root.
type Disk interface {
	// Put writes everything from r to path, replacing any existing file.
	Put(ctx context.Context, path string, r io.Reader) error

	// Get returns the full content of path.
	Get(ctx context.Context, path string) ([]byte, error)

	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes path. A missing path is not an error.
	Delete(ctx context.Context, path string) error

	// Files lists the files directly inside directory, sorted.
	Files(ctx context.Context, directory string) ([]string, error)

	// URL returns the public URL for path.
	URL(path string) string
}
