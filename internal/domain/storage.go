package domain

import (
	"context"
	"io"
)

// ImageStorage validates, persists, resolves and deletes uploaded event images.
type ImageStorage interface {
	// SaveImage validates the upload and stores it under a generated name, which it returns.
	SaveImage(ctx context.Context, content io.Reader, mimeType, originalName string, size int64) (string, error)
	// DeleteImage removes the asset. Missing assets and I/O failures are not reported.
	DeleteImage(ctx context.Context, name string)
	// ResolvePath returns where name is stored without checking that it exists.
	ResolvePath(name string) (string, error)
	// Open returns the stored asset. A missing asset yields ErrNotFound.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
