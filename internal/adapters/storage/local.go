package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"eventconnect/internal/domain"
)

// LocalBackend stores blobs as files in a single directory.
type LocalBackend struct {
	root string
}

// NewLocalBackend creates root (and parents) if needed and returns a backend writing into it.
func NewLocalBackend(root string) (*LocalBackend, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalBackend{root: abs}, nil
}

func (b *LocalBackend) Location(name string) string {
	return filepath.Join(b.root, name)
}

func (b *LocalBackend) Put(_ context.Context, name string, content io.Reader, _ int64, _ string) error {
	f, err := os.Create(b.Location(name))
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return err
	}
	return f.Close()
}

func (b *LocalBackend) Delete(_ context.Context, name string) error {
	err := os.Remove(b.Location(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (b *LocalBackend) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(b.Location(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("image %q: %w", name, domain.ErrNotFound)
	}
	return f, err
}
