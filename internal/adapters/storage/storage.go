package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"eventconnect/internal/domain"

	"github.com/google/uuid"
)

// DefaultMaxSize is the upload limit used when none is configured (5 MiB).
const DefaultMaxSize int64 = 5 * 1024 * 1024

var (
	DefaultAllowedExtensions = []string{"png", "jpg", "jpeg", "webp"}
	DefaultAllowedMIMETypes  = []string{"image/png", "image/jpeg", "image/jpg", "image/webp"}
)

// Backend persists named blobs. Put overwrites an existing blob with the same name.
// Delete of a missing blob is not an error. Open of a missing blob returns domain.ErrNotFound.
type Backend interface {
	Put(ctx context.Context, name string, content io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, name string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Location(name string) string
}

// Config holds the upload validation rules.
type Config struct {
	MaxSize           int64
	AllowedExtensions []string
	AllowedMIMETypes  []string
}

// FileStorage validates uploaded images and stores them through a Backend under generated names.
type FileStorage struct {
	backend    Backend
	maxSize    int64
	extensions map[string]struct{}
	mimeTypes  map[string]struct{}
	logger     *slog.Logger
	newName    func() string
}

var _ domain.ImageStorage = (*FileStorage)(nil)

// NewFileStorage returns a FileStorage writing to backend. Zero-valued config fields take the defaults.
func NewFileStorage(backend Backend, cfg Config, logger *slog.Logger) *FileStorage {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	if len(cfg.AllowedExtensions) == 0 {
		cfg.AllowedExtensions = DefaultAllowedExtensions
	}
	if len(cfg.AllowedMIMETypes) == 0 {
		cfg.AllowedMIMETypes = DefaultAllowedMIMETypes
	}
	return &FileStorage{
		backend:    backend,
		maxSize:    cfg.MaxSize,
		extensions: toSet(cfg.AllowedExtensions),
		mimeTypes:  toSet(cfg.AllowedMIMETypes),
		logger:     logger,
		newName:    uuid.NewString,
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	return set
}

// SaveImage rejects empty content, then checks size, then MIME type, then extension, and stores content under
// a random UUID name carrying the validated extension.
func (s *FileStorage) SaveImage(ctx context.Context, content io.Reader, mimeType, originalName string, size int64) (string, error) {
	if size <= 0 {
		return "", domain.ErrEmptyFile
	}
	if size > s.maxSize {
		return "", fmt.Errorf("%w: %s exceeds the maximum of %s", domain.ErrFileTooLarge, formatFileSize(size), formatFileSize(s.maxSize))
	}
	if _, ok := s.mimeTypes[strings.ToLower(strings.TrimSpace(mimeType))]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedMediaType, mimeType)
	}
	ext, err := s.extension(originalName)
	if err != nil {
		return "", err
	}

	name := s.newName() + "." + ext
	if err := s.backend.Put(ctx, name, content, size, ContentTypeFor(name)); err != nil {
		return "", fmt.Errorf("%w: failed to store file: %v", domain.ErrInvalidFile, err)
	}
	s.logger.DebugContext(ctx, "image stored", "name", name, "size", size)
	return name, nil
}

func (s *FileStorage) extension(originalName string) (string, error) {
	dot := strings.LastIndex(originalName, ".")
	if dot < 0 {
		return "", domain.ErrMissingExtension
	}
	ext := strings.ToLower(originalName[dot+1:])
	if _, ok := s.extensions[ext]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidExtension, ext)
	}
	return ext, nil
}

// DeleteImage removes name from the backend. Failures are logged only.
func (s *FileStorage) DeleteImage(ctx context.Context, name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	if err := validName(name); err != nil {
		s.logger.WarnContext(ctx, "refusing to delete image", "name", name, "err", err)
		return
	}
	if err := s.backend.Delete(ctx, name); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.ErrorContext(ctx, "failed to delete image", "name", name, "err", err)
	}
}

// ResolvePath returns the backend location of name. It does not check that the asset exists.
func (s *FileStorage) ResolvePath(name string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	return s.backend.Location(name), nil
}

// Open returns a reader over the stored asset.
func (s *FileStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	return s.backend.Open(ctx, name)
}

// validName accepts only a single, non-special path element.
func validName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: file name is blank", domain.ErrInvalidFile)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%w: invalid file name %q", domain.ErrInvalidFile, name)
	}
	return nil
}

// ContentTypeFor derives the served content type from the file extension.
func ContentTypeFor(name string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

func formatFileSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
}
