package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services and adapters. The HTTP layer maps them to status codes.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicate          = errors.New("resource already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("you are not allowed to perform this action")
	ErrInvalidInput       = errors.New("invalid input")
	ErrMalformedToken     = errors.New("malformed token")
	// ErrUniqueViolation is returned by repositories when a unique constraint rejects a write.
	// The wrapped message names the violated constraint.
	ErrUniqueViolation = errors.New("unique constraint violation")
)

// ErrInvalidFile is the parent of every upload validation or storage failure.
var ErrInvalidFile = errors.New("invalid file")

// Upload failures. Each one wraps ErrInvalidFile.
var (
	ErrEmptyFile            = fmt.Errorf("%w: file is empty", ErrInvalidFile)
	ErrFileTooLarge         = fmt.Errorf("%w: file is too large", ErrInvalidFile)
	ErrUnsupportedMediaType = fmt.Errorf("%w: unsupported media type", ErrInvalidFile)
	ErrMissingExtension     = fmt.Errorf("%w: invalid file name", ErrInvalidFile)
	ErrInvalidExtension     = fmt.Errorf("%w: extension not allowed", ErrInvalidFile)
)

// ResourceError describes a missing or duplicated resource by the field used to look it up.
// It unwraps to Kind (ErrNotFound or ErrDuplicate).
type ResourceError struct {
	Kind     error
	Resource string
	Field    string
	Value    any
}

// NewNotFound returns a ResourceError of kind ErrNotFound.
func NewNotFound(resource, field string, value any) error {
	return &ResourceError{Kind: ErrNotFound, Resource: resource, Field: field, Value: value}
}

// NewDuplicate returns a ResourceError of kind ErrDuplicate.
func NewDuplicate(resource, field string, value any) error {
	return &ResourceError{Kind: ErrDuplicate, Resource: resource, Field: field, Value: value}
}

func (e *ResourceError) Error() string {
	switch e.Kind {
	case ErrDuplicate:
		return fmt.Sprintf("%s already exists with %s: '%v'", e.Resource, e.Field, e.Value)
	case ErrNotFound:
		return fmt.Sprintf("%s not found with %s: '%v'", e.Resource, e.Field, e.Value)
	default:
		return fmt.Sprintf("%s (%s=%v): %v", e.Resource, e.Field, e.Value, e.Kind)
	}
}

func (e *ResourceError) Unwrap() error {
	return e.Kind
}
