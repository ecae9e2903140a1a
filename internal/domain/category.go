package domain

import "context"

// Category represents a named category that events can be tagged with.
// swagger:model Category
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategorySummary is the nested category shape inside event views.
type CategorySummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryRepository defines the interface for category storage
type CategoryRepository interface {
	List(ctx context.Context) ([]*Category, error)
	// FindAllByIDs returns the categories matching ids. Unknown ids are silently skipped.
	FindAllByIDs(ctx context.Context, ids []int64) ([]*Category, error)
}

// CategoryService lists categories.
type CategoryService interface {
	List(ctx context.Context) ([]*Category, error)
}
