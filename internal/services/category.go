package services

import (
	"context"
	"fmt"
	"time"

	"eventconnect/internal/domain"
)

type categoryService struct {
	categories     domain.CategoryRepository
	contextTimeout time.Duration
}

func NewCategoryService(categories domain.CategoryRepository, timeout time.Duration) domain.CategoryService {
	return &categoryService{categories: categories, contextTimeout: timeout}
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
