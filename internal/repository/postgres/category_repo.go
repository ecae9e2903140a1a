package postgres

import (
	"context"
	"database/sql"

	"eventconnect/internal/domain"

	"github.com/lib/pq"
)

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepository(db *sql.DB) domain.CategoryRepository {
	return &categoryRepository{DB: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	return r.query(ctx, `SELECT id, name FROM categories ORDER BY id`)
}

func (r *categoryRepository) FindAllByIDs(ctx context.Context, ids []int64) ([]*domain.Category, error) {
	if len(ids) == 0 {
		return []*domain.Category{}, nil
	}
	return r.query(ctx, `SELECT id, name FROM categories WHERE id = ANY($1) ORDER BY id`, pq.Array(ids))
}

func (r *categoryRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Category, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		c := &domain.Category{}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
