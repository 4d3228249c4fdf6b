package category

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"storefront-admin/internal/domain"
	"storefront-admin/internal/repository/document"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT id, title, slug, created_at
FROM categories
ORDER BY title ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Upsert keys categories by id; an existing slug owned by another id is a conflict.
func (r *postgresRepo) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if c.ID == "" {
		c.ID = "category-" + c.Slug
	}
	const q = `
INSERT INTO categories (id, title, slug)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE
SET title = EXCLUDED.title,
    slug = COALESCE(NULLIF(EXCLUDED.slug, ''), categories.slug)
RETURNING id, title, slug, created_at
`
	var out domain.Category
	err := r.pool.QueryRow(ctx, q, c.ID, c.Title, c.Slug).Scan(&out.ID, &out.Title, &out.Slug, &out.CreatedAt)
	if err != nil {
		if document.IsUniqueViolation(err) {
			return nil, fmt.Errorf("category slug %s: %w", c.Slug, domain.ErrAlreadyExists)
		}
		return nil, err
	}
	return &out, nil
}
