package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/category"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/database"
	"blog-backend/pkg/logger"
)

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) category.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

func (r *postgresRepository) Create(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id, date_created
	`
	err := r.pool.QueryRow(ctx, query, c.Name, c.Description).Scan(&c.ID, &c.DateCreated)
	if err != nil {
		if database.IsUniqueViolation(err, "categories_name_key") {
			return category.ErrCategoryNameExists
		}
		return fmt.Errorf("insert category: %w", err)
	}
	r.invalidate(ctx)
	return nil
}

func (r *postgresRepository) get(ctx context.Context, where string, arg interface{}) (*category.Category, error) {
	query := `
		SELECT c.id, c.name, c.description, c.date_created,
		       (SELECT COUNT(*) FROM posts p WHERE p.category_id = c.id AND p.status = 'published')
		FROM categories c
		WHERE ` + where
	var c category.Category
	err := r.pool.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Description, &c.DateCreated, &c.PostCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	return r.get(ctx, "c.id = $1", id)
}

func (r *postgresRepository) GetByName(ctx context.Context, name string) (*category.Category, error) {
	return r.get(ctx, "LOWER(c.name) = LOWER($1)", name)
}

// ListWithCounts is cache-aside on category.ListCacheKey
func (r *postgresRepository) ListWithCounts(ctx context.Context) ([]category.Category, error) {
	var cached []category.Category
	if found, err := r.cache.Get(ctx, category.ListCacheKey, &cached); err == nil && found {
		return cached, nil
	}

	query := `
		SELECT c.id, c.name, c.description, c.date_created,
		       COUNT(p.id) FILTER (WHERE p.status = 'published') AS post_count
		FROM categories c
		LEFT JOIN posts p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	list := make([]category.Category, 0)
	for rows.Next() {
		var c category.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.DateCreated, &c.PostCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	if err := r.cache.Set(ctx, category.ListCacheKey, list, category.ListCacheTTL); err != nil {
		logger.Warn("[CATEGORY] Failed to cache list", map[string]interface{}{"error": err.Error()})
	}
	return list, nil
}

func (r *postgresRepository) Update(ctx context.Context, c *category.Category) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET name = $2, description = $3 WHERE id = $1`,
		c.ID, c.Name, c.Description,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "categories_name_key") {
			return category.ErrCategoryNameExists
		}
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return category.ErrCategoryNotFound
	}
	r.invalidate(ctx)
	return nil
}

// Delete relies on posts.category_id ON DELETE SET NULL
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return category.ErrCategoryNotFound
	}
	r.invalidate(ctx)
	return nil
}

func (r *postgresRepository) invalidate(ctx context.Context) {
	if err := r.cache.Delete(ctx, category.ListCacheKey); err != nil {
		logger.Warn("[CATEGORY] Failed to invalidate list cache", map[string]interface{}{"error": err.Error()})
	}
}
