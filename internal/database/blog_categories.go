package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/greenhill-dev/estates-api/internal/models"
)

// BlogCategoryRepository handles blog category database operations
type BlogCategoryRepository struct {
	db *DB
}

// NewBlogCategoryRepository creates a new blog category repository
func NewBlogCategoryRepository(db *DB) *BlogCategoryRepository {
	return &BlogCategoryRepository{db: db}
}

// Create creates a new blog category
func (r *BlogCategoryRepository) Create(ctx context.Context, category *models.BlogCategory) error {
	query := `
		INSERT INTO blog_categories (id, slug, name_ka, name_en, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		category.ID,
		category.Slug,
		category.NameKA,
		category.NameEN,
		time.Now(),
	).Scan(&category.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create blog category: %w", err)
	}

	return nil
}

// GetByID retrieves a blog category by ID
func (r *BlogCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BlogCategory, error) {
	category := &models.BlogCategory{}

	err := r.db.QueryRowContext(ctx,
		`SELECT id, slug, name_ka, name_en, created_at FROM blog_categories WHERE id = $1`,
		id,
	).Scan(&category.ID, &category.Slug, &category.NameKA, &category.NameEN, &category.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("blog category not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog category: %w", err)
	}

	return category, nil
}

// List retrieves all blog categories ordered by English name
func (r *BlogCategoryRepository) List(ctx context.Context) ([]*models.BlogCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, slug, name_ka, name_en, created_at FROM blog_categories ORDER BY name_en ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list blog categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []*models.BlogCategory
	for rows.Next() {
		category := &models.BlogCategory{}
		if err := rows.Scan(&category.ID, &category.Slug, &category.NameKA, &category.NameEN, &category.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan blog category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blog categories: %w", err)
	}

	return categories, nil
}

// Update updates an existing blog category
func (r *BlogCategoryRepository) Update(ctx context.Context, category *models.BlogCategory) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE blog_categories SET slug = $2, name_ka = $3, name_en = $4 WHERE id = $1`,
		category.ID, category.Slug, category.NameKA, category.NameEN,
	)
	if err != nil {
		return fmt.Errorf("failed to update blog category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("blog category not found: %w", sql.ErrNoRows)
	}

	return nil
}

// Delete removes a blog category. Posts in the category keep existing with a
// NULL category (the foreign key is ON DELETE SET NULL).
func (r *BlogCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blog_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete blog category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("blog category not found: %w", sql.ErrNoRows)
	}

	return nil
}
