package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/greenhill-dev/estates-api/internal/models"
)

// BlogPostRepository handles blog post database operations
type BlogPostRepository struct {
	db *DB
}

// NewBlogPostRepository creates a new blog post repository
func NewBlogPostRepository(db *DB) *BlogPostRepository {
	return &BlogPostRepository{db: db}
}

const blogPostColumns = `
	id, slug, category_id, title_ka, title_en, excerpt_ka, excerpt_en,
	content_ka, content_en, meta_title_ka, meta_title_en,
	meta_description_ka, meta_description_en, focus_keyword,
	seo_score, read_time, image_url, is_active, created_at, updated_at
`

// Create creates a new blog post
func (r *BlogPostRepository) Create(ctx context.Context, post *models.BlogPost) error {
	query := `
		INSERT INTO blog_posts (
			id, slug, category_id, title_ka, title_en, excerpt_ka, excerpt_en,
			content_ka, content_en, meta_title_ka, meta_title_en,
			meta_description_ka, meta_description_en, focus_keyword,
			seo_score, read_time, image_url, is_active, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING created_at, updated_at
	`

	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		post.ID,
		post.Slug,
		post.CategoryID,
		post.TitleKA,
		post.TitleEN,
		post.ExcerptKA,
		post.ExcerptEN,
		post.ContentKA,
		post.ContentEN,
		post.MetaTitleKA,
		post.MetaTitleEN,
		post.MetaDescriptionKA,
		post.MetaDescriptionEN,
		post.FocusKeyword,
		post.SeoScore,
		post.ReadTime,
		post.ImageURL,
		post.IsActive,
		now,
		now,
	).Scan(&post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create blog post: %w", err)
	}

	return nil
}

// GetByID retrieves a blog post by ID
func (r *BlogPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	query := `SELECT` + blogPostColumns + `FROM blog_posts WHERE id = $1`

	post, err := scanBlogPost(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("blog post not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog post: %w", err)
	}

	return post, nil
}

// GetBySlug retrieves a blog post by its slug
func (r *BlogPostRepository) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	query := `SELECT` + blogPostColumns + `FROM blog_posts WHERE slug = $1`

	post, err := scanBlogPost(r.db.QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("blog post not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog post: %w", err)
	}

	return post, nil
}

// List retrieves blog posts newest first, optionally filtered by category.
// When activeOnly is true only published posts are returned.
func (r *BlogPostRepository) List(ctx context.Context, categoryID *uuid.UUID, activeOnly bool) ([]*models.BlogPost, error) {
	query := `SELECT` + blogPostColumns + `FROM blog_posts WHERE 1=1`
	args := []any{}
	argIndex := 1

	if categoryID != nil {
		query += fmt.Sprintf(" AND category_id = $%d", argIndex)
		args = append(args, *categoryID)
		argIndex++
	}
	if activeOnly {
		query += " AND is_active = true"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var posts []*models.BlogPost
	for rows.Next() {
		post, err := scanBlogPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blog posts: %w", err)
	}

	return posts, nil
}

// Update updates an existing blog post
func (r *BlogPostRepository) Update(ctx context.Context, post *models.BlogPost) error {
	query := `
		UPDATE blog_posts
		SET slug = $2, category_id = $3, title_ka = $4, title_en = $5,
			excerpt_ka = $6, excerpt_en = $7, content_ka = $8, content_en = $9,
			meta_title_ka = $10, meta_title_en = $11,
			meta_description_ka = $12, meta_description_en = $13,
			focus_keyword = $14, seo_score = $15, read_time = $16,
			image_url = $17, is_active = $18, updated_at = $19
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		post.ID,
		post.Slug,
		post.CategoryID,
		post.TitleKA,
		post.TitleEN,
		post.ExcerptKA,
		post.ExcerptEN,
		post.ContentKA,
		post.ContentEN,
		post.MetaTitleKA,
		post.MetaTitleEN,
		post.MetaDescriptionKA,
		post.MetaDescriptionEN,
		post.FocusKeyword,
		post.SeoScore,
		post.ReadTime,
		post.ImageURL,
		post.IsActive,
		time.Now(),
	).Scan(&post.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("blog post not found: %w", err)
	}
	if err != nil {
		return fmt.Errorf("failed to update blog post: %w", err)
	}

	return nil
}

// UpdateScore persists the derived SEO score and read time for a post.
// Used by the rescore worker so a full Update is not needed.
func (r *BlogPostRepository) UpdateScore(ctx context.Context, id uuid.UUID, seoScore, readTime int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE blog_posts SET seo_score = $2, read_time = $3, updated_at = $4 WHERE id = $1`,
		id, seoScore, readTime, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update blog post score: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("blog post not found: %w", sql.ErrNoRows)
	}

	return nil
}

// SetActive toggles a blog post's published flag
func (r *BlogPostRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE blog_posts SET is_active = $2, updated_at = $3 WHERE id = $1`,
		id, active, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to set blog post active: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("blog post not found: %w", sql.ErrNoRows)
	}

	return nil
}

// Delete removes a blog post by ID
func (r *BlogPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete blog post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("blog post not found: %w", sql.ErrNoRows)
	}

	return nil
}

func scanBlogPost(row rowScanner) (*models.BlogPost, error) {
	post := &models.BlogPost{}
	var categoryID uuid.NullUUID
	var seoScore, readTime sql.NullInt64
	var imageURL sql.NullString

	err := row.Scan(
		&post.ID,
		&post.Slug,
		&categoryID,
		&post.TitleKA,
		&post.TitleEN,
		&post.ExcerptKA,
		&post.ExcerptEN,
		&post.ContentKA,
		&post.ContentEN,
		&post.MetaTitleKA,
		&post.MetaTitleEN,
		&post.MetaDescriptionKA,
		&post.MetaDescriptionEN,
		&post.FocusKeyword,
		&seoScore,
		&readTime,
		&imageURL,
		&post.IsActive,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		post.CategoryID = &categoryID.UUID
	}
	if seoScore.Valid {
		v := int(seoScore.Int64)
		post.SeoScore = &v
	}
	if readTime.Valid {
		v := int(readTime.Int64)
		post.ReadTime = &v
	}
	if imageURL.Valid {
		post.ImageURL = &imageURL.String
	}

	return post, nil
}
