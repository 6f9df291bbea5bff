package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/greenhill-dev/estates-api/internal/models"
)

// BannerRepository handles banner database operations
type BannerRepository struct {
	db *DB
}

// NewBannerRepository creates a new banner repository
func NewBannerRepository(db *DB) *BannerRepository {
	return &BannerRepository{db: db}
}

// Create creates a new banner
func (r *BannerRepository) Create(ctx context.Context, banner *models.Banner) error {
	query := `
		INSERT INTO banners (id, image_url, link_url, title_ka, title_en, is_active, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	if banner.ID == uuid.Nil {
		banner.ID = uuid.New()
	}

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		banner.ID,
		banner.ImageURL,
		banner.LinkURL,
		banner.TitleKA,
		banner.TitleEN,
		banner.IsActive,
		banner.SortOrder,
		now,
		now,
	).Scan(&banner.CreatedAt, &banner.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create banner: %w", err)
	}

	return nil
}

// GetByID retrieves a banner by ID
func (r *BannerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	query := `
		SELECT id, image_url, link_url, title_ka, title_en, is_active, sort_order, created_at, updated_at
		FROM banners
		WHERE id = $1
	`

	banner, err := scanBanner(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("banner not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get banner: %w", err)
	}

	return banner, nil
}

// List retrieves banners ordered by sort_order. When activeOnly is true only
// visible banners are returned.
func (r *BannerRepository) List(ctx context.Context, activeOnly bool) ([]*models.Banner, error) {
	query := `
		SELECT id, image_url, link_url, title_ka, title_en, is_active, sort_order, created_at, updated_at
		FROM banners
	`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY sort_order ASC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var banners []*models.Banner
	for rows.Next() {
		banner, err := scanBanner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan banner: %w", err)
		}
		banners = append(banners, banner)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate banners: %w", err)
	}

	return banners, nil
}

// Update updates an existing banner
func (r *BannerRepository) Update(ctx context.Context, banner *models.Banner) error {
	query := `
		UPDATE banners
		SET image_url = $2, link_url = $3, title_ka = $4, title_en = $5,
			is_active = $6, sort_order = $7, updated_at = $8
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		banner.ID,
		banner.ImageURL,
		banner.LinkURL,
		banner.TitleKA,
		banner.TitleEN,
		banner.IsActive,
		banner.SortOrder,
		time.Now(),
	).Scan(&banner.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("banner not found: %w", err)
	}
	if err != nil {
		return fmt.Errorf("failed to update banner: %w", err)
	}

	return nil
}

// SetActive toggles a banner's visibility flag
func (r *BannerRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE banners SET is_active = $2, updated_at = $3 WHERE id = $1`,
		id, active, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to set banner active: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("banner not found: %w", sql.ErrNoRows)
	}

	return nil
}

// Reorder assigns sort_order by position in ids
func (r *BannerRepository) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return reorderRows(ctx, r.db, "banners", ids)
}

// Delete removes a banner by ID
func (r *BannerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM banners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete banner: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("banner not found: %w", sql.ErrNoRows)
	}

	return nil
}

func scanBanner(row rowScanner) (*models.Banner, error) {
	banner := &models.Banner{}
	var linkURL sql.NullString

	err := row.Scan(
		&banner.ID,
		&banner.ImageURL,
		&linkURL,
		&banner.TitleKA,
		&banner.TitleEN,
		&banner.IsActive,
		&banner.SortOrder,
		&banner.CreatedAt,
		&banner.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if linkURL.Valid {
		banner.LinkURL = &linkURL.String
	}

	return banner, nil
}
