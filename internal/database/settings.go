package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/greenhill-dev/estates-api/internal/models"
)

// SettingRepository handles site setting database operations
type SettingRepository struct {
	db *DB
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// List retrieves all site settings ordered by key
func (r *SettingRepository) List(ctx context.Context) ([]*models.SiteSetting, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, key, value, label_ka, label_en, created_at, updated_at FROM site_settings ORDER BY key ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var settings []*models.SiteSetting
	for rows.Next() {
		setting := &models.SiteSetting{}
		if err := rows.Scan(
			&setting.ID, &setting.Key, &setting.Value,
			&setting.LabelKA, &setting.LabelEN,
			&setting.CreatedAt, &setting.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings = append(settings, setting)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settings: %w", err)
	}

	return settings, nil
}

// GetByKey retrieves a setting by its key
func (r *SettingRepository) GetByKey(ctx context.Context, key string) (*models.SiteSetting, error) {
	setting := &models.SiteSetting{}

	err := r.db.QueryRowContext(ctx,
		`SELECT id, key, value, label_ka, label_en, created_at, updated_at FROM site_settings WHERE key = $1`,
		key,
	).Scan(
		&setting.ID, &setting.Key, &setting.Value,
		&setting.LabelKA, &setting.LabelEN,
		&setting.CreatedAt, &setting.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("setting not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}

	return setting, nil
}

// Upsert inserts a setting or updates its value and labels when the key exists
func (r *SettingRepository) Upsert(ctx context.Context, setting *models.SiteSetting) error {
	query := `
		INSERT INTO site_settings (id, key, value, label_ka, label_en, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, label_ka = EXCLUDED.label_ka,
			label_en = EXCLUDED.label_en, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at
	`

	if setting.ID == uuid.Nil {
		setting.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		setting.ID,
		setting.Key,
		setting.Value,
		setting.LabelKA,
		setting.LabelEN,
		time.Now(),
	).Scan(&setting.ID, &setting.CreatedAt, &setting.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert setting: %w", err)
	}

	return nil
}

// Delete removes a setting by key
func (r *SettingRepository) Delete(ctx context.Context, key string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM site_settings WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete setting: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("setting not found: %w", sql.ErrNoRows)
	}

	return nil
}
