package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/greenhill-dev/estates-api/internal/models"
)

// ProjectRepository handles project database operations
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	id, slug, name_ka, name_en, description_ka, description_en,
	address_ka, address_en, status, price_from, total_units, available_units,
	completion_date, image_url, is_active, sort_order, created_at, updated_at
`

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (
			id, slug, name_ka, name_en, description_ka, description_en,
			address_ka, address_en, status, price_from, total_units, available_units,
			completion_date, image_url, is_active, sort_order, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at, updated_at
	`

	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		project.ID,
		project.Slug,
		project.NameKA,
		project.NameEN,
		project.DescriptionKA,
		project.DescriptionEN,
		project.AddressKA,
		project.AddressEN,
		project.Status,
		project.PriceFrom,
		project.TotalUnits,
		project.AvailableUnits,
		project.CompletionDate,
		project.ImageURL,
		project.IsActive,
		project.SortOrder,
		now,
		now,
	).Scan(&project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `SELECT` + projectColumns + `FROM projects WHERE id = $1`

	project, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

// GetBySlug retrieves a project by its slug
func (r *ProjectRepository) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	query := `SELECT` + projectColumns + `FROM projects WHERE slug = $1`

	project, err := scanProject(r.db.QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

// List retrieves projects ordered by sort_order. When activeOnly is true only
// rows with is_active = true are returned.
func (r *ProjectRepository) List(ctx context.Context, activeOnly bool) ([]*models.Project, error) {
	query := `SELECT` + projectColumns + `FROM projects`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY sort_order ASC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []*models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}

// Update updates an existing project
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects
		SET slug = $2, name_ka = $3, name_en = $4, description_ka = $5, description_en = $6,
			address_ka = $7, address_en = $8, status = $9, price_from = $10,
			total_units = $11, available_units = $12, completion_date = $13,
			image_url = $14, is_active = $15, sort_order = $16, updated_at = $17
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		project.ID,
		project.Slug,
		project.NameKA,
		project.NameEN,
		project.DescriptionKA,
		project.DescriptionEN,
		project.AddressKA,
		project.AddressEN,
		project.Status,
		project.PriceFrom,
		project.TotalUnits,
		project.AvailableUnits,
		project.CompletionDate,
		project.ImageURL,
		project.IsActive,
		project.SortOrder,
		time.Now(),
	).Scan(&project.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("project not found: %w", err)
	}
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	return nil
}

// SetActive toggles a project's visibility flag
func (r *ProjectRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE projects SET is_active = $2, updated_at = $3 WHERE id = $1`,
		id, active, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to set project active: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("project not found: %w", sql.ErrNoRows)
	}

	return nil
}

// Reorder assigns sort_order by position in ids, within a single transaction.
func (r *ProjectRepository) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return reorderRows(ctx, r.db, "projects", ids)
}

// Delete removes a project by ID
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("project not found: %w", sql.ErrNoRows)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	project := &models.Project{}
	var completionDate sql.NullTime
	var priceFrom sql.NullFloat64
	var totalUnits, availableUnits sql.NullInt64
	var imageURL sql.NullString

	err := row.Scan(
		&project.ID,
		&project.Slug,
		&project.NameKA,
		&project.NameEN,
		&project.DescriptionKA,
		&project.DescriptionEN,
		&project.AddressKA,
		&project.AddressEN,
		&project.Status,
		&priceFrom,
		&totalUnits,
		&availableUnits,
		&completionDate,
		&imageURL,
		&project.IsActive,
		&project.SortOrder,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if priceFrom.Valid {
		project.PriceFrom = &priceFrom.Float64
	}
	if totalUnits.Valid {
		v := int(totalUnits.Int64)
		project.TotalUnits = &v
	}
	if availableUnits.Valid {
		v := int(availableUnits.Int64)
		project.AvailableUnits = &v
	}
	if completionDate.Valid {
		project.CompletionDate = &completionDate.Time
	}
	if imageURL.Valid {
		project.ImageURL = &imageURL.String
	}

	return project, nil
}

// reorderRows updates sort_order for the given table so that each id gets its
// index in the slice. All updates happen in one transaction.
func reorderRows(ctx context.Context, db *DB, table string, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`UPDATE %s SET sort_order = $1, updated_at = $2 WHERE id = $3`, table)
	now := time.Now()
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, query, i, now, id); err != nil {
			return fmt.Errorf("failed to reorder %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}

	return nil
}
