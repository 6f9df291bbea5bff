package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/greenhill-dev/estates-api/internal/models"
)

// ApartmentRepository handles apartment database operations
type ApartmentRepository struct {
	db *DB
}

// NewApartmentRepository creates a new apartment repository
func NewApartmentRepository(db *DB) *ApartmentRepository {
	return &ApartmentRepository{db: db}
}

const apartmentColumns = `
	id, project_id, title_ka, title_en, rooms, bedrooms, bathrooms, floor,
	area, living_area, balcony_area, room_areas, price, status,
	image_url, floor_plan_url, is_active, sort_order, created_at, updated_at
`

// Create creates a new apartment
func (r *ApartmentRepository) Create(ctx context.Context, apartment *models.Apartment) error {
	query := `
		INSERT INTO apartments (
			id, project_id, title_ka, title_en, rooms, bedrooms, bathrooms, floor,
			area, living_area, balcony_area, room_areas, price, status,
			image_url, floor_plan_url, is_active, sort_order, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING created_at, updated_at
	`

	if apartment.ID == uuid.Nil {
		apartment.ID = uuid.New()
	}

	roomAreasJSON, err := json.Marshal(apartment.RoomAreas)
	if err != nil {
		return fmt.Errorf("failed to marshal room areas: %w", err)
	}

	now := time.Now()
	err = r.db.QueryRowContext(ctx, query,
		apartment.ID,
		apartment.ProjectID,
		apartment.TitleKA,
		apartment.TitleEN,
		apartment.Rooms,
		apartment.Bedrooms,
		apartment.Bathrooms,
		apartment.Floor,
		apartment.Area,
		apartment.LivingArea,
		apartment.BalconyArea,
		roomAreasJSON,
		apartment.Price,
		apartment.Status,
		apartment.ImageURL,
		apartment.FloorPlanURL,
		apartment.IsActive,
		apartment.SortOrder,
		now,
		now,
	).Scan(&apartment.CreatedAt, &apartment.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create apartment: %w", err)
	}

	return nil
}

// GetByID retrieves an apartment by ID
func (r *ApartmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Apartment, error) {
	query := `SELECT` + apartmentColumns + `FROM apartments WHERE id = $1`

	apartment, err := scanApartment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("apartment not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get apartment: %w", err)
	}

	return apartment, nil
}

// ListByProject retrieves apartments for a project ordered by sort_order.
// When activeOnly is true only rows with is_active = true are returned.
func (r *ApartmentRepository) ListByProject(ctx context.Context, projectID uuid.UUID, activeOnly bool) ([]*models.Apartment, error) {
	query := `SELECT` + apartmentColumns + `FROM apartments WHERE project_id = $1`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY sort_order ASC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list apartments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var apartments []*models.Apartment
	for rows.Next() {
		apartment, err := scanApartment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan apartment: %w", err)
		}
		apartments = append(apartments, apartment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate apartments: %w", err)
	}

	return apartments, nil
}

// Update updates an existing apartment
func (r *ApartmentRepository) Update(ctx context.Context, apartment *models.Apartment) error {
	query := `
		UPDATE apartments
		SET project_id = $2, title_ka = $3, title_en = $4, rooms = $5, bedrooms = $6,
			bathrooms = $7, floor = $8, area = $9, living_area = $10, balcony_area = $11,
			room_areas = $12, price = $13, status = $14, image_url = $15,
			floor_plan_url = $16, is_active = $17, sort_order = $18, updated_at = $19
		WHERE id = $1
		RETURNING updated_at
	`

	roomAreasJSON, err := json.Marshal(apartment.RoomAreas)
	if err != nil {
		return fmt.Errorf("failed to marshal room areas: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query,
		apartment.ID,
		apartment.ProjectID,
		apartment.TitleKA,
		apartment.TitleEN,
		apartment.Rooms,
		apartment.Bedrooms,
		apartment.Bathrooms,
		apartment.Floor,
		apartment.Area,
		apartment.LivingArea,
		apartment.BalconyArea,
		roomAreasJSON,
		apartment.Price,
		apartment.Status,
		apartment.ImageURL,
		apartment.FloorPlanURL,
		apartment.IsActive,
		apartment.SortOrder,
		time.Now(),
	).Scan(&apartment.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("apartment not found: %w", err)
	}
	if err != nil {
		return fmt.Errorf("failed to update apartment: %w", err)
	}

	return nil
}

// SetActive toggles an apartment's visibility flag
func (r *ApartmentRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE apartments SET is_active = $2, updated_at = $3 WHERE id = $1`,
		id, active, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to set apartment active: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("apartment not found: %w", sql.ErrNoRows)
	}

	return nil
}

// Reorder assigns sort_order by position in ids
func (r *ApartmentRepository) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return reorderRows(ctx, r.db, "apartments", ids)
}

// Delete removes an apartment by ID
func (r *ApartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM apartments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete apartment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("apartment not found: %w", sql.ErrNoRows)
	}

	return nil
}

func scanApartment(row rowScanner) (*models.Apartment, error) {
	apartment := &models.Apartment{}
	var roomAreasJSON []byte
	var rooms, bedrooms, bathrooms, floor sql.NullInt64
	var area, livingArea, balconyArea, price sql.NullFloat64
	var imageURL, floorPlanURL sql.NullString

	err := row.Scan(
		&apartment.ID,
		&apartment.ProjectID,
		&apartment.TitleKA,
		&apartment.TitleEN,
		&rooms,
		&bedrooms,
		&bathrooms,
		&floor,
		&area,
		&livingArea,
		&balconyArea,
		&roomAreasJSON,
		&price,
		&apartment.Status,
		&imageURL,
		&floorPlanURL,
		&apartment.IsActive,
		&apartment.SortOrder,
		&apartment.CreatedAt,
		&apartment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(roomAreasJSON) > 0 {
		if err := json.Unmarshal(roomAreasJSON, &apartment.RoomAreas); err != nil {
			return nil, fmt.Errorf("failed to unmarshal room areas: %w", err)
		}
	}

	if rooms.Valid {
		v := int(rooms.Int64)
		apartment.Rooms = &v
	}
	if bedrooms.Valid {
		v := int(bedrooms.Int64)
		apartment.Bedrooms = &v
	}
	if bathrooms.Valid {
		v := int(bathrooms.Int64)
		apartment.Bathrooms = &v
	}
	if floor.Valid {
		v := int(floor.Int64)
		apartment.Floor = &v
	}
	if area.Valid {
		apartment.Area = &area.Float64
	}
	if livingArea.Valid {
		apartment.LivingArea = &livingArea.Float64
	}
	if balconyArea.Valid {
		apartment.BalconyArea = &balconyArea.Float64
	}
	if price.Valid {
		apartment.Price = &price.Float64
	}
	if imageURL.Valid {
		apartment.ImageURL = &imageURL.String
	}
	if floorPlanURL.Valid {
		apartment.FloorPlanURL = &floorPlanURL.String
	}

	return apartment, nil
}
