package models

import (
	"time"

	"github.com/google/uuid"
)

// ApartmentStatus represents the sales state of an apartment
type ApartmentStatus string

const (
	ApartmentStatusAvailable ApartmentStatus = "available"
	ApartmentStatusReserved  ApartmentStatus = "reserved"
	ApartmentStatusSold      ApartmentStatus = "sold"
)

// Apartment represents a unit inside a project. RoomAreas holds the per-room
// square-meter breakdown in display order; it is stored as a JSON array.
type Apartment struct {
	ID           uuid.UUID       `json:"id"`
	ProjectID    uuid.UUID       `json:"project_id"`
	TitleKA      string          `json:"title_ka,omitempty"`
	TitleEN      string          `json:"title_en,omitempty"`
	Rooms        *int            `json:"rooms,omitempty"`
	Bedrooms     *int            `json:"bedrooms,omitempty"`
	Bathrooms    *int            `json:"bathrooms,omitempty"`
	Floor        *int            `json:"floor,omitempty"`
	Area         *float64        `json:"area,omitempty"`
	LivingArea   *float64        `json:"living_area,omitempty"`
	BalconyArea  *float64        `json:"balcony_area,omitempty"`
	RoomAreas    []float64       `json:"room_areas,omitempty"`
	Price        *float64        `json:"price,omitempty"`
	Status       ApartmentStatus `json:"status"`
	ImageURL     *string         `json:"image_url,omitempty"`
	FloorPlanURL *string         `json:"floor_plan_url,omitempty"`
	IsActive     bool            `json:"is_active"`
	SortOrder    int             `json:"sort_order"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
