package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus represents the construction stage of a residential project
type ProjectStatus string

const (
	ProjectStatusOngoing   ProjectStatus = "ongoing"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusUpcoming  ProjectStatus = "upcoming"
)

// Project represents a residential development project in the public catalog.
// Name, description and address carry parallel Georgian/English values.
type Project struct {
	ID             uuid.UUID     `json:"id"`
	Slug           string        `json:"slug"`
	NameKA         string        `json:"name_ka"`
	NameEN         string        `json:"name_en"`
	DescriptionKA  string        `json:"description_ka,omitempty"`
	DescriptionEN  string        `json:"description_en,omitempty"`
	AddressKA      string        `json:"address_ka,omitempty"`
	AddressEN      string        `json:"address_en,omitempty"`
	Status         ProjectStatus `json:"status"`
	PriceFrom      *float64      `json:"price_from,omitempty"`
	TotalUnits     *int          `json:"total_units,omitempty"`
	AvailableUnits *int          `json:"available_units,omitempty"`
	CompletionDate *time.Time    `json:"completion_date,omitempty"`
	ImageURL       *string       `json:"image_url,omitempty"`
	IsActive       bool          `json:"is_active"`
	SortOrder      int           `json:"sort_order"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
