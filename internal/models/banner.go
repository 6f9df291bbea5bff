package models

import (
	"time"

	"github.com/google/uuid"
)

// Banner represents a homepage banner image with an optional click-through link.
type Banner struct {
	ID        uuid.UUID `json:"id"`
	ImageURL  string    `json:"image_url"`
	LinkURL   *string   `json:"link_url,omitempty"`
	TitleKA   string    `json:"title_ka,omitempty"`
	TitleEN   string    `json:"title_en,omitempty"`
	IsActive  bool      `json:"is_active"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
