package models

import (
	"time"

	"github.com/google/uuid"
)

// SiteSetting is a key/value entry for site-wide configuration (contact phone,
// office address, social links). Labels localize the setting name for the
// admin UI; the value itself is opaque.
type SiteSetting struct {
	ID        uuid.UUID `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	LabelKA   string    `json:"label_ka,omitempty"`
	LabelEN   string    `json:"label_en,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
