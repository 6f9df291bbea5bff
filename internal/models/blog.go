package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogCategory groups posts; slug is shared across both languages.
type BlogCategory struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	NameKA    string    `json:"name_ka"`
	NameEN    string    `json:"name_en"`
	CreatedAt time.Time `json:"created_at"`
}

// BlogPost represents a bilingual article. The SEO fields (focus keyword, meta
// title/description) feed the scorer; SeoScore and ReadTime are derived values
// recomputed by the rescore worker whenever content changes.
type BlogPost struct {
	ID                uuid.UUID  `json:"id"`
	Slug              string     `json:"slug"`
	CategoryID        *uuid.UUID `json:"category_id,omitempty"`
	TitleKA           string     `json:"title_ka"`
	TitleEN           string     `json:"title_en"`
	ExcerptKA         string     `json:"excerpt_ka,omitempty"`
	ExcerptEN         string     `json:"excerpt_en,omitempty"`
	ContentKA         string     `json:"content_ka,omitempty"`
	ContentEN         string     `json:"content_en,omitempty"`
	MetaTitleKA       string     `json:"meta_title_ka,omitempty"`
	MetaTitleEN       string     `json:"meta_title_en,omitempty"`
	MetaDescriptionKA string     `json:"meta_description_ka,omitempty"`
	MetaDescriptionEN string     `json:"meta_description_en,omitempty"`
	FocusKeyword      string     `json:"focus_keyword,omitempty"`
	SeoScore          *int       `json:"seo_score,omitempty"`
	ReadTime          *int       `json:"read_time,omitempty"`
	ImageURL          *string    `json:"image_url,omitempty"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
