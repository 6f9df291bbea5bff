package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Result is a discriminated validation outcome: either OK, or a field-by-field
// error map suitable for inline display. Validation never panics or throws.
type Result struct {
	OK          bool              `json:"ok"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// Valid returns an OK result.
func Valid() Result {
	return Result{OK: true}
}

// Invalid returns a failed result with the given field errors.
func Invalid(fieldErrors map[string]string) Result {
	return Result{OK: false, FieldErrors: fieldErrors}
}

// ProjectForm carries admin input for creating or updating a project.
type ProjectForm struct {
	Slug           string   `json:"slug" validate:"required,max=120,slug"`
	NameKA         string   `json:"name_ka" validate:"required,max=300"`
	NameEN         string   `json:"name_en" validate:"required,max=300"`
	DescriptionKA  string   `json:"description_ka" validate:"max=20000"`
	DescriptionEN  string   `json:"description_en" validate:"max=20000"`
	AddressKA      string   `json:"address_ka" validate:"max=500"`
	AddressEN      string   `json:"address_en" validate:"max=500"`
	Status         string   `json:"status" validate:"required,project_status"`
	PriceFrom      *float64 `json:"price_from" validate:"omitempty,gte=0"`
	TotalUnits     *int     `json:"total_units" validate:"omitempty,gte=0"`
	AvailableUnits *int     `json:"available_units" validate:"omitempty,gte=0"`
	CompletionDate *string  `json:"completion_date"`
	ImageURL       *string  `json:"image_url" validate:"omitempty,url"`
	SortOrder      int      `json:"sort_order"`
}

// ApartmentForm carries admin input for creating or updating an apartment.
type ApartmentForm struct {
	ProjectID    string    `json:"project_id" validate:"required,uuid"`
	TitleKA      string    `json:"title_ka" validate:"max=300"`
	TitleEN      string    `json:"title_en" validate:"max=300"`
	Rooms        *int      `json:"rooms" validate:"omitempty,gte=0,lte=50"`
	Bedrooms     *int      `json:"bedrooms" validate:"omitempty,gte=0,lte=50"`
	Bathrooms    *int      `json:"bathrooms" validate:"omitempty,gte=0,lte=50"`
	Floor        *int      `json:"floor" validate:"omitempty,gte=-5,lte=200"`
	Area         *float64  `json:"area" validate:"omitempty,gt=0"`
	LivingArea   *float64  `json:"living_area" validate:"omitempty,gt=0"`
	BalconyArea  *float64  `json:"balcony_area" validate:"omitempty,gte=0"`
	RoomAreas    []float64 `json:"room_areas" validate:"omitempty,dive,gt=0"`
	Price        *float64  `json:"price" validate:"omitempty,gte=0"`
	Status       string    `json:"status" validate:"required,apartment_status"`
	ImageURL     *string   `json:"image_url" validate:"omitempty,url"`
	FloorPlanURL *string   `json:"floor_plan_url" validate:"omitempty,url"`
	SortOrder    int       `json:"sort_order"`
}

// BlogPostForm carries admin input for creating or updating a blog post.
type BlogPostForm struct {
	Slug              string  `json:"slug" validate:"required,max=160,slug"`
	CategoryID        *string `json:"category_id" validate:"omitempty,uuid"`
	TitleKA           string  `json:"title_ka" validate:"required,max=500"`
	TitleEN           string  `json:"title_en" validate:"required,max=500"`
	ExcerptKA         string  `json:"excerpt_ka" validate:"max=2000"`
	ExcerptEN         string  `json:"excerpt_en" validate:"max=2000"`
	ContentKA         string  `json:"content_ka" validate:"max=200000"`
	ContentEN         string  `json:"content_en" validate:"max=200000"`
	MetaTitleKA       string  `json:"meta_title_ka" validate:"max=70"`
	MetaTitleEN       string  `json:"meta_title_en" validate:"max=70"`
	MetaDescriptionKA string  `json:"meta_description_ka" validate:"max=170"`
	MetaDescriptionEN string  `json:"meta_description_en" validate:"max=170"`
	FocusKeyword      string  `json:"focus_keyword" validate:"max=200"`
	ImageURL          *string `json:"image_url" validate:"omitempty,url"`
}

// BannerForm carries admin input for creating or updating a banner.
type BannerForm struct {
	ImageURL  string  `json:"image_url" validate:"required,url"`
	LinkURL   *string `json:"link_url" validate:"omitempty,url"`
	TitleKA   string  `json:"title_ka" validate:"max=300"`
	TitleEN   string  `json:"title_en" validate:"max=300"`
	SortOrder int     `json:"sort_order"`
}

// SettingForm carries admin input for a site setting.
type SettingForm struct {
	Key     string `json:"key" validate:"required,max=120"`
	Value   string `json:"value" validate:"required,max=10000"`
	LabelKA string `json:"label_ka" validate:"max=300"`
	LabelEN string `json:"label_en" validate:"max=300"`
}

// CheckStruct validates any form struct and maps validator failures to a
// field-keyed error map using the struct's json names.
func CheckStruct(form any) Result {
	err := Validate.Struct(form)
	if err == nil {
		return Valid()
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return Invalid(map[string]string{"_": "validation failed"})
	}

	fieldErrors := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		// Field() is the json name thanks to the registered tag name func.
		fieldErrors[fe.Field()] = fieldMessage(fe)
	}
	return Invalid(fieldErrors)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid id"
	case "slug":
		return "must contain only lowercase letters, digits and hyphens"
	case "project_status":
		return "must be 'ongoing', 'completed', or 'upcoming'"
	case "apartment_status":
		return "must be 'available', 'reserved', or 'sold'"
	case "gte", "gt":
		return fmt.Sprintf("must be greater than %s", orZero(fe.Param()))
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func orZero(param string) string {
	if param == "" {
		return "0"
	}
	return param
}
