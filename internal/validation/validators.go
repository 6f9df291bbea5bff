package validation

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/greenhill-dev/estates-api/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Report field errors under the json name so they map straight onto the
	// admin form fields.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Register custom validators for enums
	if err := Validate.RegisterValidation("project_status", validateProjectStatus); err != nil {
		panic(fmt.Sprintf("failed to register project_status validator: %v", err))
	}
	if err := Validate.RegisterValidation("apartment_status", validateApartmentStatus); err != nil {
		panic(fmt.Sprintf("failed to register apartment_status validator: %v", err))
	}
	if err := Validate.RegisterValidation("slug", validateSlug); err != nil {
		panic(fmt.Sprintf("failed to register slug validator: %v", err))
	}
}

func validateProjectStatus(fl validator.FieldLevel) bool {
	switch models.ProjectStatus(fl.Field().String()) {
	case models.ProjectStatusOngoing, models.ProjectStatusCompleted, models.ProjectStatusUpcoming:
		return true
	default:
		return false
	}
}

func validateApartmentStatus(fl validator.FieldLevel) bool {
	switch models.ApartmentStatus(fl.Field().String()) {
	case models.ApartmentStatusAvailable, models.ApartmentStatusReserved, models.ApartmentStatusSold:
		return true
	default:
		return false
	}
}

// validateSlug allows lowercase letters, digits and hyphens, no leading or
// trailing hyphen.
func validateSlug(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return false
	}
	for _, r := range s {
		if r != '-' && !unicode.IsLower(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// SanitizeText sanitizes text input by trimming whitespace and removing
// control characters except newline and tab.
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}
