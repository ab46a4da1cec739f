package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/kotoba-study/kotoba-api/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate

	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	// These should never fail in normal operation, but log if they do
	if err := Validate.RegisterValidation("activity_type", validateActivityType); err != nil {
		panic(fmt.Sprintf("failed to register activity_type validator: %v", err))
	}
	if err := Validate.RegisterValidation("hex_color", validateHexColor); err != nil {
		panic(fmt.Sprintf("failed to register hex_color validator: %v", err))
	}
}

// validateActivityType validates that a string is a valid ActivityType enum value
func validateActivityType(fl validator.FieldLevel) bool {
	switch models.ActivityType(fl.Field().String()) {
	case models.ActivityAddTerm, models.ActivityStudy, models.ActivityReview:
		return true
	default:
		return false
	}
}

// validateHexColor validates a "#rgb" or "#rrggbb" display color; empty is allowed
func validateHexColor(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return hexColorPattern.MatchString(value)
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
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

// ValidateActivityType validates an ActivityType string value
func ValidateActivityType(value string) error {
	switch models.ActivityType(value) {
	case models.ActivityAddTerm, models.ActivityStudy, models.ActivityReview:
		return nil
	default:
		return fmt.Errorf("invalid activity type: %s (must be 'add_term', 'study', or 'review')", value)
	}
}
