package validation

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// FirstError flattens a validator error into the message for its first
// failing field, suitable for a single-error response body.
func FirstError(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		field := errs[0]
		switch field.Tag() {
		case "required":
			return strings.ToLower(field.Field()) + " is required"
		case "email":
			return "a valid email address is required"
		case "min":
			return strings.ToLower(field.Field()) + " is too short"
		case "max":
			return strings.ToLower(field.Field()) + " is too long"
		default:
			return strings.ToLower(field.Field()) + " is invalid"
		}
	}
	return "invalid request"
}
