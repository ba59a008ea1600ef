package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseValidationErrors converts validator errors to user-friendly format.
// Anything else is reported as an unreadable body.
func ParseValidationErrors(err error) []ValidationError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []ValidationError{{Field: "body", Message: "Request body is not valid JSON"}}
	}

	result := make([]ValidationError, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		result = append(result, ValidationError{
			Field:   fieldError.Field(),
			Message: getErrorMessage(fieldError),
		})
	}
	return result
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		if fe.Kind().String() == "string" {
			return fe.Field() + " must be at least " + fe.Param() + " characters"
		}
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must not exceed " + fe.Param() + " characters"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "datetime":
		return fe.Field() + " must be a date in YYYY-MM-DD format"
	default:
		return fe.Field() + " is invalid"
	}
}
