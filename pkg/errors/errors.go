package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error categories shared by the catalog, wizard and form services.
// Handlers map a category to an HTTP status via HTTPStatus.
var (
	// ErrNotFound indicates a requested catalog entry or visit does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a request that can be fixed by the user
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates the action is not allowed in the current state
	ErrConflict = errors.New("conflict")

	// ErrInternal indicates an unexpected server-side failure
	ErrInternal = errors.New("internal error")
)

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// ConflictError creates a conflict error with context
func ConflictError(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrConflict)
}

// InternalError creates an internal error with context
func InternalError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInternal)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// HTTPStatus returns the status code for an error category.
// Unknown errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
