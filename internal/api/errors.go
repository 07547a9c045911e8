package api

import (
	"errors"
	"net/http"

	"github.com/cadell/conjugo-api/internal/service/practice"
	"github.com/cadell/conjugo-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, practice.ErrNoEligibleForms):
		return http.StatusNoContent

	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrScheduleCellNotFound):
		return http.StatusNotFound

	case errors.Is(err, practice.ErrInvalidAnswer),
		errors.Is(err, practice.ErrInvalidCell),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, practice.ErrNoEligibleForms):
		return "No eligible forms for current settings"

	case errors.Is(err, practice.ErrInvalidAnswer):
		return "Invalid answer"

	case errors.Is(err, practice.ErrInvalidCell):
		return "Mood, tense and person are required"

	case errors.Is(err, store.ErrScheduleCellNotFound):
		return "Schedule cell not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}
