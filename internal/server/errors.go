package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/candidate-tracker/internal/ingestion"
	"github.com/jonathan/candidate-tracker/internal/store"
	"github.com/jonathan/candidate-tracker/internal/types"
)

// ErrValidation indicates request validation failure outside the form rules
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return "validation error: " + e.Field + " - " + e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		fieldErr *types.FieldError
		validErr *ErrValidation
	)

	switch {
	case errors.As(err, &fieldErr), errors.As(err, &validErr):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ingestion.ErrInvalidFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ingestion.ErrEmptyOrHeaderOnly):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessage returns the text shown to the client for err.
func ErrorMessage(err error) string {
	var fieldErr *types.FieldError
	if errors.As(err, &fieldErr) {
		return fieldErr.Message
	}
	if errors.Is(err, types.ErrDuplicateEmail) {
		return "Un candidat avec cet email existe déjà."
	}
	if errors.Is(err, store.ErrNotFound) {
		return "Candidat introuvable."
	}
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}
