package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/cv-keyword-matcher/internal/db"
	"github.com/jonathan/cv-keyword-matcher/internal/enhancement"
	"github.com/jonathan/cv-keyword-matcher/internal/ingestion"
	"github.com/jonathan/cv-keyword-matcher/internal/pipeline"
	"github.com/jonathan/cv-keyword-matcher/internal/rendering"
	"github.com/jonathan/cv-keyword-matcher/internal/storage"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates an optional backend that is not configured.
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured on this server", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		unavailableErr *ErrUnavailable
		extractionErr  *ingestion.ExtractionError
		enhanceErr     *enhancement.EnhancementServiceError
		renderErr      *rendering.RenderingError
		storageErr     *storage.StorageError
	)

	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, pipeline.ErrNoSource),
		errors.Is(err, storage.ErrInvalidFilename):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &unavailableErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &extractionErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &enhanceErr):
		return http.StatusBadGateway
	case errors.As(err, &renderErr), errors.As(err, &storageErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// validationError converts validator errors into an *ErrValidation for the
// first failing field.
func validationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		return &ErrValidation{Field: fe.Field(), Message: fe.Tag()}
	}
	return &ErrValidation{Field: "request", Message: "invalid request"}
}
