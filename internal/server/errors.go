package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-editor/internal/assist"
	"github.com/jonathan/resume-editor/internal/backend"
	"github.com/jonathan/resume-editor/internal/editor"
)

// ErrSessionNotFound indicates no open editor session has the ID
type ErrSessionNotFound struct {
	SessionID string
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session not found: %s", e.SessionID)
}

// ErrDocumentNotFound indicates no stored document has the ID
type ErrDocumentNotFound struct {
	DocumentID uuid.UUID
}

func (e *ErrDocumentNotFound) Error() string {
	return fmt.Sprintf("document not found: %s", e.DocumentID)
}

// ErrUnavailable indicates an optional dependency was not configured
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// validationError converts the first validator failure into an ErrValidation
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := "failed on " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		return &ErrValidation{Field: fe.Namespace(), Message: msg}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusInternalServerError
	}

	var (
		sessionErr  *ErrSessionNotFound
		documentErr *ErrDocumentNotFound
		unavailable *ErrUnavailable
		validation  *ErrValidation
		loadErr     *editor.LoadError
		apiErr      *backend.APIError
	)
	switch {
	case errors.As(err, &sessionErr), errors.As(err, &documentErr):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &loadErr):
		return http.StatusBadRequest
	case errors.Is(err, assist.ErrNoKeywords):
		return http.StatusBadRequest
	case errors.Is(err, assist.ErrBulletNotFound):
		return http.StatusNotFound
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadGateway
	case errors.Is(err, assist.ErrEmptyResult):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
