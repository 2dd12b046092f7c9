package server

import (
	"errors"
	"net/http"

	"github.com/superdocs/superdocs/internal/connector"
	"github.com/superdocs/superdocs/internal/llm"
)

// ErrDocumentNotFound indicates the requested document does not exist
type ErrDocumentNotFound struct{}

func (e *ErrDocumentNotFound) Error() string {
	return "document not found"
}

// ErrNoDatabase indicates a persistence endpoint was called while running
// without a configured database
type ErrNoDatabase struct{}

func (e *ErrNoDatabase) Error() string {
	return "no database configured"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return "validation error: " + e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var unreachable *connector.ErrSourceUnreachable
	var generation *llm.GenerationError

	switch {
	case errors.As(err, new(*ErrValidation)):
		return http.StatusBadRequest
	case errors.As(err, new(*ErrDocumentNotFound)):
		return http.StatusNotFound
	case errors.As(err, new(*ErrNoDatabase)):
		return http.StatusServiceUnavailable
	case errors.As(err, &unreachable):
		return http.StatusUnprocessableEntity
	case errors.As(err, new(*connector.ErrNotFound)):
		return http.StatusNotFound
	case errors.As(err, new(*connector.ErrNotAFile)), errors.As(err, new(*connector.ErrNotConnected)):
		return http.StatusBadRequest
	case errors.As(err, &generation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
