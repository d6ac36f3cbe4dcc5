// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/abhms/alter/internal/analytics"
	"github.com/abhms/alter/internal/handler/dto"
	"github.com/abhms/alter/internal/service"
)

// Error codes returned in dto.ErrorResponse.
const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeAliasExists    = "ALIAS_EXISTS"
	codeNotFound       = "NOT_FOUND"
	codeUnauthorized   = "UNAUTHORIZED"
	codeInternal       = "INTERNAL_ERROR"
)

// Handler serves the root and fallback routes.
type Handler struct {
	version string
}

// New creates a new Handler instance.
func New(version string) *Handler {
	return &Handler{version: version}
}

// Hello is a simple info endpoint.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message": "Alter URL shortener",
		"version": h.version,
	}
	writeJSON(w, http.StatusOK, response)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, dto.ErrorResponse{
		Error: "resource not found",
		Code:  codeNotFound,
	})
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, dto.ErrorResponse{
		Error: "method not allowed",
		Code:  "METHOD_NOT_ALLOWED",
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Default().Warn("failed to encode response", "error", err)
	}
}

// writeError writes a dto.ErrorResponse.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// statusForError maps service errors to an HTTP status and error code.
// Unknown errors map to 500.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrLongURLRequired),
		errors.Is(err, service.ErrInvalidURL),
		errors.Is(err, service.ErrURLTooLong),
		errors.Is(err, service.ErrInvalidAlias),
		errors.Is(err, service.ErrInvalidTopic),
		errors.Is(err, service.ErrTokenRequired),
		errors.Is(err, analytics.ErrInvalidClickRecord):
		return http.StatusBadRequest, codeInvalidRequest
	case errors.Is(err, service.ErrAliasExists):
		return http.StatusBadRequest, codeAliasExists
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, codeUnauthorized
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
