package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/popguide/catalog-server/internal/browse"
	"github.com/popguide/catalog-server/internal/filtering"
	"github.com/popguide/catalog-server/internal/service"
)

// maxBodyBytes bounds request bodies decoded by DecodeJSONBody
const maxBodyBytes = 64 << 10

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSONResponse writes a JSON response with the given data
func WriteJSONResponse(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// WriteErrorResponse writes a standardized error response
func WriteErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	WriteJSONResponse(w, ErrorResponse{Error: message}, statusCode)
}

// WriteServiceError maps a service or session error onto its HTTP status
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
	}
	WriteErrorResponse(w, err.Error(), code)
}

// StatusFor returns the HTTP status for an error returned by the catalog
// service or the session manager
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, filtering.ErrInvalidVaultedMode),
		errors.Is(err, filtering.ErrEmptyValue):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrUnknownFacet),
		errors.Is(err, browse.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, browse.ErrSessionClosed):
		return http.StatusGone
	case errors.Is(err, browse.ErrListenerActive):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSONBody decodes a JSON request body into dst, rejecting unknown
// fields. It returns io.EOF for an empty body so callers can treat the body
// as optional.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
