// Package handler contains the HTTP handlers. Handlers parse requests
// and write responses; everything else lives in the services and the
// resolver.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/clynamic/scrollstack/internal/apperror"
)

// ErrorResponse is the error shape shared by all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to a status code. The services never
// pick HTTP statuses themselves; they only fail with a distinguishable
// error kind.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := "internal_error"
	message := "an internal error occurred"

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			kind = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			kind = "not_found"
		case errors.Is(err, apperror.ErrExpired):
			status = http.StatusGone
			kind = "expired"
		case errors.Is(err, apperror.ErrUnsupported):
			status = http.StatusBadRequest
			kind = "unsupported"
		case errors.Is(err, apperror.ErrUpstream):
			status = http.StatusBadGateway
			kind = "upstream_error"
		default:
			message = "an internal error occurred"
		}
	}

	writeJSON(w, status, ErrorResponse{Error: kind, Message: message})
}
