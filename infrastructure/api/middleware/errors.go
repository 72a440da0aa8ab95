package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/vexdb/vexdb/domain/document"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps the domain error taxonomy to HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, document.ErrNotFound):
		return http.StatusNotFound, "Not Found"
	case errors.Is(err, document.ErrDimensionMismatch),
		errors.Is(err, document.ErrEmptyEmbedding),
		errors.Is(err, document.ErrValidation):
		return http.StatusBadRequest, "Validation Error"
	case errors.Is(err, document.ErrCapacity):
		return http.StatusInsufficientStorage, "Capacity Exceeded"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// WriteError writes a structured JSON error response with the status
// derived from the error's kind, and logs server-side failures.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status, title := statusFor(err)
	requestID := middleware.GetReqID(r.Context())

	if logger != nil && status >= http.StatusInternalServerError {
		logger.Error("request error",
			"request_id", requestID,
			"status", status,
			"error", err.Error(),
			"path", r.URL.Path,
		)
	}

	WriteJSON(w, status, ErrorResponse{
		Error:     title,
		Detail:    err.Error(),
		RequestID: requestID,
	})
}

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
