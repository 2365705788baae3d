package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	apperrors "github.com/prjrating/sellerrating/pkg/errors"
	"github.com/prjrating/sellerrating/pkg/logger"
	"github.com/prjrating/sellerrating/pkg/validator"
)

// Response is the JSON envelope returned by every endpoint.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse is the error member of Response.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// MessageResponse is the payload for endpoints that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData wraps data in the response envelope.
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Response{Data: data})
}

// WriteMessage writes a {"data":{"message":...}} response.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteData(w, status, MessageResponse{Message: message})
}

// WriteErrorCode writes an error envelope with an explicit code and message.
func WriteErrorCode(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteJSON(w, status, Response{
		Error: &ErrorResponse{
			Code:      code,
			Message:   message,
			RequestID: logger.CorrelationIDFromContext(r.Context()),
		},
	})
}

// WriteError maps err to a status code and writes the error envelope.
// AppError messages are passed through; anything unclassified becomes a 500
// and is logged with the request-scoped logger, falling back to fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Status < http.StatusInternalServerError {
		WriteErrorCode(w, r, appErr.Status, appErr.Code, appErr.Message)
		return
	}

	status := apperrors.HTTPStatus(err)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		WriteErrorCode(w, r, status, "NOT_FOUND", "resource not found")
		return
	case errors.Is(err, apperrors.ErrAlreadyExists):
		WriteErrorCode(w, r, status, "ALREADY_EXISTS", "resource already exists")
		return
	case errors.Is(err, apperrors.ErrInvalidInput):
		WriteErrorCode(w, r, status, "INVALID_INPUT", err.Error())
		return
	}

	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}
	l.ErrorContext(r.Context(), "internal error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	WriteErrorCode(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
}

// WriteValidationError writes a 400 with per-field messages when err is a
// *validator.ValidationError, or a plain INVALID_INPUT otherwise.
func WriteValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:      "VALIDATION_ERROR",
				Message:   "request validation failed",
				Fields:    valErr.Fields(),
				RequestID: logger.CorrelationIDFromContext(r.Context()),
			},
		})
		return
	}

	WriteErrorCode(w, r, http.StatusBadRequest, "INVALID_INPUT", err.Error())
}

// ParseUUID validates that param is a UUID. On failure it writes a 400 and
// returns false so the caller can return early.
func ParseUUID(w http.ResponseWriter, r *http.Request, param string) (string, bool) {
	id, err := uuid.Parse(param)
	if err != nil {
		WriteErrorCode(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "invalid UUID: "+param)
		return "", false
	}
	return id.String(), true
}
