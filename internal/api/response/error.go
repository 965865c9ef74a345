package response

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wonny/stocktracker/internal/pkg/requestid"
)

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details
type ErrorDetail struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Details   string       `json:"details,omitempty"`
	RequestID string       `json:"request_id"`
	Timestamp time.Time    `json:"timestamp"`
	Fields    []FieldError `json:"fields,omitempty"`
}

// FieldError represents a field-level validation error
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrCodeInvalidParameter = "INVALID_PARAMETER"
	ErrCodeInvalidBody      = "INVALID_BODY"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeDatabaseError    = "DATABASE_ERROR"
	ErrCodeUnavailable      = "SERVICE_UNAVAILABLE"
)

// Error sends an error response
func Error(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	ErrorWithDetails(w, r, status, code, message, "")
}

// ErrorWithDetails sends an error response with additional details
func ErrorWithDetails(w http.ResponseWriter, r *http.Request, status int, code, message, details string) {
	write(w, r, status, ErrorDetail{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// ValidationError sends a 400 response listing the rejected fields
func ValidationError(w http.ResponseWriter, r *http.Request, fields []FieldError) {
	write(w, r, http.StatusBadRequest, ErrorDetail{
		Code:    ErrCodeValidation,
		Message: "Request validation failed",
		Fields:  fields,
	})
}

// BadRequest sends a 400 response for a malformed parameter
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusBadRequest, ErrCodeInvalidParameter, message)
}

// InvalidBody sends a 400 response for a body that could not be decoded
func InvalidBody(w http.ResponseWriter, r *http.Request, err error) {
	ErrorWithDetails(w, r, http.StatusBadRequest, ErrCodeInvalidBody, "Request body is not valid JSON for this resource", err.Error())
}

// NotFound sends a 404 response
func NotFound(w http.ResponseWriter, r *http.Request, resource string) {
	Error(w, r, http.StatusNotFound, ErrCodeNotFound, resource+" not found")
}

// InternalError sends a 500 response. The cause is logged, not returned.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Internal error")
	Error(w, r, http.StatusInternalServerError, ErrCodeInternalServer, "Internal server error")
}

// DatabaseError sends a 500 response for a failed store operation
func DatabaseError(w http.ResponseWriter, r *http.Request, err error) {
	log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Database error")
	Error(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "Database operation failed")
}

func write(w http.ResponseWriter, r *http.Request, status int, detail ErrorDetail) {
	detail.RequestID = requestid.FromContext(r.Context())
	detail.Timestamp = time.Now().UTC()

	event := log.Ctx(r.Context()).Warn()
	if status >= 500 {
		event = log.Ctx(r.Context()).Error()
	}
	event.
		Str("error_code", detail.Code).
		Str("message", detail.Message).
		Int("status", status).
		Int("field_count", len(detail.Fields)).
		Msg("API error response")

	JSON(w, status, ErrorResponse{Error: detail})
}
