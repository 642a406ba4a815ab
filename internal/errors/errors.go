package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response.
type APIError struct {
	StatusCode int    `json:"-"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// Predefined error types for common scenarios.
var (
	ErrInvalidRequest   = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrInvalidParameter = New(http.StatusBadRequest, "INVALID_PARAMETER", "Invalid parameter value")
	ErrNotFound         = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrStoreNotFound    = New(http.StatusServiceUnavailable, "STORE_NOT_FOUND", "Analysis database not found; run the pipeline first")
	ErrInternalServer   = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
	ErrQueryFailed      = New(http.StatusInternalServerError, "QUERY_FAILED", "Aggregate query failed")
)

// InvalidParameter creates an invalid parameter error naming the parameter.
func InvalidParameter(name, message string) *APIError {
	return New(http.StatusBadRequest, "INVALID_PARAMETER", fmt.Sprintf("%s: %s", name, message))
}

// QueryFailed creates a query error naming the failed view and carrying
// the underlying cause message.
func QueryFailed(view string, err error) *APIError {
	return New(http.StatusInternalServerError, "QUERY_FAILED", fmt.Sprintf("%s query failed: %s", view, err.Error()))
}

// ErrorResponse is the uniform failure envelope of the query surface.
// Every handler fault is converted into this shape; raw fault objects are
// never returned to the client.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// Render implements render.Renderer, propagating the wrapped status code.
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.Error.StatusCode)
	return nil
}

// NewErrorResponse wraps an APIError in the failure envelope.
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{Success: false, Error: err}
}
