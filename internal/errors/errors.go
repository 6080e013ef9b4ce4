package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Error codes carried in the error_code extension of problem responses
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeNotFound          = "NOT_FOUND"
	CodeNoData            = "NO_DATA"
	CodeMetricUnavailable = "METRIC_UNAVAILABLE"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeDataCorrupted     = "DATA_CORRUPTED"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeInternal          = "INTERNAL_SERVER_ERROR"
	CodeExportFailed      = "EXPORT_FAILED"
	CodeUnavailable       = "SERVICE_UNAVAILABLE"
	CodeWebSocketUpgrade  = "WEBSOCKET_UPGRADE_FAILED"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError describes one invalid field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors groups field errors from one request
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

var (
	ErrInvalidRequest     = New(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format")
	ErrRateLimitExceeded  = New(http.StatusTooManyRequests, CodeRateLimitExceeded, "Rate limit exceeded")
	ErrInternalServer     = New(http.StatusInternalServerError, CodeInternal, "Internal server error")
	ErrWebSocketUpgrade   = New(http.StatusInternalServerError, CodeWebSocketUpgrade, "WebSocket upgrade failed")
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, CodeUnavailable, "Service temporarily unavailable")
)

// ErrValidation creates a validation error for a single field
func ErrValidation(field, message string) *APIError {
	return NewValidationErrors([]ValidationError{{Field: field, Message: message}})
}

// NewValidationErrors creates a validation error from multiple fields
func NewValidationErrors(errs []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Request validation failed",
		ValidationErrors{Errors: errs},
	)
}

// NotFoundError creates a not found error for resource
func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s not found", resource), resource)
}

// NoDataError reports that no measurements could be loaded for subject
func NoDataError(subject string) *APIError {
	return New(http.StatusNotFound, CodeNoData, fmt.Sprintf("no data available for %s", subject))
}

// MetricUnavailableError reports a metric absent from the loaded data
func MetricUnavailableError(metric string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeMetricUnavailable,
		fmt.Sprintf("metric %s is not available in the loaded data", metric), metric)
}

// UnsupportedFormatError reports an export format the server cannot produce
func UnsupportedFormatError(format string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeUnsupportedFormat,
		fmt.Sprintf("unsupported export format %q", format), format)
}

// DataCorruptedError reports a data file that exists but cannot be parsed
func DataCorruptedError(err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, CodeDataCorrupted, "data file could not be parsed", err.Error())
}

// ExportError reports a failure while generating a download
func ExportError(err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, CodeExportFailed, "export generation failed", err.Error())
}
