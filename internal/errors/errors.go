package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError is an error the HTTP layer knows how to present. The error
// handler turns it into an RFC 7807 problem carrying ErrorCode and Details.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError names one rejected request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors groups the rejected fields of one request.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error codes carried in the error_code extension.
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodePayloadTooLarge   = "PAYLOAD_TOO_LARGE"
	CodeInvalidSelection  = "INVALID_SELECTION"
	CodeDatasetNotFound   = "DATASET_NOT_FOUND"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeDatasetInvalid    = "DATASET_INVALID"
	CodeEmptySubset       = "EMPTY_SUBSET"
	CodeInternal          = "INTERNAL_SERVER_ERROR"
	CodeUnavailable       = "SERVICE_UNAVAILABLE"
)

// New creates an APIError without details.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates an APIError whose details are rendered as the
// problem's "details" member.
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
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, CodeUnavailable, "Service temporarily unavailable")
)

// InvalidRequestWithError reports a body that could not be decoded.
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ErrValidation reports a single rejected field.
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// NewValidationErrors reports every rejected field of a request.
func NewValidationErrors(errors []ValidationError) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed",
		ValidationErrors{Errors: errors})
}

// PayloadTooLargeError reports a request body over limit bytes.
func PayloadTooLargeError(limit int64) *APIError {
	return NewWithDetails(http.StatusRequestEntityTooLarge, CodePayloadTooLarge,
		"Request body exceeds maximum allowed size", map[string]int64{"max_size": limit})
}

// InvalidSelectionError reports year or weekday text that could not be parsed.
func InvalidSelectionError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidSelection, "Invalid subset selection", err.Error())
}

// DatasetNotFoundError reports a dataset name absent from the data directory.
func DatasetNotFoundError(name string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeDatasetNotFound, fmt.Sprintf("dataset %q not found", name), name)
}

// UnsupportedFormatError reports a dataset whose extension has no reader.
func UnsupportedFormatError(name string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeUnsupportedFormat, fmt.Sprintf("dataset %q has an unsupported format", name), name)
}

// DatasetInvalidError reports a dataset rejected while loading.
func DatasetInvalidError(err error) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, CodeDatasetInvalid, "Dataset could not be prepared", err.Error())
}

// EmptySubsetError reports which side of a comparison matched no rows.
func EmptySubsetError(detail string) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, CodeEmptySubset, "A compared subset has no observations", detail)
}

// NewInternalError creates an internal error with a client-safe message.
func NewInternalError(message string) *APIError {
	return New(http.StatusInternalServerError, CodeInternal, message)
}
