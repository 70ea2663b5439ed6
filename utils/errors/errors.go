package errors

import (
	"fmt"
	"net/http"
)

// APIError represents a custom error type for API responses
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details string `json:"details,omitempty"`
}

// Error returns the error message
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code, message string, status int, details ...string) *APIError {
	err := &APIError{
		Code:    code,
		Message: message,
		Status:  status,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// The full error taxonomy. Every handler maps failures onto one of these
// five classes; NO_MORE_ITEMS is the uniform "empty page" answer so clients
// can tell end-of-pagination apart from a missing parent resource.
var (
	ErrUnauthorized = NewAPIError("UNAUTHORIZED", "Authentication required", http.StatusUnauthorized)
	ErrNotFound     = NewAPIError("NOT_FOUND", "Resource not found", http.StatusNotFound)
	ErrConflict     = NewAPIError("CONFLICT", "Resource conflict", http.StatusConflict)
	ErrValidation   = NewAPIError("VALIDATION_FAILED", "Invalid request data", http.StatusUnprocessableEntity)
	ErrInternal     = NewAPIError("INTERNAL_SERVER_ERROR", "Internal server error", http.StatusInternalServerError)
	ErrNoMoreItems  = NewAPIError("NO_MORE_ITEMS", "No more items to show", http.StatusUnprocessableEntity)
)

// Validation builds a VALIDATION_FAILED error with a field-specific message.
func Validation(message string) *APIError {
	return NewAPIError("VALIDATION_FAILED", message, http.StatusUnprocessableEntity)
}

// NotFound builds a NOT_FOUND error with a resource-specific message.
func NotFound(message string) *APIError {
	return NewAPIError("NOT_FOUND", message, http.StatusNotFound)
}

// Conflict builds a CONFLICT error with a resource-specific message.
func Conflict(message string) *APIError {
	return NewAPIError("CONFLICT", message, http.StatusConflict)
}

func Wrap(err error, code, message string, status int) *APIError {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return NewAPIError(code, message, status, err.Error())
}

// Internal wraps an unexpected error into the INTERNAL_SERVER_ERROR class.
func Internal(err error) *APIError {
	return Wrap(err, "INTERNAL_SERVER_ERROR", "Internal server error", http.StatusInternalServerError)
}
