package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Business logic errors
	ErrorCodeValidation          ErrorCode = "VALIDATION_ERROR"
	ErrorCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrorCodeConstraintViolation ErrorCode = "CONSTRAINT_VIOLATION"

	// Technical errors
	ErrorCodeInternal         ErrorCode = "INTERNAL_ERROR"
	ErrorCodeDatabase         ErrorCode = "DATABASE_ERROR"
	ErrorCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"

	// Request errors
	ErrorCodeBadRequest       ErrorCode = "BAD_REQUEST"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"
	ErrorCodeInvalidParameter ErrorCode = "INVALID_PARAMETER"
	ErrorCodeCancelled        ErrorCode = "REQUEST_CANCELLED"
)

// StatusClientClosedRequest is reported when the caller went away before the
// store answered.
const StatusClientClosedRequest = 499

// AppError represents a structured application error
type AppError struct {
	Code      ErrorCode         `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	Cause     error             `json:"-"`
	Timestamp time.Time         `json:"timestamp"`
	RequestID string            `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error wrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// ToJSON converts the error to JSON for API responses
func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"error":      e.Message,
		"code":       e.Code,
		"details":    e.Details,
		"timestamp":  e.Timestamp,
		"request_id": e.RequestID,
	})
	return data
}

// GetHTTPStatus returns the appropriate HTTP status code for the error
func (e *AppError) GetHTTPStatus() int {
	switch e.Code {
	case ErrorCodeValidation, ErrorCodeBadRequest, ErrorCodeInvalidJSON, ErrorCodeInvalidParameter:
		return http.StatusBadRequest
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConstraintViolation:
		return http.StatusConflict
	case ErrorCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeCancelled:
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Details:   make(map[string]string),
		Timestamp: time.Now(),
	}
}

// NewAppErrorWithCause creates a new application error with an underlying cause
func NewAppErrorWithCause(code ErrorCode, message string, cause error) *AppError {
	err := NewAppError(code, message)
	err.Cause = cause
	return err
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithRequestID adds a request ID to the error
func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// Predefined error constructors for common cases

// ValidationErrorWithDetails creates a validation error with field details
func ValidationErrorWithDetails(message string, fields map[string]string, cause error) *AppError {
	err := NewAppErrorWithCause(ErrorCodeValidation, message, cause)
	for field, msg := range fields {
		err.WithDetail(field, msg)
	}
	return err
}

// NotFoundError creates a not found error
func NotFoundError(resource string, cause error) *AppError {
	return NewAppErrorWithCause(ErrorCodeNotFound, fmt.Sprintf("%s not found", resource), cause)
}

// ConstraintViolationError creates an error for a rejected write
func ConstraintViolationError(message string, cause error) *AppError {
	return NewAppErrorWithCause(ErrorCodeConstraintViolation, message, cause)
}

// StoreUnavailableError creates an error for a lost or refused store connection
func StoreUnavailableError(message string, cause error) *AppError {
	return NewAppErrorWithCause(ErrorCodeStoreUnavailable, message, cause)
}

// InvalidDataError creates a validation error for a value the store refused
func InvalidDataError(message string, cause error) *AppError {
	return NewAppErrorWithCause(ErrorCodeValidation, message, cause)
}

// CancelledError creates an error for an operation abandoned by the caller
func CancelledError(cause error) *AppError {
	return NewAppErrorWithCause(ErrorCodeCancelled, "request cancelled", cause)
}

// DatabaseError creates a database error
func DatabaseError(message string, cause error) *AppError {
	return NewAppErrorWithCause(ErrorCodeDatabase, message, cause)
}

// InternalError creates an internal server error
func InternalError(message string, cause error) *AppError {
	return NewAppErrorWithCause(ErrorCodeInternal, message, cause)
}

// BadRequestError creates a bad request error
func BadRequestError(message string) *AppError {
	return NewAppError(ErrorCodeBadRequest, message)
}

// InvalidJSONError creates an invalid JSON error
func InvalidJSONError(cause error) *AppError {
	return NewAppErrorWithCause(ErrorCodeInvalidJSON, "Invalid JSON format", cause)
}

// InvalidParameterError creates an error for a malformed path or query parameter
func InvalidParameterError(name, value string) *AppError {
	return NewAppError(ErrorCodeInvalidParameter, fmt.Sprintf("invalid %s: %q", name, value))
}

// Error handling utilities

// AsAppError extracts an AppError from err's chain if present
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// HasCode reports whether err is an AppError with the given code
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// WrapError wraps a generic error as an internal error
func WrapError(err error, message string) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return NewAppErrorWithCause(ErrorCodeInternal, message, err)
}
