package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound         = "NOT_FOUND"
	CodeValidation       = "VALIDATION_ERROR"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeConflict         = "CONFLICT"
	CodeInternal         = "INTERNAL_ERROR"
	CodeTimeout          = "TIMEOUT"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeTooLarge         = "PAYLOAD_TOO_LARGE"
	CodeRateLimited      = "RATE_LIMITED"
	CodeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
)

// AppError is the error every layer hands to the HTTP boundary. Code and
// Message reach the client; Err stays server side.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	if e.HTTPStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.HTTPStatus
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// WithCause attaches the underlying error so callers can still match it with errors.Is.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

func newError(code string, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

func NotFound(resource string) *AppError {
	return newError(CodeNotFound, http.StatusNotFound, resource+" not found")
}

func NotFoundWithID(resource, id string) *AppError {
	return NotFound(resource).WithDetails(map[string]any{
		"resource": resource,
		"id":       id,
	})
}

// Validation reports a payload that parsed but broke a field rule. Details
// maps JSON field names to messages.
func Validation(message string, details map[string]any) *AppError {
	return newError(CodeValidation, http.StatusUnprocessableEntity, message).WithDetails(details)
}

func InvalidInput(message string) *AppError {
	return newError(CodeInvalidInput, http.StatusBadRequest, message)
}

func Unauthorized(message string) *AppError {
	return newError(CodeUnauthorized, http.StatusUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return newError(CodeForbidden, http.StatusForbidden, message)
}

func Conflict(message string) *AppError {
	return newError(CodeConflict, http.StatusConflict, message)
}

func Internal(message string, err error) *AppError {
	return newError(CodeInternal, http.StatusInternalServerError, message).WithCause(err)
}

// Timeout is written when a request outlives its deadline. It shares 503
// with Unavailable so clients retry both the same way.
func Timeout(message string) *AppError {
	return newError(CodeTimeout, http.StatusServiceUnavailable, message)
}

// Unavailable means neither backend could serve the call.
func Unavailable(backend string) *AppError {
	return newError(CodeUnavailable, http.StatusServiceUnavailable, backend+" is temporarily unavailable")
}

func TooLarge(limit int64) *AppError {
	return newError(CodeTooLarge, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", limit))
}

func RateLimited(message string) *AppError {
	return newError(CodeRateLimited, http.StatusTooManyRequests, message)
}

func UnsupportedMediaType(expected string) *AppError {
	return newError(CodeUnsupportedMedia, http.StatusUnsupportedMediaType, "Content-Type must be "+expected)
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError unwraps err to an AppError, treating anything else as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}
