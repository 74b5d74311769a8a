package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "booking not found"},
			expected: "NOT_FOUND: booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("remote store unreachable"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: remote store unreachable)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("booking"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad form", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad json"), CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("wrong password"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("scheduling closed"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("slot taken"), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("too slow"), CodeTimeout, http.StatusServiceUnavailable},
		{"unavailable", Unavailable("remote store"), CodeUnavailable, http.StatusServiceUnavailable},
		{"too large", TooLarge(1024), CodeTooLarge, http.StatusRequestEntityTooLarge},
		{"rate limited", RateLimited("slow down"), CodeRateLimited, http.StatusTooManyRequests},
		{"unsupported media", UnsupportedMediaType("application/json"), CodeUnsupportedMedia, http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.StatusCode())
		})
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("booking", "1738500000000")

	assert.Equal(t, "booking not found", err.Message)
	assert.Equal(t, "booking", err.Details["resource"])
	assert.Equal(t, "1738500000000", err.Details["id"])
}

func TestUnavailable_Message(t *testing.T) {
	assert.Equal(t, "remote store is temporarily unavailable", Unavailable("remote store").Message)
}

func TestStatusCode_DefaultsToInternal(t *testing.T) {
	err := &AppError{Code: CodeInvalidInput}
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode())
}

func TestInternal_KeepsCause(t *testing.T) {
	cause := errors.New("cpf already booked")
	wrapped := Internal("duplicate", cause)

	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, cause, errors.Unwrap(wrapped))
}

func TestWithCause(t *testing.T) {
	cause := errors.New("slot taken")
	err := Conflict("slot no longer available").WithCause(cause)

	assert.ErrorIs(t, err, cause)
}

func TestWithDetails(t *testing.T) {
	err := Validation("invalid form", nil).WithDetails(map[string]any{"cpf": "must have 11 digits"})
	assert.Equal(t, "must have 11 digits", err.Details["cpf"])
}

func TestIsAppError(t *testing.T) {
	appErr := NotFound("booking")

	assert.True(t, IsAppError(appErr))
	assert.True(t, IsAppError(fmt.Errorf("handler: %w", appErr)))
	assert.False(t, IsAppError(errors.New("plain")))
}

func TestAsAppError(t *testing.T) {
	appErr := Conflict("slot taken")
	assert.Same(t, appErr, AsAppError(appErr))
	assert.Same(t, appErr, AsAppError(fmt.Errorf("wrapped: %w", appErr)))

	plain := errors.New("plain")
	converted := AsAppError(plain)
	require.NotNil(t, converted)
	assert.Equal(t, CodeInternal, converted.Code)
	assert.Equal(t, plain, converted.Err)
}
