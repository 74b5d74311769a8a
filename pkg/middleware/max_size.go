package middleware

import (
	"net/http"

	apperrors "agendamento/pkg/errors"
)

// MaxRequestSize caps the request body. Reads past the limit fail with
// *http.MaxBytesError, which the JSON decoder helper maps to 413.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				reject(w, apperrors.TooLarge(limit))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
