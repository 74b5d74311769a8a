package middleware

import (
	"mime"
	"net/http"

	apperrors "agendamento/pkg/errors"
	"agendamento/pkg/logger"
)

const jsonMediaType = "application/json"

// ContentTypeValidation rejects writes whose body is not JSON.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !carriesBody(r) {
				next.ServeHTTP(w, r)
				return
			}

			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != jsonMediaType {
				log.Warn("Invalid Content-Type header",
					"request_id", RequestID(r.Context()),
					"content_type", r.Header.Get("Content-Type"),
					"path", r.URL.Path,
					"method", r.Method,
				)
				reject(w, apperrors.UnsupportedMediaType(jsonMediaType))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// carriesBody is true for writes that send a payload. Bodiless commands
// such as the status toggle pass through.
func carriesBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.ContentLength != 0
	default:
		return false
	}
}
