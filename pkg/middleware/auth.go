package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "agendamento/pkg/errors"
	"agendamento/pkg/logger"
)

const SubjectKey contextKey = "subject"

// TokenVerifier validates a bearer token and returns the subject it was issued to.
type TokenVerifier func(token string) (string, error)

// BearerAuth rejects requests without a token accepted by verify.
func BearerAuth(verify TokenVerifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				rejectUnauthorized(w, log, r, "missing bearer token")
				return
			}

			subject, err := verify(token)
			if err != nil {
				rejectUnauthorized(w, log, r, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

func rejectUnauthorized(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Admin authorization failed",
		"request_id", RequestID(r.Context()),
		"reason", reason,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)

	reject(w, apperrors.Unauthorized("Admin token missing or invalid"))
}
