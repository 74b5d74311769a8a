package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "agendamento/pkg/errors"
	httputil "agendamento/pkg/http"
	"agendamento/pkg/logger"
)

// Recovery turns a handler panic into a masked 500 and logs the stack.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error("Panic recovered",
					"request_id", RequestID(r.Context()),
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				reject(w, apperrors.Internal("Handler panicked", fmt.Errorf("%v", rec)))
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// reject writes err in the same body shape the handlers use.
func reject(w http.ResponseWriter, err *apperrors.AppError) {
	httputil.WriteError(w, err)
}
