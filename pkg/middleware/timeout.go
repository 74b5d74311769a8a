package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	apperrors "agendamento/pkg/errors"
	"agendamento/pkg/logger"
)

// deadlineWriter buffers nothing; it forwards writes until the deadline
// fires and drops them afterwards. Handlers get their own header map so a
// late handler cannot race the timeout response.
type deadlineWriter struct {
	w       http.ResponseWriter
	header  http.Header
	mu      sync.Mutex
	expired bool
	started bool
}

func newDeadlineWriter(w http.ResponseWriter) *deadlineWriter {
	return &deadlineWriter{w: w, header: make(http.Header)}
}

func (dw *deadlineWriter) Header() http.Header {
	return dw.header
}

// start flushes the handler's headers once. Callers hold mu.
func (dw *deadlineWriter) start(code int) {
	if dw.started {
		return
	}
	dw.started = true
	dst := dw.w.Header()
	for key, values := range dw.header {
		dst[key] = values
	}
	dw.w.WriteHeader(code)
}

func (dw *deadlineWriter) WriteHeader(code int) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.expired {
		return
	}
	dw.start(code)
}

func (dw *deadlineWriter) Write(b []byte) (int, error) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.expired {
		return 0, http.ErrHandlerTimeout
	}
	dw.start(http.StatusOK)
	return dw.w.Write(b)
}

// expire marks the writer dead and reports whether the handler had not
// started its response yet.
func (dw *deadlineWriter) expire() bool {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	dw.expired = true
	if dw.started {
		return false
	}
	dw.started = true
	return true
}

// RequestTimeout bounds each request by timeout. The handler keeps running
// on its own goroutine with a canceled context; the client gets 503.
func RequestTimeout(timeout time.Duration, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			r = r.WithContext(ctx)

			dw := newDeadlineWriter(w)
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if rec := recover(); rec != nil {
						panicked <- rec
					}
				}()
				next.ServeHTTP(dw, r)
				close(done)
			}()

			select {
			case <-done:
			case rec := <-panicked:
				panic(rec)
			case <-ctx.Done():
				if dw.expire() {
					log.Warn("Request timed out",
						"request_id", RequestID(r.Context()),
						"method", r.Method,
						"path", r.URL.Path,
						"timeout", timeout.String(),
					)
					reject(w, apperrors.Timeout("Request timed out"))
				}
			}
		})
	}
}
