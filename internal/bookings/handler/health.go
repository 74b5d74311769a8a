package handler

import (
	"context"
	"net/http"
	"time"

	httputil "agendamento/pkg/http"
	"agendamento/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

const probeTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status     string `json:"status"`
	Database   string `json:"database,omitempty"`
	LocalCache string `json:"localCache,omitempty"`
}

// HealthHandler serves liveness and readiness. The service is ready while
// the local cache works; an unreachable remote only degrades it.
type HealthHandler struct {
	remote Pinger
	cache  Pinger
	log    *logger.Logger
}

func NewHealthHandler(remote, cache Pinger, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		remote: remote,
		cache:  cache,
		log:    log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	response := HealthResponse{Status: "ready", Database: "ok", LocalCache: "ok"}
	status := http.StatusOK

	if err := h.cache.Ping(ctx); err != nil {
		h.log.Error("Local cache health check failed", "error", err, "path", r.URL.Path)
		response.LocalCache = "error"
		response.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if err := h.remote.Ping(ctx); err != nil {
		h.log.Warn("Database health check failed", "error", err, "path", r.URL.Path)
		response.Database = "error"
		if status == http.StatusOK {
			response.Status = "degraded"
		}
	}

	if err := httputil.WriteJSON(w, status, response); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
