package handler

import (
	"mime"
	"net/http"
	"strconv"

	"agendamento/internal/admin/review"
	"agendamento/internal/admin/service"
	"agendamento/internal/export"
	apperrors "agendamento/pkg/errors"
	httputil "agendamento/pkg/http"
	"agendamento/pkg/logger"
	"agendamento/pkg/middleware"
	"agendamento/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type PasswordRequest struct {
	Password string `json:"password"`
}

type StatusRequest struct {
	Status model.SystemStatus `json:"status"`
}

type StatusResponse struct {
	Status model.SystemStatus `json:"status"`
}

type AdminHandler struct {
	service service.AdminService
	auth    func(http.Handler) http.Handler
	log     *logger.Logger
}

func NewAdminHandler(service service.AdminService, verify middleware.TokenVerifier, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		auth:    middleware.BearerAuth(verify, log),
		log:     log,
	}
}

// protected runs handle only for requests carrying a valid admin token.
func (h *AdminHandler) protected(handle httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		h.auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handle(w, r, ps)
		})).ServeHTTP(w, r)
	}
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req PasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	token, err := h.service.Login(r.Context(), req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	// Tokens must not be replayed from the idempotency cache or any proxy.
	w.Header().Set("Cache-Control", "no-store")
	if err := httputil.WriteSuccess(w, token); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filters, sort, err := review.FromQuery(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput(err.Error()))
		return
	}

	listing, err := h.service.List(r.Context(), filters, sort)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteList(w, listing.Bookings, listing.Total, listing.Degraded); err != nil {
		h.log.Error("failed to write list response", "handler", "List", "operation", "WriteList", "error", err)
	}
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	deletion, err := h.service.Delete(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if deletion.Degraded {
		if err := httputil.WriteResult(w, http.StatusOK, deletion, true, httputil.DegradedWarning); err != nil {
			h.log.Error("failed to write result response", "handler", "Delete", "operation", "WriteResult", "error", err)
		}
		return
	}
	httputil.WriteNoContent(w)
}

func (h *AdminHandler) DeleteAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req PasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.DeleteAll(r.Context(), req.Password); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *AdminHandler) GetStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, StatusResponse{Status: h.service.Status(r.Context())}); err != nil {
		h.log.Error("failed to write success response", "handler", "GetStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req StatusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.SetStatus(r.Context(), req.Status); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, StatusResponse{Status: req.Status}); err != nil {
		h.log.Error("failed to write success response", "handler", "SetStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) ToggleStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	status, err := h.service.ToggleStatus(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, StatusResponse{Status: status}); err != nil {
		h.log.Error("failed to write success response", "handler", "ToggleStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) GetAgenda(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.service.Agenda(r.Context())); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAgenda", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) SaveAgenda(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var cfg model.AgendaConfig
	if err := httputil.DecodeJSON(r, &cfg); err != nil {
		httputil.WriteError(w, err)
		return
	}

	saved, err := h.service.SaveAgenda(r.Context(), cfg)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, saved); err != nil {
		h.log.Error("failed to write success response", "handler", "SaveAgenda", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filters, sort, err := review.FromQuery(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput(err.Error()))
		return
	}

	out, err := h.service.Export(r.Context(), filters, sort)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Content); err != nil {
		h.log.Error("failed to write export", "handler", "Export", "operation", "Write", "error", err)
	}
}

func (h *AdminHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/admin/login", h.Login)

	router.GET("/api/v1/admin/bookings", h.protected(h.List))
	router.GET("/api/v1/admin/bookings/export", h.protected(h.Export))
	router.POST("/api/v1/admin/bookings/clear", h.protected(h.DeleteAll))
	router.DELETE("/api/v1/admin/bookings/id/:id", h.protected(h.Delete))

	router.GET("/api/v1/admin/status", h.protected(h.GetStatus))
	router.PUT("/api/v1/admin/status", h.protected(h.SetStatus))
	router.POST("/api/v1/admin/status/toggle", h.protected(h.ToggleStatus))

	router.GET("/api/v1/admin/agenda", h.protected(h.GetAgenda))
	router.PUT("/api/v1/admin/agenda", h.protected(h.SaveAgenda))
}
