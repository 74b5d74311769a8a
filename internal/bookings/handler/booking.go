package handler

import (
	"net/http"

	"agendamento/internal/bookings/service"
	httputil "agendamento/pkg/http"
	"agendamento/pkg/logger"
	"agendamento/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type StatusResponse struct {
	Status model.SystemStatus `json:"status"`
}

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Status(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, StatusResponse{Status: h.service.Status(r.Context())}); err != nil {
		h.log.Error("failed to write success response", "handler", "Status", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ValidateForm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var form model.BookingForm
	if err := httputil.DecodeJSON(r, &form); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.ValidateForm(r.Context(), &form); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, form); err != nil {
		h.log.Error("failed to write success response", "handler", "ValidateForm", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	view, err := h.service.Availability(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteResult(w, http.StatusOK, view, view.Degraded, httputil.DegradedWarning); err != nil {
		h.log.Error("failed to write result response", "handler", "Availability", "operation", "WriteResult", "error", err)
	}
}

func (h *BookingHandler) DaySlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	view, err := h.service.DaySlots(r.Context(), ps.ByName("date"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteResult(w, http.StatusOK, view, view.Degraded, httputil.DegradedWarning); err != nil {
		h.log.Error("failed to write result response", "handler", "DaySlots", "operation", "WriteResult", "error", err)
	}
}

func (h *BookingHandler) SelectSlot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var slot model.Slot
	if err := httputil.DecodeJSON(r, &slot); err != nil {
		httputil.WriteError(w, err)
		return
	}

	selected, err := h.service.SelectSlot(r.Context(), &slot)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, selected); err != nil {
		h.log.Error("failed to write success response", "handler", "SelectSlot", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var confirmation model.Confirmation
	if err := httputil.DecodeJSON(r, &confirmation); err != nil {
		httputil.WriteError(w, err)
		return
	}

	receipt, err := h.service.Confirm(r.Context(), &confirmation)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteResult(w, http.StatusCreated, receipt, receipt.Degraded, httputil.DegradedWarning); err != nil {
		h.log.Error("failed to write created response", "handler", "Confirm", "operation", "WriteResult", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/status", h.Status)
	router.GET("/api/v1/availability", h.Availability)
	router.GET("/api/v1/availability/:date", h.DaySlots)
	router.POST("/api/v1/bookings/form", h.ValidateForm)
	router.POST("/api/v1/bookings/slot", h.SelectSlot)
	router.POST("/api/v1/bookings", h.Confirm)
}
