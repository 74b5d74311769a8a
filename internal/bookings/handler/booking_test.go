package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agendamento/internal/availability"
	bookingserrors "agendamento/internal/bookings/errors"
	"agendamento/internal/bookings/service"
	apperrors "agendamento/pkg/errors"
	"agendamento/pkg/logger"
	"agendamento/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBookingService struct {
	statusFunc       func(ctx context.Context) model.SystemStatus
	validateFormFunc func(ctx context.Context, form *model.BookingForm) error
	availabilityFunc func(ctx context.Context) (*service.AgendaView, error)
	daySlotsFunc     func(ctx context.Context, date string) (*service.DayView, error)
	selectSlotFunc   func(ctx context.Context, slot *model.Slot) (*model.Slot, error)
	confirmFunc      func(ctx context.Context, c *model.Confirmation) (*service.Receipt, error)
}

func (m *mockBookingService) Status(ctx context.Context) model.SystemStatus {
	if m.statusFunc != nil {
		return m.statusFunc(ctx)
	}
	return model.StatusOn
}

func (m *mockBookingService) ValidateForm(ctx context.Context, form *model.BookingForm) error {
	if m.validateFormFunc != nil {
		return m.validateFormFunc(ctx, form)
	}
	return nil
}

func (m *mockBookingService) Availability(ctx context.Context) (*service.AgendaView, error) {
	if m.availabilityFunc != nil {
		return m.availabilityFunc(ctx)
	}
	return &service.AgendaView{}, nil
}

func (m *mockBookingService) DaySlots(ctx context.Context, date string) (*service.DayView, error) {
	if m.daySlotsFunc != nil {
		return m.daySlotsFunc(ctx, date)
	}
	return &service.DayView{Date: date}, nil
}

func (m *mockBookingService) SelectSlot(ctx context.Context, slot *model.Slot) (*model.Slot, error) {
	if m.selectSlotFunc != nil {
		return m.selectSlotFunc(ctx, slot)
	}
	return slot, nil
}

func (m *mockBookingService) Confirm(ctx context.Context, c *model.Confirmation) (*service.Receipt, error) {
	if m.confirmFunc != nil {
		return m.confirmFunc(ctx, c)
	}
	return &service.Receipt{ID: "1"}, nil
}

func newRouter(svc service.BookingService) *httprouter.Router {
	router := httprouter.New()
	NewBookingHandler(svc, logger.Discard()).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestStatus(t *testing.T) {
	router := newRouter(&mockBookingService{statusFunc: func(context.Context) model.SystemStatus {
		return model.StatusOff
	}})

	w := serve(router, http.MethodGet, "/api/v1/status", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"status":"OFF"}}`, w.Body.String())
}

func TestValidateForm_ReturnsSanitizedForm(t *testing.T) {
	router := newRouter(&mockBookingService{validateFormFunc: func(_ context.Context, form *model.BookingForm) error {
		form.CPF = "12345678901"
		return nil
	}})

	w := serve(router, http.MethodPost, "/api/v1/bookings/form",
		`{"name":"Maria","cpf":"123.456.789-01","phone":"11987654321","program":"FIES"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "12345678901", data["cpf"])
}

func TestValidateForm_RejectsUnknownFields(t *testing.T) {
	called := false
	router := newRouter(&mockBookingService{validateFormFunc: func(context.Context, *model.BookingForm) error {
		called = true
		return nil
	}})

	w := serve(router, http.MethodPost, "/api/v1/bookings/form", `{"name":"Maria","admin":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called)
}

func TestValidateForm_EmptyBody(t *testing.T) {
	w := serve(newRouter(&mockBookingService{}), http.MethodPost, "/api/v1/bookings/form", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.CodeInvalidInput, decodeBody(t, w)["code"])
}

func TestAvailability_FlagsDegraded(t *testing.T) {
	router := newRouter(&mockBookingService{availabilityFunc: func(context.Context) (*service.AgendaView, error) {
		return &service.AgendaView{Dates: []string{"2026-02-02"}, Degraded: true}, nil
	}})

	w := serve(router, http.MethodGet, "/api/v1/availability", "")
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["degraded"])
	assert.NotEmpty(t, body["warning"])
	assert.Equal(t, []any{"2026-02-02"}, body["data"].(map[string]any)["dates"])
}

func TestDaySlots_PassesDate(t *testing.T) {
	var got string
	router := newRouter(&mockBookingService{daySlotsFunc: func(_ context.Context, date string) (*service.DayView, error) {
		got = date
		return &service.DayView{Date: date, Slots: []availability.SlotStatus{{Time: "11:00", Booked: true}}}, nil
	}})

	w := serve(router, http.MethodGet, "/api/v1/availability/2026-02-03", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2026-02-03", got)
	assert.JSONEq(t, `{"data":{"date":"2026-02-03","slots":[{"time":"11:00","booked":true}]}}`, w.Body.String())
}

func TestSelectSlot_Conflict(t *testing.T) {
	router := newRouter(&mockBookingService{selectSlotFunc: func(context.Context, *model.Slot) (*model.Slot, error) {
		return nil, apperrors.Conflict("This time slot is no longer available").WithCause(bookingserrors.ErrSlotConflict)
	}})

	w := serve(router, http.MethodPost, "/api/v1/bookings/slot", `{"date":"2026-02-03","time":"11:00"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperrors.CodeConflict, decodeBody(t, w)["code"])
}

func TestConfirm(t *testing.T) {
	var got *model.Confirmation
	router := newRouter(&mockBookingService{confirmFunc: func(_ context.Context, c *model.Confirmation) (*service.Receipt, error) {
		got = c
		return &service.Receipt{ID: "abc", Booking: c.WithSlot(c.Slot)}, nil
	}})

	w := serve(router, http.MethodPost, "/api/v1/bookings",
		`{"name":"Maria","cpf":"12345678901","phone":"11987654321","program":"PROUNI","date":"2026-02-03","time":"11:00"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	require.NotNil(t, got)
	assert.Equal(t, model.ProgramPROUNI, got.Program)
	assert.Equal(t, "2026-02-03", got.Date)
	assert.Equal(t, "11:00", got.Time)

	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "abc", data["id"])
	assert.Equal(t, false, data["degraded"])
}

func TestConfirm_InternalErrorMasked(t *testing.T) {
	router := newRouter(&mockBookingService{confirmFunc: func(context.Context, *model.Confirmation) (*service.Receipt, error) {
		return nil, errors.New("mongo: secret connection string leaked")
	}})

	w := serve(router, http.MethodPost, "/api/v1/bookings", `{"name":"Maria"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
}
