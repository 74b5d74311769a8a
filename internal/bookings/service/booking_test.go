package service

import (
	"context"
	"errors"
	"testing"

	bookingserrors "agendamento/internal/bookings/errors"
	"agendamento/internal/bookings/validator"
	"agendamento/internal/events"
	"agendamento/internal/store"
	apperrors "agendamento/pkg/errors"
	"agendamento/pkg/logger"
	"agendamento/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	listFunc   func(ctx context.Context) store.Result
	createFunc func(ctx context.Context, booking *model.Booking) store.Result
}

func (m *mockStore) List(ctx context.Context) store.Result {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return store.Result{Outcome: store.OutcomeRemote}
}

func (m *mockStore) Create(ctx context.Context, booking *model.Booking) store.Result {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	return store.Result{Outcome: store.OutcomeRemote, ID: "remote-1"}
}

type mockSettings struct {
	status model.SystemStatus
	agenda model.AgendaConfig
}

func (m *mockSettings) Status(context.Context) model.SystemStatus { return m.status }

func (m *mockSettings) SetStatus(_ context.Context, status model.SystemStatus) error {
	m.status = status
	return nil
}

func (m *mockSettings) ToggleStatus(context.Context) (model.SystemStatus, error) {
	m.status = m.status.Toggle()
	return m.status, nil
}

func (m *mockSettings) Agenda(context.Context) model.AgendaConfig { return m.agenda }

func (m *mockSettings) SaveAgenda(_ context.Context, cfg model.AgendaConfig) (model.AgendaConfig, error) {
	m.agenda = cfg
	return cfg, nil
}

type recordingPublisher struct {
	events []events.BookingEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event events.BookingEvent) {
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Close() error { return nil }

func testAgenda() model.AgendaConfig {
	return model.AgendaConfig{
		StartDate:  "2026-02-02",
		EndDate:    "2026-02-20",
		DaysOfWeek: []int{1, 2, 3, 4, 5},
		StartHour:  11,
		EndHour:    18,
		Interval:   30,
	}
}

func validForm() model.BookingForm {
	return model.BookingForm{
		Name:    "  Maria   da Silva ",
		CPF:     "123.456.789-01",
		Phone:   "(11) 98765-4321",
		Program: model.ProgramFIES,
	}
}

func existing(cpf, date, slot string) *model.Booking {
	return &model.Booking{ID: "b-" + cpf, Name: "Existing", CPF: cpf, Phone: "11912345678", Program: model.ProgramPROUNI, Date: date, Time: slot}
}

func listing(bookings ...*model.Booking) func(context.Context) store.Result {
	return func(context.Context) store.Result {
		return store.Result{Outcome: store.OutcomeRemote, Bookings: bookings}
	}
}

type fixture struct {
	svc       BookingService
	store     *mockStore
	settings  *mockSettings
	publisher *recordingPublisher
}

func newFixture() *fixture {
	log := logger.Discard()
	f := &fixture{
		store:     &mockStore{},
		settings:  &mockSettings{status: model.StatusOn, agenda: testAgenda()},
		publisher: &recordingPublisher{},
	}
	f.svc = NewBookingService(f.store, f.settings, validator.NewBookingValidator(log), f.publisher, log)
	return f
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperrors.IsAppError(err), "expected AppError, got %T", err)
	return apperrors.AsAppError(err).Code
}

func TestValidateForm_SanitizesInput(t *testing.T) {
	f := newFixture()
	form := validForm()

	require.NoError(t, f.svc.ValidateForm(context.Background(), &form))
	assert.Equal(t, "Maria da Silva", form.Name)
	assert.Equal(t, "12345678901", form.CPF)
	assert.Equal(t, "11987654321", form.Phone)
}

func TestValidateForm_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.BookingForm)
		field  string
	}{
		{name: "blank name", mutate: func(f *model.BookingForm) { f.Name = "   " }, field: "name"},
		{name: "short cpf", mutate: func(f *model.BookingForm) { f.CPF = "123.456" }, field: "cpf"},
		{name: "short phone", mutate: func(f *model.BookingForm) { f.Phone = "9876" }, field: "phone"},
		{name: "unknown program", mutate: func(f *model.BookingForm) { f.Program = "SISU" }, field: "program"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			form := validForm()
			tt.mutate(&form)

			err := f.svc.ValidateForm(context.Background(), &form)
			assert.Equal(t, apperrors.CodeValidation, appCode(t, err))
			assert.Contains(t, apperrors.AsAppError(err).Details, tt.field)
		})
	}
}

func TestValidateForm_DuplicateCPF(t *testing.T) {
	f := newFixture()
	f.store.listFunc = listing(existing("123.456.789-01", "2026-02-03", "11:00"))
	form := validForm()

	err := f.svc.ValidateForm(context.Background(), &form)
	assert.Equal(t, apperrors.CodeConflict, appCode(t, err))
	assert.ErrorIs(t, err, bookingserrors.ErrDuplicateCPF)
}

func TestValidateForm_ClosedScheduling(t *testing.T) {
	f := newFixture()
	f.settings.status = model.StatusOff
	form := validForm()

	err := f.svc.ValidateForm(context.Background(), &form)
	assert.Equal(t, apperrors.CodeForbidden, appCode(t, err))
	assert.ErrorIs(t, err, bookingserrors.ErrSchedulingClosed)
}

func TestValidateForm_StoreUnavailable(t *testing.T) {
	f := newFixture()
	f.store.listFunc = func(context.Context) store.Result {
		return store.Result{Outcome: store.OutcomeFailed, Err: errors.New("both down")}
	}
	form := validForm()

	err := f.svc.ValidateForm(context.Background(), &form)
	assert.Equal(t, apperrors.CodeUnavailable, appCode(t, err))
}

func TestAvailability(t *testing.T) {
	f := newFixture()
	f.store.listFunc = func(context.Context) store.Result {
		return store.Result{Outcome: store.OutcomeDegraded, Bookings: []*model.Booking{existing("11111111111", "2026-02-02", "11:00")}}
	}

	view, err := f.svc.Availability(context.Background())
	require.NoError(t, err)
	assert.True(t, view.Degraded)
	assert.Len(t, view.Dates, 15)
	assert.Equal(t, "2026-02-02", view.Dates[0])
	assert.NotContains(t, view.Dates, "2026-02-07")
	assert.Len(t, view.Times, 15)

	require.Len(t, view.Days, 15)
	assert.Equal(t, 14, view.Days[0].FreeSlots)
	assert.Equal(t, 15, view.Days[1].FreeSlots)
}

func TestDaySlots(t *testing.T) {
	f := newFixture()
	f.store.listFunc = listing(existing("11111111111", "2026-02-03", "14:30"))

	view, err := f.svc.DaySlots(context.Background(), "2026-02-03")
	require.NoError(t, err)
	require.Len(t, view.Slots, 15)
	for _, slot := range view.Slots {
		assert.Equal(t, slot.Time == "14:30", slot.Booked, slot.Time)
	}

	_, err = f.svc.DaySlots(context.Background(), "2026-02-07")
	assert.Equal(t, apperrors.CodeValidation, appCode(t, err))
	assert.ErrorIs(t, err, bookingserrors.ErrDateNotOffered)
}

func TestSelectSlot(t *testing.T) {
	f := newFixture()
	f.store.listFunc = listing(existing("11111111111", "2026-02-03", "14:30"))

	selected, err := f.svc.SelectSlot(context.Background(), &model.Slot{Date: "2026-02-03", Time: "15:00"})
	require.NoError(t, err)
	assert.Equal(t, model.Slot{Date: "2026-02-03", Time: "15:00"}, *selected)

	_, err = f.svc.SelectSlot(context.Background(), &model.Slot{Date: "2026-02-03", Time: "14:30"})
	assert.Equal(t, apperrors.CodeConflict, appCode(t, err))
	assert.ErrorIs(t, err, bookingserrors.ErrSlotConflict)

	_, err = f.svc.SelectSlot(context.Background(), &model.Slot{Date: "2026-02-03", Time: "14:45"})
	assert.ErrorIs(t, err, bookingserrors.ErrTimeNotOffered)

	_, err = f.svc.SelectSlot(context.Background(), &model.Slot{Date: "03/02/2026", Time: "14:30"})
	assert.Equal(t, apperrors.CodeValidation, appCode(t, err))
}

func TestConfirm_PersistsAndPublishes(t *testing.T) {
	f := newFixture()
	var created *model.Booking
	f.store.createFunc = func(_ context.Context, b *model.Booking) store.Result {
		created = b
		b.ID = "remote-1"
		return store.Result{Outcome: store.OutcomeRemote, ID: "remote-1"}
	}

	receipt, err := f.svc.Confirm(context.Background(), &model.Confirmation{
		BookingForm: validForm(),
		Slot:        model.Slot{Date: "2026-02-04", Time: "16:00"},
	})
	require.NoError(t, err)
	assert.Equal(t, "remote-1", receipt.ID)
	assert.False(t, receipt.Degraded)

	require.NotNil(t, created)
	assert.Equal(t, "12345678901", created.CPF)
	assert.Equal(t, "Maria da Silva", created.Name)
	assert.Equal(t, "2026-02-04", created.Date)
	assert.Equal(t, "16:00", created.Time)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, events.BookingCreated, f.publisher.events[0].Type)
	assert.Equal(t, "remote-1", f.publisher.events[0].BookingID)
}

func TestConfirm_DegradedReceipt(t *testing.T) {
	f := newFixture()
	f.store.createFunc = func(_ context.Context, b *model.Booking) store.Result {
		b.ID = "1767225600000"
		return store.Result{Outcome: store.OutcomeDegraded, ID: b.ID}
	}

	receipt, err := f.svc.Confirm(context.Background(), &model.Confirmation{
		BookingForm: validForm(),
		Slot:        model.Slot{Date: "2026-02-04", Time: "16:00"},
	})
	require.NoError(t, err)
	assert.True(t, receipt.Degraded)
	require.Len(t, f.publisher.events, 1)
	assert.True(t, f.publisher.events[0].Degraded)
}

func TestConfirm_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		status   model.SystemStatus
		bookings []*model.Booking
		slot     model.Slot
		code     string
		sentinel error
	}{
		{
			name:     "closed",
			status:   model.StatusOff,
			slot:     model.Slot{Date: "2026-02-04", Time: "16:00"},
			code:     apperrors.CodeForbidden,
			sentinel: bookingserrors.ErrSchedulingClosed,
		},
		{
			name:     "slot taken",
			status:   model.StatusOn,
			bookings: []*model.Booking{existing("99999999999", "2026-02-04", "16:00")},
			slot:     model.Slot{Date: "2026-02-04", Time: "16:00"},
			code:     apperrors.CodeConflict,
			sentinel: bookingserrors.ErrSlotConflict,
		},
		{
			name:     "cpf already booked",
			status:   model.StatusOn,
			bookings: []*model.Booking{existing("12345678901", "2026-02-05", "11:00")},
			slot:     model.Slot{Date: "2026-02-04", Time: "16:00"},
			code:     apperrors.CodeConflict,
			sentinel: bookingserrors.ErrDuplicateCPF,
		},
		{
			name:     "weekend",
			status:   model.StatusOn,
			slot:     model.Slot{Date: "2026-02-07", Time: "16:00"},
			code:     apperrors.CodeValidation,
			sentinel: bookingserrors.ErrDateNotOffered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.settings.status = tt.status
			f.store.listFunc = listing(tt.bookings...)
			f.store.createFunc = func(context.Context, *model.Booking) store.Result {
				t.Fatal("create must not be called")
				return store.Result{}
			}

			_, err := f.svc.Confirm(context.Background(), &model.Confirmation{BookingForm: validForm(), Slot: tt.slot})
			assert.Equal(t, tt.code, appCode(t, err))
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestConfirm_RemoteUniqueIndexConflict(t *testing.T) {
	f := newFixture()
	f.store.createFunc = func(context.Context, *model.Booking) store.Result {
		return store.Result{Outcome: store.OutcomeFailed, Err: bookingserrors.ErrSlotConflict}
	}

	_, err := f.svc.Confirm(context.Background(), &model.Confirmation{
		BookingForm: validForm(),
		Slot:        model.Slot{Date: "2026-02-04", Time: "16:00"},
	})
	assert.Equal(t, apperrors.CodeConflict, appCode(t, err))
	assert.Empty(t, f.publisher.events)
}

func TestConfirm_BothBackendsDown(t *testing.T) {
	f := newFixture()
	f.store.createFunc = func(context.Context, *model.Booking) store.Result {
		return store.Result{Outcome: store.OutcomeFailed, Err: errors.New("disk full")}
	}

	_, err := f.svc.Confirm(context.Background(), &model.Confirmation{
		BookingForm: validForm(),
		Slot:        model.Slot{Date: "2026-02-04", Time: "16:00"},
	})
	assert.Equal(t, apperrors.CodeUnavailable, appCode(t, err))
}
