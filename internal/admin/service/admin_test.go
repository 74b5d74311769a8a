package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"agendamento/internal/admin/gate"
	"agendamento/internal/admin/review"
	bookingserrors "agendamento/internal/bookings/errors"
	"agendamento/internal/events"
	"agendamento/internal/export"
	"agendamento/internal/store"
	apperrors "agendamento/pkg/errors"
	"agendamento/pkg/logger"
	"agendamento/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const password = "s3nha-forte"

type mockStore struct {
	listFunc      func(ctx context.Context) store.Result
	deleteFunc    func(ctx context.Context, id string) store.Result
	deleteAllFunc func(ctx context.Context) store.Result
}

func (m *mockStore) List(ctx context.Context) store.Result {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return store.Result{Outcome: store.OutcomeRemote}
}

func (m *mockStore) Delete(ctx context.Context, id string) store.Result {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return store.Result{Outcome: store.OutcomeRemote, ID: id}
}

func (m *mockStore) DeleteAll(ctx context.Context) store.Result {
	if m.deleteAllFunc != nil {
		return m.deleteAllFunc(ctx)
	}
	return store.Result{Outcome: store.OutcomeRemote}
}

type mockSettings struct {
	status model.SystemStatus
	agenda model.AgendaConfig
	err    error
}

func (m *mockSettings) Status(context.Context) model.SystemStatus { return m.status }

func (m *mockSettings) SetStatus(_ context.Context, status model.SystemStatus) error {
	if m.err != nil {
		return m.err
	}
	m.status = status
	return nil
}

func (m *mockSettings) ToggleStatus(ctx context.Context) (model.SystemStatus, error) {
	next := m.status.Toggle()
	if err := m.SetStatus(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

func (m *mockSettings) Agenda(context.Context) model.AgendaConfig { return m.agenda }

func (m *mockSettings) SaveAgenda(_ context.Context, cfg model.AgendaConfig) (model.AgendaConfig, error) {
	if m.err != nil {
		return model.AgendaConfig{}, m.err
	}
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

type fixture struct {
	svc       *adminService
	store     *mockStore
	settings  *mockSettings
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	g, err := gate.NewAccessGate(password, "0123456789abcdef0123456789abcdef", time.Minute)
	require.NoError(t, err)

	f := &fixture{
		store:     &mockStore{},
		settings:  &mockSettings{status: model.StatusOn},
		publisher: &recordingPublisher{},
	}
	f.svc = NewAdminService(g, f.store, f.settings, f.publisher, logger.Discard()).(*adminService)
	f.svc.now = func() time.Time { return time.Date(2026, 2, 10, 15, 0, 0, 0, time.UTC) }
	return f
}

func bookings() []*model.Booking {
	return []*model.Booking{
		{ID: "1", Name: "Maria", CPF: "12345678901", Phone: "11987654321", Program: model.ProgramFIES, Date: "2026-02-03", Time: "11:00"},
		{ID: "2", Name: "Ana", CPF: "98765432100", Phone: "1133334444", Program: model.ProgramPROUNI, Date: "2026-02-02", Time: "14:30"},
		{ID: "3", Name: "Bruno", CPF: "11122233344", Phone: "", Program: model.ProgramFIES, Date: "2026-02-04", Time: "09:00"},
	}
}

func code(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return apperrors.AsAppError(err).Code
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	token, err := f.svc.Login(context.Background(), password)
	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)

	_, err = f.svc.Login(context.Background(), "wrong")
	assert.Equal(t, apperrors.CodeUnauthorized, code(t, err))
}

func TestList_FiltersAndSorts(t *testing.T) {
	f := newFixture(t)
	f.store.listFunc = func(context.Context) store.Result {
		return store.Result{Outcome: store.OutcomeDegraded, Bookings: bookings()}
	}

	listing, err := f.svc.List(context.Background(),
		review.Filters{Program: "fies"},
		review.SortState{Key: review.SortName, Direction: review.Asc},
	)
	require.NoError(t, err)
	assert.True(t, listing.Degraded)
	assert.Equal(t, 2, listing.Total)
	require.Len(t, listing.Bookings, 2)
	assert.Equal(t, "Bruno", listing.Bookings[0].Name)
	assert.Equal(t, "Maria", listing.Bookings[1].Name)
}

func TestList_StoreDown(t *testing.T) {
	f := newFixture(t)
	f.store.listFunc = func(context.Context) store.Result {
		return store.Result{Outcome: store.OutcomeFailed, Err: errors.New("down")}
	}

	_, err := f.svc.List(context.Background(), review.Filters{}, review.SortState{})
	assert.Equal(t, apperrors.CodeUnavailable, code(t, err))
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	f.store.deleteFunc = func(_ context.Context, id string) store.Result {
		return store.Result{Outcome: store.OutcomeDegraded, ID: id}
	}

	deletion, err := f.svc.Delete(context.Background(), "1767225600000")
	require.NoError(t, err)
	assert.True(t, deletion.Degraded)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, events.BookingDeleted, f.publisher.events[0].Type)
	assert.Equal(t, "1767225600000", f.publisher.events[0].BookingID)
}

func TestDelete_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Delete(context.Background(), "")
	assert.Equal(t, apperrors.CodeInvalidInput, code(t, err))

	f.store.deleteFunc = func(context.Context, string) store.Result {
		return store.Result{Outcome: store.OutcomeFailed, Err: bookingserrors.ErrNotFound}
	}
	_, err = f.svc.Delete(context.Background(), "nope")
	assert.Equal(t, apperrors.CodeNotFound, code(t, err))

	f.store.deleteFunc = func(context.Context, string) store.Result {
		return store.Result{Outcome: store.OutcomeFailed, Err: errors.New("disk full")}
	}
	_, err = f.svc.Delete(context.Background(), "1")
	assert.Equal(t, apperrors.CodeUnavailable, code(t, err))

	assert.Empty(t, f.publisher.events)
}

func TestDeleteAll_RequiresPassword(t *testing.T) {
	f := newFixture(t)
	called := false
	f.store.deleteAllFunc = func(context.Context) store.Result {
		called = true
		return store.Result{Outcome: store.OutcomeRemote}
	}

	err := f.svc.DeleteAll(context.Background(), "wrong")
	assert.Equal(t, apperrors.CodeForbidden, code(t, err))
	assert.False(t, called)

	require.NoError(t, f.svc.DeleteAll(context.Background(), password))
	assert.True(t, called)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, events.BookingsCleared, f.publisher.events[0].Type)
}

func TestDeleteAll_PartialRemoteFailurePropagates(t *testing.T) {
	f := newFixture(t)
	f.store.deleteAllFunc = func(context.Context) store.Result {
		return store.Result{Outcome: store.OutcomeFailed, Err: errors.New("deleted 3 of 5")}
	}

	err := f.svc.DeleteAll(context.Background(), password)
	assert.Equal(t, apperrors.CodeUnavailable, code(t, err))
	assert.Empty(t, f.publisher.events)
}

func TestStatusAndAgendaDelegate(t *testing.T) {
	f := newFixture(t)

	next, err := f.svc.ToggleStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.StatusOff, next)
	assert.Equal(t, model.StatusOff, f.svc.Status(context.Background()))

	require.NoError(t, f.svc.SetStatus(context.Background(), model.StatusOn))
	assert.Equal(t, model.StatusOn, f.settings.status)

	cfg := model.AgendaConfig{StartDate: "2026-03-02", EndDate: "2026-03-06", DaysOfWeek: []int{1}, StartHour: 9, EndHour: 12, Interval: 60}
	saved, err := f.svc.SaveAgenda(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg, saved)
	assert.Equal(t, cfg, f.svc.Agenda(context.Background()))

	f.settings.err = apperrors.Unavailable("settings store")
	_, err = f.svc.ToggleStatus(context.Background())
	assert.Equal(t, apperrors.CodeUnavailable, code(t, err))
}

func TestExport_UsesFilteredList(t *testing.T) {
	f := newFixture(t)
	f.store.listFunc = func(context.Context) store.Result {
		return store.Result{Outcome: store.OutcomeRemote, Bookings: bookings()}
	}

	out, err := f.svc.Export(context.Background(),
		review.Filters{Program: "FIES"},
		review.SortState{Key: review.SortDate, Direction: review.Desc},
	)
	require.NoError(t, err)
	assert.Equal(t, "agendamentos_2026-02-10.xlsx", out.Filename)
	assert.Equal(t, 2, out.Rows)

	wb, err := excelize.OpenReader(bytes.NewReader(out.Content))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Bruno", rows[1][1])
	assert.Equal(t, "Maria", rows[2][1])
}

func TestExport_NothingToExport(t *testing.T) {
	f := newFixture(t)
	f.store.listFunc = func(context.Context) store.Result {
		return store.Result{Outcome: store.OutcomeRemote, Bookings: bookings()}
	}

	_, err := f.svc.Export(context.Background(), review.Filters{Name: "Zé"}, review.SortState{})
	assert.Equal(t, apperrors.CodeNotFound, code(t, err))
	assert.ErrorIs(t, err, export.ErrNothingToExport)
}
