package service

import (
	"context"
	"errors"
	"time"

	"agendamento/internal/admin/gate"
	"agendamento/internal/admin/review"
	bookingserrors "agendamento/internal/bookings/errors"
	"agendamento/internal/events"
	"agendamento/internal/export"
	"agendamento/internal/settings"
	"agendamento/internal/store"
	apperrors "agendamento/pkg/errors"
	"agendamento/pkg/logger"
	"agendamento/pkg/model"
)

// BookingStore is the slice of the persistence facade the admin needs.
type BookingStore interface {
	List(ctx context.Context) store.Result
	Delete(ctx context.Context, id string) store.Result
	DeleteAll(ctx context.Context) store.Result
}

type Listing struct {
	Bookings []*model.Booking `json:"bookings"`
	Total    int              `json:"total"`
	Degraded bool             `json:"degraded"`
}

type Deletion struct {
	ID       string `json:"id,omitempty"`
	Degraded bool   `json:"degraded"`
}

type Export struct {
	Filename string
	Content  []byte
	Rows     int
}

type AdminService interface {
	Login(ctx context.Context, password string) (*gate.Token, error)
	List(ctx context.Context, filters review.Filters, sort review.SortState) (*Listing, error)
	Delete(ctx context.Context, id string) (*Deletion, error)
	DeleteAll(ctx context.Context, password string) error
	Status(ctx context.Context) model.SystemStatus
	SetStatus(ctx context.Context, status model.SystemStatus) error
	ToggleStatus(ctx context.Context) (model.SystemStatus, error)
	Agenda(ctx context.Context) model.AgendaConfig
	SaveAgenda(ctx context.Context, cfg model.AgendaConfig) (model.AgendaConfig, error)
	Export(ctx context.Context, filters review.Filters, sort review.SortState) (*Export, error)
}

type adminService struct {
	gate      *gate.AccessGate
	store     BookingStore
	settings  settings.Service
	publisher events.Publisher
	log       *logger.Logger
	now       func() time.Time
}

func NewAdminService(
	gate *gate.AccessGate,
	store BookingStore,
	settings settings.Service,
	publisher events.Publisher,
	log *logger.Logger,
) AdminService {
	return &adminService{
		gate:      gate,
		store:     store,
		settings:  settings,
		publisher: publisher,
		log:       log.Component("admin"),
		now:       time.Now,
	}
}

func (s *adminService) Login(ctx context.Context, password string) (*gate.Token, error) {
	token, err := s.gate.Login(password)
	if err != nil {
		if errors.Is(err, gate.ErrWrongPassword) {
			s.log.Warn("Admin login rejected")
			return nil, apperrors.Unauthorized("Wrong password").WithCause(err)
		}
		return nil, apperrors.Internal("Failed to issue admin token", err)
	}
	s.log.Info("Admin logged in", "expires_at", token.ExpiresAt)
	return token, nil
}

func (s *adminService) List(ctx context.Context, filters review.Filters, sort review.SortState) (*Listing, error) {
	result := s.store.List(ctx)
	if !result.OK() {
		s.log.Error("Failed to list bookings", "error", result.Err)
		return nil, apperrors.Unavailable("booking store").WithCause(result.Err)
	}

	bookings := review.Apply(result.Bookings, filters, sort)
	return &Listing{
		Bookings: bookings,
		Total:    len(bookings),
		Degraded: result.Degraded(),
	}, nil
}

func (s *adminService) Delete(ctx context.Context, id string) (*Deletion, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	result := s.store.Delete(ctx, id)
	if !result.OK() {
		if errors.Is(result.Err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id).WithCause(result.Err)
		}
		s.log.Error("Failed to delete booking", "id", id, "error", result.Err)
		return nil, apperrors.Unavailable("booking store").WithCause(result.Err)
	}

	s.log.Info("Booking deleted", "id", id, "outcome", result.Outcome)
	s.publisher.Publish(ctx, events.Deleted(id, result.Degraded()))
	return &Deletion{ID: id, Degraded: result.Degraded()}, nil
}

// DeleteAll requires the admin password again even though the caller is
// already authenticated.
func (s *adminService) DeleteAll(ctx context.Context, password string) error {
	if err := s.gate.VerifyPassword(password); err != nil {
		s.log.Warn("Delete all rejected: wrong password")
		return apperrors.Forbidden("Wrong password").WithCause(err)
	}

	result := s.store.DeleteAll(ctx)
	if !result.OK() {
		s.log.Error("Failed to delete all bookings", "error", result.Err)
		return apperrors.Unavailable("booking store").WithCause(result.Err)
	}

	s.log.Warn("All bookings deleted")
	s.publisher.Publish(ctx, events.Cleared())
	return nil
}

func (s *adminService) Status(ctx context.Context) model.SystemStatus {
	return s.settings.Status(ctx)
}

func (s *adminService) SetStatus(ctx context.Context, status model.SystemStatus) error {
	return s.settings.SetStatus(ctx, status)
}

func (s *adminService) ToggleStatus(ctx context.Context) (model.SystemStatus, error) {
	return s.settings.ToggleStatus(ctx)
}

func (s *adminService) Agenda(ctx context.Context) model.AgendaConfig {
	return s.settings.Agenda(ctx)
}

func (s *adminService) SaveAgenda(ctx context.Context, cfg model.AgendaConfig) (model.AgendaConfig, error) {
	return s.settings.SaveAgenda(ctx, cfg)
}

// Export renders exactly the list the admin is looking at, filters and
// sort applied.
func (s *adminService) Export(ctx context.Context, filters review.Filters, sort review.SortState) (*Export, error) {
	listing, err := s.List(ctx, filters, sort)
	if err != nil {
		return nil, err
	}

	content, err := export.Workbook(listing.Bookings)
	if err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			return nil, apperrors.NotFound("Bookings to export").WithCause(err)
		}
		return nil, apperrors.Internal("Failed to build spreadsheet", err)
	}

	filename := export.Filename(s.now().UTC())
	s.log.Info("Bookings exported", "rows", listing.Total, "filename", filename, "degraded", listing.Degraded)
	return &Export{Filename: filename, Content: content, Rows: listing.Total}, nil
}
