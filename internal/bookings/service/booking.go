package service

import (
	"context"
	"errors"

	"agendamento/internal/availability"
	bookingserrors "agendamento/internal/bookings/errors"
	"agendamento/internal/bookings/validator"
	"agendamento/internal/events"
	"agendamento/internal/settings"
	"agendamento/internal/store"
	apperrors "agendamento/pkg/errors"
	"agendamento/pkg/logger"
	"agendamento/pkg/model"
	"agendamento/pkg/sanitizer"
)

// BookingStore is the slice of the persistence facade the wizard needs.
type BookingStore interface {
	List(ctx context.Context) store.Result
	Create(ctx context.Context, booking *model.Booking) store.Result
}

// AgendaView is the calendar step: the active agenda, its offered dates and
// the free slot count of each date.
type AgendaView struct {
	Agenda   model.AgendaConfig        `json:"agenda"`
	Dates    []string                  `json:"dates"`
	Days     []availability.DaySummary `json:"days"`
	Times    []string                  `json:"times"`
	Degraded bool                      `json:"-"`
}

type DayView struct {
	Date     string                    `json:"date"`
	Slots    []availability.SlotStatus `json:"slots"`
	Degraded bool                      `json:"-"`
}

// Receipt is returned by a successful confirmation. Degraded means the
// booking only exists in the local cache.
type Receipt struct {
	ID       string         `json:"id"`
	Booking  *model.Booking `json:"booking"`
	Degraded bool           `json:"degraded"`
}

type BookingService interface {
	Status(ctx context.Context) model.SystemStatus
	ValidateForm(ctx context.Context, form *model.BookingForm) error
	Availability(ctx context.Context) (*AgendaView, error)
	DaySlots(ctx context.Context, date string) (*DayView, error)
	SelectSlot(ctx context.Context, slot *model.Slot) (*model.Slot, error)
	Confirm(ctx context.Context, confirmation *model.Confirmation) (*Receipt, error)
}

type bookingService struct {
	store     BookingStore
	settings  settings.Service
	validator *validator.BookingValidator
	publisher events.Publisher
	log       *logger.Logger
}

func NewBookingService(
	store BookingStore,
	settings settings.Service,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	log *logger.Logger,
) BookingService {
	return &bookingService{
		store:     store,
		settings:  settings,
		validator: validator,
		publisher: publisher,
		log:       log.Component("bookings"),
	}
}

func (s *bookingService) Status(ctx context.Context) model.SystemStatus {
	return s.settings.Status(ctx)
}

func (s *bookingService) ValidateForm(ctx context.Context, form *model.BookingForm) error {
	if err := s.ensureOpen(ctx); err != nil {
		return err
	}

	s.sanitize(form)
	if err := s.validateForm(form); err != nil {
		return err
	}

	bookings, _, err := s.list(ctx)
	if err != nil {
		return err
	}
	return s.verifyCPF(form.CPF, bookings)
}

func (s *bookingService) Availability(ctx context.Context) (*AgendaView, error) {
	agenda := s.settings.Agenda(ctx)

	bookings, degraded, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	return &AgendaView{
		Agenda:   agenda,
		Dates:    availability.GenerateDates(agenda),
		Days:     availability.Calendar(agenda, bookings),
		Times:    availability.GenerateTimeSlots(agenda),
		Degraded: degraded,
	}, nil
}

func (s *bookingService) DaySlots(ctx context.Context, date string) (*DayView, error) {
	agenda := s.settings.Agenda(ctx)

	bookings, degraded, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	slots, err := availability.DaySlots(agenda, date, bookings)
	if err != nil {
		return nil, s.mapDomainError(err)
	}
	return &DayView{Date: date, Slots: slots, Degraded: degraded}, nil
}

func (s *bookingService) SelectSlot(ctx context.Context, slot *model.Slot) (*model.Slot, error) {
	if err := s.validateSlot(slot); err != nil {
		return nil, err
	}

	agenda := s.settings.Agenda(ctx)
	if err := availability.Offers(agenda, slot.Date, slot.Time); err != nil {
		return nil, s.mapDomainError(err)
	}

	bookings, _, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	selected, err := availability.SelectSlot(slot.Date, slot.Time, bookings)
	if err != nil {
		return nil, s.mapDomainError(err)
	}
	return &selected, nil
}

// Confirm re-checks everything the earlier steps checked, against a fresh
// list, then persists through the fallback store. Two confirmations racing
// for the same slot can both pass the check while the remote is down; the
// remote path is protected by its unique indexes.
func (s *bookingService) Confirm(ctx context.Context, confirmation *model.Confirmation) (*Receipt, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return nil, err
	}

	form := &confirmation.BookingForm
	s.sanitize(form)
	if err := s.validateForm(form); err != nil {
		return nil, err
	}
	slot := &confirmation.Slot
	if err := s.validateSlot(slot); err != nil {
		return nil, err
	}

	agenda := s.settings.Agenda(ctx)
	if err := availability.Offers(agenda, slot.Date, slot.Time); err != nil {
		return nil, s.mapDomainError(err)
	}

	bookings, _, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.verifyCPF(form.CPF, bookings); err != nil {
		return nil, err
	}
	if availability.IsBooked(bookings, slot.Date, slot.Time) {
		return nil, s.mapDomainError(bookingserrors.ErrSlotConflict)
	}

	booking := form.WithSlot(*slot)
	result := s.store.Create(ctx, booking)
	if !result.OK() {
		if mapped := s.mapDomainError(result.Err); apperrors.IsAppError(mapped) {
			return nil, mapped
		}
		s.log.Error("Failed to create booking", "error", result.Err)
		return nil, apperrors.Unavailable("booking store").WithCause(result.Err)
	}

	s.log.Info("Booking created successfully",
		"id", result.ID,
		"program", booking.Program,
		"date", booking.Date,
		"time", booking.Time,
		"outcome", result.Outcome,
	)
	s.publisher.Publish(ctx, events.Created(booking, result.Degraded()))

	return &Receipt{ID: result.ID, Booking: booking, Degraded: result.Degraded()}, nil
}

func (s *bookingService) ensureOpen(ctx context.Context) error {
	if s.settings.Status(ctx) != model.StatusOn {
		return apperrors.Forbidden("Scheduling is closed").WithCause(bookingserrors.ErrSchedulingClosed)
	}
	return nil
}

func (s *bookingService) list(ctx context.Context) ([]*model.Booking, bool, error) {
	result := s.store.List(ctx)
	if !result.OK() {
		s.log.Error("Failed to list bookings", "error", result.Err)
		return nil, false, apperrors.Unavailable("booking store").WithCause(result.Err)
	}
	return result.Bookings, result.Degraded(), nil
}

func (s *bookingService) verifyCPF(cpf string, bookings []*model.Booking) error {
	for _, b := range bookings {
		if b != nil && sanitizer.NormalizeCPF(b.CPF) == cpf {
			return s.mapDomainError(bookingserrors.ErrDuplicateCPF)
		}
	}
	return nil
}

func (s *bookingService) sanitize(form *model.BookingForm) {
	form.Name = sanitizer.NormalizeName(form.Name)
	form.CPF = sanitizer.NormalizeCPF(form.CPF)
	form.Phone = sanitizer.NormalizePhone(form.Phone)
	form.Program = model.Program(sanitizer.TrimAndNormalize(string(form.Program)))
}

func (s *bookingService) validateForm(form *model.BookingForm) error {
	if err := s.validator.ValidateForm(form); err != nil {
		s.log.Warn("Booking form validation failed", "error", err)
		return validationError("Invalid booking form", err)
	}
	return nil
}

func (s *bookingService) validateSlot(slot *model.Slot) error {
	if err := s.validator.ValidateSlot(slot); err != nil {
		return validationError("Invalid slot", err)
	}
	return nil
}

func validationError(message string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

// mapDomainError turns store and availability sentinels into API errors.
// Anything else is returned unchanged.
func (s *bookingService) mapDomainError(err error) error {
	switch {
	case errors.Is(err, bookingserrors.ErrSlotConflict):
		return apperrors.Conflict("This time slot is no longer available").WithCause(err)
	case errors.Is(err, bookingserrors.ErrDuplicateCPF):
		return apperrors.Conflict("This CPF already has a booking").WithCause(err)
	case errors.Is(err, bookingserrors.ErrDateNotOffered):
		return apperrors.Validation("Date is not offered", map[string]any{"date": err.Error()}).WithCause(err)
	case errors.Is(err, bookingserrors.ErrTimeNotOffered):
		return apperrors.Validation("Time is not offered", map[string]any{"time": err.Error()}).WithCause(err)
	default:
		return err
	}
}
