package settings

import (
	"context"
	"errors"

	"agendamento/internal/bookings/validator"
	apperrors "agendamento/pkg/errors"
	"agendamento/pkg/logger"
	"agendamento/pkg/model"
)

// Service is the read path used by the booking flow and the write path used
// by the admin. Reads never fail: a missing or unreachable document yields
// the safe default.
type Service interface {
	Status(ctx context.Context) model.SystemStatus
	SetStatus(ctx context.Context, status model.SystemStatus) error
	ToggleStatus(ctx context.Context) (model.SystemStatus, error)
	Agenda(ctx context.Context) model.AgendaConfig
	SaveAgenda(ctx context.Context, cfg model.AgendaConfig) (model.AgendaConfig, error)
}

type service struct {
	repo          Repository
	validator     *validator.BookingValidator
	defaultAgenda model.AgendaConfig
	log           *logger.Logger
}

func NewService(repo Repository, v *validator.BookingValidator, defaultAgenda model.AgendaConfig, log *logger.Logger) Service {
	return &service{
		repo:          repo,
		validator:     v,
		defaultAgenda: defaultAgenda,
		log:           log.Component("settings"),
	}
}

func (s *service) Status(ctx context.Context) model.SystemStatus {
	status, err := s.repo.GetStatus(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("Failed to read system status, defaulting to ON", "error", err)
		}
		return model.StatusOn
	}
	if !status.Valid() {
		s.log.Warn("Stored system status is invalid, defaulting to ON", "status", status)
		return model.StatusOn
	}
	return status
}

func (s *service) SetStatus(ctx context.Context, status model.SystemStatus) error {
	if !status.Valid() {
		return apperrors.Validation("Invalid system status", map[string]any{
			"status": "status must be one of: ON OFF",
		})
	}
	if err := s.repo.SetStatus(ctx, status); err != nil {
		s.log.Error("Failed to save system status", "status", status, "error", err)
		return apperrors.Unavailable("settings store").WithCause(err)
	}
	s.log.Info("System status updated", "status", status)
	return nil
}

func (s *service) ToggleStatus(ctx context.Context) (model.SystemStatus, error) {
	next := s.Status(ctx).Toggle()
	if err := s.SetStatus(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

// Agenda merges the stored document field by field over the default, so a
// partial document keeps the default for the fields it lacks.
func (s *service) Agenda(ctx context.Context) model.AgendaConfig {
	override, err := s.repo.GetAgenda(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Debug("No stored agenda, using default")
		} else {
			s.log.Warn("Failed to read agenda, using default", "error", err)
		}
		return override.MergeInto(s.defaultAgenda)
	}

	merged := override.MergeInto(s.defaultAgenda)
	if err := s.validator.ValidateAgenda(&merged); err != nil {
		s.log.Warn("Stored agenda is invalid, using default", "error", err)
		return (*model.AgendaOverride)(nil).MergeInto(s.defaultAgenda)
	}
	return merged
}

func (s *service) SaveAgenda(ctx context.Context, cfg model.AgendaConfig) (model.AgendaConfig, error) {
	if err := s.validator.ValidateAgenda(&cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return model.AgendaConfig{}, apperrors.Validation("Invalid agenda configuration", verrs.Details())
		}
		return model.AgendaConfig{}, apperrors.Validation("Invalid agenda configuration", map[string]any{"error": err.Error()})
	}

	if err := s.repo.SaveAgenda(ctx, cfg); err != nil {
		s.log.Error("Failed to save agenda", "error", err)
		return model.AgendaConfig{}, apperrors.Unavailable("settings store").WithCause(err)
	}

	s.log.Info("Agenda updated",
		"start_date", cfg.StartDate,
		"end_date", cfg.EndDate,
		"days_of_week", cfg.DaysOfWeek,
		"start_hour", cfg.StartHour,
		"end_hour", cfg.EndHour,
		"interval", cfg.Interval,
	)
	return cfg, nil
}
