package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"agendamento/pkg/logger"
	"agendamento/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details renders the errors as a field to message map for API responses.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

// BookingValidator checks the wizard payloads and the agenda configuration.
// Field names in errors are the JSON names the client sent.
type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterStructValidation(validateAgendaRange, model.AgendaConfig{})

	log.Debug("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

// validateAgendaRange rejects a window whose start falls after its end.
// Both dates are YYYY-MM-DD so string order is calendar order.
func validateAgendaRange(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(model.AgendaConfig)
	if cfg.StartDate != "" && cfg.EndDate != "" && cfg.StartDate > cfg.EndDate {
		sl.ReportError(cfg.EndDate, "endDate", "EndDate", "gtefield_date", "startDate")
	}
}

func (v *BookingValidator) ValidateForm(form *model.BookingForm) error {
	return v.check(form)
}

func (v *BookingValidator) ValidateSlot(slot *model.Slot) error {
	return v.check(slot)
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	return v.check(booking)
}

func (v *BookingValidator) ValidateAgenda(cfg *model.AgendaConfig) error {
	return v.check(cfg)
}

func (v *BookingValidator) check(target any) error {
	if err := v.validate.Struct(target); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "len":
			message = fmt.Sprintf("%s must have exactly %s digits", err.Field(), err.Param())
		case "min":
			if err.Kind() == reflect.Slice {
				message = fmt.Sprintf("%s must have at least %s item(s)", err.Field(), err.Param())
			} else if err.Kind() == reflect.String {
				message = fmt.Sprintf("%s must have at least %s digits", err.Field(), err.Param())
			} else {
				message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
			}
		case "max":
			if err.Kind() == reflect.String {
				message = fmt.Sprintf("%s must have at most %s characters", err.Field(), err.Param())
			} else {
				message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
			}
		case "numeric":
			message = fmt.Sprintf("%s must contain digits only", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must match the layout %s", err.Field(), err.Param())
		case "unique":
			message = fmt.Sprintf("%s must not repeat values", err.Field())
		case "gtfield":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "gtefield_date":
			message = fmt.Sprintf("%s must not be before %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
