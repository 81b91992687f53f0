package validator

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"tablebook/pkg/logger"
	"tablebook/pkg/model"

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

type ReservationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	v := validator.New()

	if err := v.RegisterValidation("fractional_hour", validateFractionalHour); err != nil {
		log.Fatal("Failed to register 'fractional_hour' validator",
			"error", err,
		)
	}

	if err := v.RegisterValidation("reservation_date", validateReservationDate); err != nil {
		log.Fatal("Failed to register 'reservation_date' validator",
			"error", err,
		)
	}

	log.Info("Reservation validator initialized successfully")

	return &ReservationValidator{
		validate: v,
		logger:   log,
	}
}

// validateFractionalHour accepts fractional hours inside a single day,
// e.g. 18.5 for half past six in the evening.
func validateFractionalHour(fl validator.FieldLevel) bool {
	value := fl.Field().Float()

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}

	return value >= 0 && value < 24
}

func validateReservationDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return false
	}

	_, err := time.Parse("2006-01-02", value)
	return err == nil
}

func (v *ReservationValidator) Validate(res *model.Reservation) error {
	if err := v.validate.Struct(res); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if res.DurationHours <= 0 {
		return ValidationErrors{
			ValidationError{
				Field:   "DurationHours",
				Message: "duration_hours must be positive",
			},
		}
	}

	if res.StartHour+res.DurationHours > 24 {
		return ValidationErrors{
			ValidationError{
				Field:   "DurationHours",
				Message: "reservation must end within the same day",
			},
		}
	}

	return nil
}

func (v *ReservationValidator) ValidateQuery(q *model.AvailabilityQuery) error {
	if err := v.validate.Struct(q); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if q.DurationHours <= 0 {
		return ValidationErrors{
			ValidationError{
				Field:   "DurationHours",
				Message: "duration_hours must be positive",
			},
		}
	}

	if q.GranularityHours <= 0 {
		return ValidationErrors{
			ValidationError{
				Field:   "GranularityHours",
				Message: "granularity_hours must be positive",
			},
		}
	}

	return nil
}

func (v *ReservationValidator) ValidateRestaurant(r *model.Restaurant) error {
	if err := v.validate.Struct(r); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if r.OperatingEnd <= r.OperatingStart {
		return ValidationErrors{
			ValidationError{
				Field:   "OperatingEnd",
				Message: "operating_end must be after operating_start",
			},
		}
	}

	return nil
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "fractional_hour":
			message = fmt.Sprintf("%s must be a fractional hour between 0 and 24", err.Field())
		case "reservation_date":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
