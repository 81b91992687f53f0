package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	CodeNotFound              = "NOT_FOUND"
	CodeValidation            = "VALIDATION_ERROR"
	CodeConflict              = "CONFLICT"
	CodeInternal              = "INTERNAL_ERROR"
	CodeTimeout               = "TIMEOUT"
	CodeUnavailable           = "SERVICE_UNAVAILABLE"
	CodeInvalidInput          = "INVALID_INPUT"
	CodeCapacityExceeded      = "CAPACITY_EXCEEDED"
	CodeOutsideOperatingHours = "OUTSIDE_OPERATING_HOURS"
	CodeDailyLimitReached     = "DAILY_LIMIT_REACHED"
)

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

func (e *AppError) ToJSON() []byte {
	response := ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
	data, _ := json.Marshal(response)
	return data
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NotFoundWithID(resource, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// SlotConflict is the admission-race outcome: someone else committed an
// overlapping reservation (or is committing one right now). Safe to retry
// with a different slot after re-querying availability.
func SlotConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func CapacityExceeded(partySize, capacity int) *AppError {
	return &AppError{
		Code:       CodeCapacityExceeded,
		Message:    fmt.Sprintf("party of %d exceeds table capacity of %d", partySize, capacity),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"party_size": partySize,
			"capacity":   capacity,
		},
	}
}

func OutsideOperatingHours(start, end, openingHour, closingHour float64) *AppError {
	return &AppError{
		Code:       CodeOutsideOperatingHours,
		Message:    fmt.Sprintf("slot %.2f-%.2f is outside operating hours %.2f-%.2f", start, end, openingHour, closingHour),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"start_hour":      start,
			"end_hour":        end,
			"operating_start": openingHour,
			"operating_end":   closingHour,
		},
	}
}

func DailyLimitReached(limit int) *AppError {
	return &AppError{
		Code:       CodeDailyLimitReached,
		Message:    fmt.Sprintf("guest already has %d active reservations on this date", limit),
		HTTPStatus: http.StatusTooManyRequests,
		Details: map[string]any{
			"limit": limit,
		},
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func Timeout(message string) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    message,
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

func Unavailable(service string) *AppError {
	return &AppError{
		Code:       CodeUnavailable,
		Message:    fmt.Sprintf("%s is temporarily unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}
