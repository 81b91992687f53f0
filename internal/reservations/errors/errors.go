package errors

import "errors"

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")

	ErrTableNotFound = errors.New("table not found")

	ErrReservationNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid ID format")

	ErrSlotTaken = errors.New("requested slot overlaps an existing reservation")
)
