package service

import (
	"context"

	"tablebook/pkg/kafka"
	"tablebook/pkg/logger"
	"tablebook/pkg/model"
)

const (
	TopicReservationEvents    = "reservations.events"
	TopicReservationEventsDLQ = "reservations.events.dlq"

	EventReservationCreated   = "reservation.created"
	EventReservationCancelled = "reservation.cancelled"

	eventSchemaVersion = "1"
)

// ReservationCreatedEvent is published after a reservation commits.
type ReservationCreatedEvent struct {
	RestaurantID  string  `json:"restaurant_id"`
	TableID       string  `json:"table_id"`
	ReservationID string  `json:"reservation_id"`
	Date          string  `json:"date"`
	StartHour     float64 `json:"start_hour"`
	DurationHours float64 `json:"duration_hours"`
	PartySize     int     `json:"party_size"`
	GuestRef      string  `json:"guest_ref,omitempty"`
}

// ReservationCancelledEvent is published after a reservation is removed.
type ReservationCancelledEvent struct {
	RestaurantID  string `json:"restaurant_id"`
	TableID       string `json:"table_id"`
	ReservationID string `json:"reservation_id"`
}

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// EventPublisher emits reservation lifecycle events. Publishing is
// best-effort: the reservation is already durable when these run, so a
// broker outage is logged, never surfaced to the caller.
type EventPublisher struct {
	producer messagePublisher
	source   string
	log      *logger.Logger
}

func NewEventPublisher(producer messagePublisher, source string, log *logger.Logger) *EventPublisher {
	return &EventPublisher{
		producer: producer,
		source:   source,
		log:      log,
	}
}

func (p *EventPublisher) ReservationCreated(ctx context.Context, restaurantID, tableID string, res *model.Reservation) {
	if p == nil || p.producer == nil {
		return
	}

	event := ReservationCreatedEvent{
		RestaurantID:  restaurantID,
		TableID:       tableID,
		ReservationID: res.ID,
		Date:          res.Date,
		StartHour:     res.StartHour,
		DurationHours: res.DurationHours,
		PartySize:     res.PartySize,
		GuestRef:      res.GuestRef,
	}

	msg := kafka.NewMessage().
		WithKey(restaurantID).
		WithValue(event).
		WithEventType(EventReservationCreated).
		WithSchemaVersion(eventSchemaVersion).
		WithSource(p.source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish reservation created event",
			"reservation_id", res.ID,
			"restaurant_id", restaurantID,
			"error", err,
		)
	}
}

func (p *EventPublisher) ReservationCancelled(ctx context.Context, restaurantID, tableID, reservationID string) {
	if p == nil || p.producer == nil {
		return
	}

	event := ReservationCancelledEvent{
		RestaurantID:  restaurantID,
		TableID:       tableID,
		ReservationID: reservationID,
	}

	msg := kafka.NewMessage().
		WithKey(restaurantID).
		WithValue(event).
		WithEventType(EventReservationCancelled).
		WithSchemaVersion(eventSchemaVersion).
		WithSource(p.source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish reservation cancelled event",
			"reservation_id", reservationID,
			"restaurant_id", restaurantID,
			"error", err,
		)
	}
}
