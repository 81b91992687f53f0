package model

import (
	"time"

	"tablebook/pkg/timeslot"
)

// Reservation is embedded in its owning table. EndHour is denormalized
// (StartHour + DurationHours) so the storage layer can express the overlap
// predicate as a plain query filter. GuestRef links an authenticated guest;
// empty means anonymous.
type Reservation struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Date          string    `json:"date" bson:"date" validate:"required,reservation_date"`
	StartHour     float64   `json:"start_hour" bson:"start_hour" validate:"required,fractional_hour"`
	EndHour       float64   `json:"end_hour,omitempty" bson:"end_hour" validate:"omitempty"`
	DurationHours float64   `json:"duration_hours,omitempty" bson:"duration_hours" validate:"omitempty,gt=0,max=24"`
	PartySize     int       `json:"party_size,omitempty" bson:"party_size" validate:"omitempty,min=1,max=50"`
	GuestName     string    `json:"guest_name" bson:"guest_name" validate:"required,min=2,max=100"`
	GuestPhone    string    `json:"guest_phone,omitempty" bson:"guest_phone,omitempty" validate:"omitempty,max=20"`
	GuestRef      string    `json:"guest_ref,omitempty" bson:"guest_ref,omitempty" validate:"omitempty,max=64"`
	CreatedAt     time.Time `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}

func (r *Reservation) Interval() timeslot.Interval {
	return timeslot.New(r.StartHour, r.DurationHours)
}

// AvailabilityQuery describes a free-slot search over one restaurant's
// tables. Zero values mean "use the configured default".
type AvailabilityQuery struct {
	Date             string  `json:"date" validate:"required,reservation_date"`
	PartySize        int     `json:"party_size,omitempty" validate:"omitempty,min=1,max=50"`
	DurationHours    float64 `json:"duration_hours,omitempty" validate:"omitempty,gt=0,max=24"`
	GranularityHours float64 `json:"granularity_hours,omitempty" validate:"omitempty,gt=0,lte=12"`
}

// TableAvailability lists the free candidate starts for one eligible table,
// ascending. Tables with no free starts are omitted from results entirely.
type TableAvailability struct {
	TableID    string    `json:"table_id"`
	TableName  string    `json:"table_name"`
	Capacity   int       `json:"capacity"`
	FreeStarts []float64 `json:"free_starts"`
}
