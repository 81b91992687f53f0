package model

import "time"

// Restaurant is the aggregate root: one document per restaurant with its
// tables and their reservations embedded. Operating hours are fractional
// restaurant-local hours (8.5 means 08:30).
type Restaurant struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name           string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email          string    `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	OperatingStart float64   `json:"operating_start" bson:"operating_start" validate:"min=0,max=24"`
	OperatingEnd   float64   `json:"operating_end" bson:"operating_end" validate:"min=0,max=24,gtfield=OperatingStart"`
	Tables         []Table   `json:"tables" bson:"tables" validate:"dive"`
	CreatedAt      time.Time `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}

type Table struct {
	ID           string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name         string        `json:"name" bson:"name" validate:"required,min=1,max=50"`
	Capacity     int           `json:"capacity" bson:"capacity" validate:"required,min=1,max=50"`
	Reservations []Reservation `json:"reservations" bson:"reservations" validate:"omitempty,dive"`
}

// FindTable returns the table with the given ID, or nil.
func (r *Restaurant) FindTable(tableID string) *Table {
	for i := range r.Tables {
		if r.Tables[i].ID == tableID {
			return &r.Tables[i]
		}
	}
	return nil
}

// ReservationsOn returns the table's reservations for a calendar date.
func (t *Table) ReservationsOn(date string) []Reservation {
	var out []Reservation
	for _, res := range t.Reservations {
		if res.Date == date {
			out = append(out, res)
		}
	}
	return out
}
