// Package timeslot holds the pure time-interval arithmetic the availability
// and admission paths share. Hours are fractional restaurant-local values
// (19.5 means 19:30); an Interval is half-open, [Start, Start+Duration).
package timeslot

import "math"

type Interval struct {
	Start    float64
	Duration float64
}

func New(start, duration float64) Interval {
	return Interval{Start: start, Duration: duration}
}

func (i Interval) End() float64 {
	return i.Start + i.Duration
}

// Overlaps reports whether the two half-open intervals share any instant.
// Touching intervals (one ending exactly when the other begins) do not
// overlap, so boundary-adjacent reservations are allowed.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End() && other.Start < i.End()
}

// Grid generates candidate start hours on a step grid beginning at open,
// keeping every start whose interval of the given duration still fits before
// close. The arithmetic runs in whole minutes so repeated float addition
// cannot drift off the grid.
func Grid(open, close, duration, step float64) []float64 {
	if step <= 0 || duration <= 0 || close <= open {
		return nil
	}

	openMin := int(math.Round(open * 60))
	closeMin := int(math.Round(close * 60))
	durationMin := int(math.Round(duration * 60))
	stepMin := int(math.Round(step * 60))
	if stepMin <= 0 || durationMin <= 0 {
		return nil
	}

	var starts []float64
	for m := openMin; m+durationMin <= closeMin; m += stepMin {
		starts = append(starts, float64(m)/60)
	}
	return starts
}
