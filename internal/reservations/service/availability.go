package service

import (
	"context"

	apperrors "tablebook/pkg/errors"
	"tablebook/pkg/model"
	"tablebook/pkg/timeslot"
)

// GetAvailability computes the free candidate starts per eligible table for
// one date. It is a plain snapshot read: a returned slot may be claimed by a
// concurrent create before the guest books it, in which case the follow-up
// create fails with SlotConflict.
func (s *reservationService) GetAvailability(ctx context.Context, restaurantID string, query *model.AvailabilityQuery) ([]model.TableAvailability, error) {
	if restaurantID == "" {
		return nil, apperrors.InvalidInput("Restaurant ID cannot be empty")
	}

	s.applyQueryDefaults(query)
	if err := s.validator.ValidateQuery(query); err != nil {
		s.cfg.Log.Warn("Availability query validation failed", "error", err)
		return nil, apperrors.Validation("Availability query validation failed", map[string]any{"error": err.Error()})
	}

	restaurant, err := s.repo.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, s.mapLookupError(err, "Restaurant", restaurantID)
	}

	candidates := timeslot.Grid(restaurant.OperatingStart, restaurant.OperatingEnd, query.DurationHours, query.GranularityHours)

	var results []model.TableAvailability
	for i := range restaurant.Tables {
		table := &restaurant.Tables[i]
		if table.Capacity < query.PartySize {
			continue
		}

		free := freeStarts(candidates, query.DurationHours, table.ReservationsOn(query.Date))
		if len(free) == 0 {
			continue
		}

		results = append(results, model.TableAvailability{
			TableID:    table.ID,
			TableName:  table.Name,
			Capacity:   table.Capacity,
			FreeStarts: free,
		})
	}

	s.cfg.Log.Debug("Availability computed",
		"restaurant_id", restaurantID,
		"date", query.Date,
		"party_size", query.PartySize,
		"eligible_tables", len(results),
	)

	return results, nil
}

func (s *reservationService) applyQueryDefaults(query *model.AvailabilityQuery) {
	if query.PartySize <= 0 {
		query.PartySize = s.cfg.DefaultPartySize
	}
	if query.DurationHours <= 0 {
		query.DurationHours = s.cfg.DefaultDurationHours
	}
	if query.GranularityHours <= 0 {
		query.GranularityHours = s.cfg.DefaultGranularityHours
	}
}

func freeStarts(candidates []float64, duration float64, existing []model.Reservation) []float64 {
	var free []float64
	for _, start := range candidates {
		candidate := timeslot.New(start, duration)

		conflict := false
		for i := range existing {
			if candidate.Overlaps(existing[i].Interval()) {
				conflict = true
				break
			}
		}

		if !conflict {
			free = append(free, start)
		}
	}
	return free
}
