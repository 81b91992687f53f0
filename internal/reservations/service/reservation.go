package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	reserrors "tablebook/internal/reservations/errors"
	"tablebook/internal/reservations/repository"
	"tablebook/internal/reservations/validator"
	"tablebook/pkg/config"
	apperrors "tablebook/pkg/errors"
	"tablebook/pkg/model"
	"tablebook/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

type ReservationService interface {
	CreateRestaurant(ctx context.Context, restaurant *model.Restaurant) error
	GetRestaurant(ctx context.Context, id string) (*model.Restaurant, error)
	ListRestaurants(ctx context.Context, limit int, offset int64) ([]*model.Restaurant, int64, error)
	GetAvailability(ctx context.Context, restaurantID string, query *model.AvailabilityQuery) ([]model.TableAvailability, error)
	CreateReservation(ctx context.Context, restaurantID, tableID string, res *model.Reservation) error
	CancelReservation(ctx context.Context, restaurantID, tableID, reservationID string) error
	GetReservation(ctx context.Context, restaurantID, reservationID string) (*model.Reservation, string, error)
}

type reservationService struct {
	repo      repository.RestaurantRepository
	lockRepo  repository.SlotLockRepository
	validator *validator.ReservationValidator
	events    *EventPublisher
	cfg       *config.Config
}

func NewReservationService(
	repo repository.RestaurantRepository,
	lockRepo repository.SlotLockRepository,
	validator *validator.ReservationValidator,
	events *EventPublisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: validator,
		events:    events,
		cfg:       cfg,
	}
}

func (s *reservationService) CreateRestaurant(ctx context.Context, restaurant *model.Restaurant) error {
	s.applyRestaurantDefaults(restaurant)
	restaurant.Name = sanitizer.TrimAndNormalize(restaurant.Name)
	for i := range restaurant.Tables {
		restaurant.Tables[i].Name = sanitizer.TrimAndNormalize(restaurant.Tables[i].Name)
	}

	if err := s.validator.ValidateRestaurant(restaurant); err != nil {
		s.cfg.Log.Warn("Restaurant validation failed", "error", err)
		return apperrors.Validation("Restaurant validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, restaurant); err != nil {
		s.cfg.Log.Error("Failed to create restaurant", "error", err)
		return mapStorageError("Failed to create restaurant", err)
	}

	s.cfg.Log.Info("Restaurant created successfully",
		"id", restaurant.ID,
		"name", restaurant.Name,
		"tables", len(restaurant.Tables),
	)
	return nil
}

func (s *reservationService) GetRestaurant(ctx context.Context, id string) (*model.Restaurant, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Restaurant ID cannot be empty")
	}

	restaurant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, "Restaurant", id)
	}

	return restaurant, nil
}

func (s *reservationService) ListRestaurants(ctx context.Context, limit int, offset int64) ([]*model.Restaurant, int64, error) {
	var count int64
	var restaurants []*model.Restaurant
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count restaurants", "error", errCount)
			errCount = mapStorageError("Failed to count restaurants", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		restaurants, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list restaurants", "error", errFind)
			errFind = mapStorageError("Failed to retrieve restaurants", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return restaurants, count, nil
}

// CreateReservation admits a reservation. All gates that depend on live
// reservation state run inside the transaction; the storage append itself
// re-checks overlap, so an availability read that has gone stale can only
// produce SlotConflict, never a double booking.
func (s *reservationService) CreateReservation(ctx context.Context, restaurantID, tableID string, res *model.Reservation) error {
	if restaurantID == "" || tableID == "" {
		return apperrors.InvalidInput("Restaurant ID and table ID are required")
	}

	s.applyDefaults(res)
	s.sanitize(res)
	if err := s.validate(res); err != nil {
		return err
	}

	restaurant, err := s.repo.FindByID(ctx, restaurantID)
	if err != nil {
		return s.mapLookupError(err, "Restaurant", restaurantID)
	}

	table := restaurant.FindTable(tableID)
	if table == nil {
		return apperrors.NotFoundWithID("Table", tableID)
	}

	if res.PartySize > table.Capacity {
		return apperrors.CapacityExceeded(res.PartySize, table.Capacity)
	}

	end := res.StartHour + res.DurationHours
	if res.StartHour < restaurant.OperatingStart || end > restaurant.OperatingEnd {
		return apperrors.OutsideOperatingHours(res.StartHour, end, restaurant.OperatingStart, restaurant.OperatingEnd)
	}

	// Advisory lock on the exact slot coordinates. Two identical concurrent
	// requests fail fast here instead of both entering the transaction.
	lockID, err := s.acquireSlotLock(ctx, restaurantID, tableID, res.Date, res.StartHour)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyGuestLimits(sessCtx, res); err != nil {
			return err
		}

		if err := s.repo.AppendReservation(sessCtx, restaurantID, tableID, res); err != nil {
			if errors.Is(err, reserrors.ErrSlotTaken) {
				return apperrors.SlotConflict("Requested slot overlaps an existing reservation on this table")
			}
			return mapStorageError("Failed to store reservation", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create reservation",
			"restaurant_id", restaurantID,
			"table_id", tableID,
			"date", res.Date,
			"start_hour", res.StartHour,
			"error", err,
		)
		if apperrors.IsAppError(err) {
			return err
		}
		// A failure starting or committing the session itself.
		return mapStorageError("Failed to create reservation", err)
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", res.ID,
		"restaurant_id", restaurantID,
		"table_id", tableID,
		"date", res.Date,
		"start_hour", res.StartHour,
		"party_size", res.PartySize,
	)

	s.events.ReservationCreated(ctx, restaurantID, tableID, res)
	return nil
}

func (s *reservationService) CancelReservation(ctx context.Context, restaurantID, tableID, reservationID string) error {
	if restaurantID == "" || tableID == "" || reservationID == "" {
		return apperrors.InvalidInput("Restaurant ID, table ID and reservation ID are required")
	}

	restaurant, err := s.repo.FindByID(ctx, restaurantID)
	if err != nil {
		return s.mapLookupError(err, "Restaurant", restaurantID)
	}

	if restaurant.FindTable(tableID) == nil {
		return apperrors.NotFoundWithID("Table", tableID)
	}

	err = s.repo.RemoveReservation(ctx, restaurantID, tableID, reservationID)
	if err != nil {
		if errors.Is(err, reserrors.ErrReservationNotFound) || errors.Is(err, reserrors.ErrTableNotFound) {
			return apperrors.NotFoundWithID("Reservation", reservationID)
		}
		if errors.Is(err, reserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid reservation ID format")
		}
		s.cfg.Log.Error("Failed to cancel reservation",
			"restaurant_id", restaurantID,
			"table_id", tableID,
			"reservation_id", reservationID,
			"error", err,
		)
		return mapStorageError("Failed to cancel reservation", err)
	}

	s.cfg.Log.Info("Reservation cancelled successfully",
		"restaurant_id", restaurantID,
		"table_id", tableID,
		"reservation_id", reservationID,
	)

	s.events.ReservationCancelled(ctx, restaurantID, tableID, reservationID)
	return nil
}

func (s *reservationService) GetReservation(ctx context.Context, restaurantID, reservationID string) (*model.Reservation, string, error) {
	if restaurantID == "" || reservationID == "" {
		return nil, "", apperrors.InvalidInput("Restaurant ID and reservation ID are required")
	}

	restaurant, err := s.repo.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, "", s.mapLookupError(err, "Restaurant", restaurantID)
	}

	for i := range restaurant.Tables {
		table := &restaurant.Tables[i]
		for j := range table.Reservations {
			if table.Reservations[j].ID == reservationID {
				return &table.Reservations[j], table.ID, nil
			}
		}
	}

	return nil, "", apperrors.NotFoundWithID("Reservation", reservationID)
}

// --- Helpers ---

func (s *reservationService) applyDefaults(res *model.Reservation) {
	if res.DurationHours <= 0 {
		res.DurationHours = s.cfg.DefaultDurationHours
	}
	if res.PartySize <= 0 {
		res.PartySize = s.cfg.DefaultPartySize
	}
}

func (s *reservationService) applyRestaurantDefaults(r *model.Restaurant) {
	if r.OperatingStart == 0 && r.OperatingEnd == 0 {
		r.OperatingStart = s.cfg.DefaultOperatingStart
		r.OperatingEnd = s.cfg.DefaultOperatingEnd
	}
}

func (s *reservationService) sanitize(res *model.Reservation) {
	res.GuestName = sanitizer.NormalizeGuestName(res.GuestName)
	res.GuestPhone = sanitizer.NormalizePhone(res.GuestPhone)
	res.GuestRef = sanitizer.TrimAndNormalize(res.GuestRef)
}

func (s *reservationService) validate(res *model.Reservation) error {
	if err := s.validator.Validate(res); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *reservationService) mapLookupError(err error, resource, id string) error {
	if errors.Is(err, reserrors.ErrRestaurantNotFound) {
		return apperrors.NotFoundWithID(resource, id)
	}
	if errors.Is(err, reserrors.ErrInvalidID) {
		return apperrors.InvalidInput(fmt.Sprintf("Invalid %s ID format", resource))
	}
	return mapStorageError(fmt.Sprintf("Failed to retrieve %s", resource), err)
}

// isTransientStorageError reports whether err is a transient driver failure:
// a network error, a server selection failure, or an exceeded deadline.
func isTransientStorageError(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var selectionErr topology.ServerSelectionError
	return errors.As(err, &selectionErr)
}

// mapStorageError separates retryable storage outages (503) from everything
// else (500). Callers seeing SERVICE_UNAVAILABLE may safely retry the whole
// operation; no partial state is left behind.
func mapStorageError(message string, err error) error {
	if isTransientStorageError(err) {
		return apperrors.Unavailable("storage")
	}
	return apperrors.Internal(message, err)
}

// verifyGuestLimits enforces the per-guest gates for authenticated guests:
// no overlapping reservation anywhere, and a daily reservation cap.
// Anonymous reservations (empty GuestRef) skip both.
//
// The read spans other restaurants' documents outside their slot locks, so
// two simultaneous creates by the same guest at different restaurants can
// both pass; the gate is best-effort across restaurants. The per-table
// no-overlap invariant does not depend on it.
func (s *reservationService) verifyGuestLimits(ctx context.Context, res *model.Reservation) error {
	if res.GuestRef == "" {
		return nil
	}

	existing, err := s.repo.FindGuestReservations(ctx, res.GuestRef, res.Date)
	if err != nil {
		return mapStorageError("Failed to check guest reservations", err)
	}

	interval := res.Interval()
	for _, other := range existing {
		if other.ID == res.ID {
			continue
		}
		if interval.Overlaps(other.Interval()) {
			return apperrors.Conflict(fmt.Sprintf(
				"Guest already has a reservation from %.2f to %.2f on %s",
				other.StartHour, other.EndHour, other.Date,
			))
		}
	}

	if len(existing) >= s.cfg.MaxDailyReservations {
		return apperrors.DailyLimitReached(s.cfg.MaxDailyReservations)
	}

	return nil
}

// acquireSlotLock creates an advisory lock keyed by the exact slot
// coordinates. Returns the lock ID, or SlotConflict if another admission
// attempt currently holds the same slot.
func (s *reservationService) acquireSlotLock(ctx context.Context, restaurantID, tableID, date string, startHour float64) (string, error) {
	startMinutes := int(math.Round(startHour * 60))
	lockID := fmt.Sprintf("slot_%s_%s_%s_%d", restaurantID, tableID, date, startMinutes)

	lock := &model.SlotLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.SlotLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.SlotConflict("This slot is currently being reserved by another request. Please try again.")
		}
		return "", mapStorageError("Failed to acquire slot lock", err)
	}

	return lockID, nil
}

// releaseSlotLock removes the advisory lock
func (s *reservationService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
