package integrationtests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	reserrors "tablebook/internal/reservations/errors"
	"tablebook/internal/reservations/repository"
	"tablebook/pkg/client"
	"tablebook/pkg/config"
	"tablebook/pkg/logger"
	"tablebook/pkg/model"
	"tablebook/test/integration/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ServiceName = "reservations-integration-tests"

// The admission write path is exercised against a real MongoDB because its
// correctness rests on single-document atomicity, which no fake can prove.
func newTestConfig(t *testing.T, helper *common.MongoHelper) *config.Config {
	t.Helper()

	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: ServiceName})
	return &config.Config{
		MongoDatabaseName: helper.DBName,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		Log:               log,
		Client:            &client.Client{Mongo: helper.Client},
	}
}

func seedRestaurant(t *testing.T, repo repository.RestaurantRepository) *model.Restaurant {
	t.Helper()

	restaurant := &model.Restaurant{
		Name:           "Gostilna Integracija",
		OperatingStart: 8,
		OperatingEnd:   23,
		Tables: []model.Table{
			{Name: "Miza 1", Capacity: 4},
			{Name: "Miza 2", Capacity: 2},
		},
	}
	require.NoError(t, repo.Create(context.Background(), restaurant))
	return restaurant
}

func reservation(date string, start, duration float64, guestRef string) *model.Reservation {
	return &model.Reservation{
		Date:          date,
		StartHour:     start,
		DurationHours: duration,
		PartySize:     2,
		GuestName:     "Integration Guest",
		GuestRef:      guestRef,
	}
}

func TestRestaurantRepository(t *testing.T) {
	uri := common.MongoURI(t)
	helper := common.NewMongoHelper(t, uri, "")
	defer helper.Close(t)
	helper.CleanCollection(t, common.RestaurantsCollection)

	cfg := newTestConfig(t, helper)
	repo := repository.NewMongoRestaurantRepository(cfg)
	ctx := context.Background()

	restaurant := seedRestaurant(t, repo)
	tableID := restaurant.Tables[0].ID

	t.Run("round trip", func(t *testing.T) {
		found, err := repo.FindByID(ctx, restaurant.ID)
		require.NoError(t, err)
		assert.Equal(t, restaurant.Name, found.Name)
		require.Len(t, found.Tables, 2)
		assert.Equal(t, 4, found.Tables[0].Capacity)
	})

	t.Run("append and overlap rejection", func(t *testing.T) {
		first := reservation("2026-10-01", 18.0, 1.5, "")
		require.NoError(t, repo.AppendReservation(ctx, restaurant.ID, tableID, first))
		assert.NotEmpty(t, first.ID)

		overlapping := reservation("2026-10-01", 18.5, 1.5, "")
		err := repo.AppendReservation(ctx, restaurant.ID, tableID, overlapping)
		assert.ErrorIs(t, err, reserrors.ErrSlotTaken)

		adjacent := reservation("2026-10-01", 19.5, 1.5, "")
		require.NoError(t, repo.AppendReservation(ctx, restaurant.ID, tableID, adjacent))

		otherDate := reservation("2026-10-02", 18.0, 1.5, "")
		require.NoError(t, repo.AppendReservation(ctx, restaurant.ID, tableID, otherDate))
	})

	t.Run("remove frees the slot", func(t *testing.T) {
		res := reservation("2026-11-01", 12.0, 1.5, "")
		require.NoError(t, repo.AppendReservation(ctx, restaurant.ID, tableID, res))

		require.NoError(t, repo.RemoveReservation(ctx, restaurant.ID, tableID, res.ID))

		err := repo.RemoveReservation(ctx, restaurant.ID, tableID, res.ID)
		assert.ErrorIs(t, err, reserrors.ErrReservationNotFound)

		retry := reservation("2026-11-01", 12.0, 1.5, "")
		require.NoError(t, repo.AppendReservation(ctx, restaurant.ID, tableID, retry))
	})

	t.Run("guest reservations across tables", func(t *testing.T) {
		otherTableID := restaurant.Tables[1].ID

		require.NoError(t, repo.AppendReservation(ctx, restaurant.ID, tableID, reservation("2026-12-01", 10.0, 1.5, "guest-77")))
		require.NoError(t, repo.AppendReservation(ctx, restaurant.ID, otherTableID, reservation("2026-12-01", 14.0, 1.5, "guest-77")))
		require.NoError(t, repo.AppendReservation(ctx, restaurant.ID, otherTableID, reservation("2026-12-02", 14.0, 1.5, "guest-77")))

		found, err := repo.FindGuestReservations(ctx, "guest-77", "2026-12-01")
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})
}

// Two writers race for the same slot; the conditional update must admit
// exactly one.
func TestConcurrentAppend(t *testing.T) {
	uri := common.MongoURI(t)
	helper := common.NewMongoHelper(t, uri, "")
	defer helper.Close(t)
	helper.CleanCollection(t, common.RestaurantsCollection)

	cfg := newTestConfig(t, helper)
	repo := repository.NewMongoRestaurantRepository(cfg)

	restaurant := seedRestaurant(t, repo)
	tableID := restaurant.Tables[0].ID

	const writers = 8
	errs := make([]error, writers)
	var wg sync.WaitGroup
	wg.Add(writers)

	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			res := reservation("2026-10-01", 19.0, 1.5, "")
			errs[i] = repo.AppendReservation(context.Background(), restaurant.ID, tableID, res)
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.True(t, errors.Is(err, reserrors.ErrSlotTaken), "unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)

	found, err := repo.FindByID(context.Background(), restaurant.ID)
	require.NoError(t, err)
	assert.Len(t, found.FindTable(tableID).ReservationsOn("2026-10-01"), 1)
}
