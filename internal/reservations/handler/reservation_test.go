package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "tablebook/pkg/errors"
	"tablebook/pkg/logger"
	"tablebook/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock service for testing
type mockReservationService struct {
	createReservationFunc func(ctx context.Context, restaurantID, tableID string, res *model.Reservation) error
	cancelReservationFunc func(ctx context.Context, restaurantID, tableID, reservationID string) error
	getAvailabilityFunc   func(ctx context.Context, restaurantID string, query *model.AvailabilityQuery) ([]model.TableAvailability, error)
	getRestaurantFunc     func(ctx context.Context, id string) (*model.Restaurant, error)
	getReservationFunc    func(ctx context.Context, restaurantID, reservationID string) (*model.Reservation, string, error)
}

func (m *mockReservationService) CreateRestaurant(ctx context.Context, restaurant *model.Restaurant) error {
	return nil
}

func (m *mockReservationService) GetRestaurant(ctx context.Context, id string) (*model.Restaurant, error) {
	if m.getRestaurantFunc != nil {
		return m.getRestaurantFunc(ctx, id)
	}
	return &model.Restaurant{ID: id}, nil
}

func (m *mockReservationService) ListRestaurants(ctx context.Context, limit int, offset int64) ([]*model.Restaurant, int64, error) {
	return []*model.Restaurant{}, 0, nil
}

func (m *mockReservationService) GetAvailability(ctx context.Context, restaurantID string, query *model.AvailabilityQuery) ([]model.TableAvailability, error) {
	if m.getAvailabilityFunc != nil {
		return m.getAvailabilityFunc(ctx, restaurantID, query)
	}
	return nil, nil
}

func (m *mockReservationService) CreateReservation(ctx context.Context, restaurantID, tableID string, res *model.Reservation) error {
	if m.createReservationFunc != nil {
		return m.createReservationFunc(ctx, restaurantID, tableID, res)
	}
	return nil
}

func (m *mockReservationService) CancelReservation(ctx context.Context, restaurantID, tableID, reservationID string) error {
	if m.cancelReservationFunc != nil {
		return m.cancelReservationFunc(ctx, restaurantID, tableID, reservationID)
	}
	return nil
}

func (m *mockReservationService) GetReservation(ctx context.Context, restaurantID, reservationID string) (*model.Reservation, string, error) {
	if m.getReservationFunc != nil {
		return m.getReservationFunc(ctx, restaurantID, reservationID)
	}
	return nil, "", apperrors.NotFoundWithID("Reservation", reservationID)
}

func newTestRouter(svc *mockReservationService) *httprouter.Router {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	h := NewReservationHandler(svc, log)
	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func TestCreateReservation_HTTP(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &mockReservationService{
			createReservationFunc: func(ctx context.Context, restaurantID, tableID string, res *model.Reservation) error {
				res.ID = "abc123abc123abc123abc123"
				res.EndHour = res.StartHour + res.DurationHours
				return nil
			},
		}
		router := newTestRouter(svc)

		body, _ := json.Marshal(map[string]any{
			"date":           "2026-10-01",
			"start_hour":     18.5,
			"duration_hours": 1.5,
			"party_size":     4,
			"guest_name":     "Ana Novak",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants/r1/tables/t1/reservations", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Data model.Reservation `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "abc123abc123abc123abc123", resp.Data.ID)
		assert.Equal(t, 20.0, resp.Data.EndHour)
	})

	t.Run("malformed body", func(t *testing.T) {
		router := newTestRouter(&mockReservationService{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants/r1/tables/t1/reservations", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("slot conflict maps to 409", func(t *testing.T) {
		svc := &mockReservationService{
			createReservationFunc: func(ctx context.Context, restaurantID, tableID string, res *model.Reservation) error {
				return apperrors.SlotConflict("Requested slot overlaps an existing reservation on this table")
			},
		}
		router := newTestRouter(svc)

		body, _ := json.Marshal(map[string]any{
			"date":       "2026-10-01",
			"start_hour": 18.5,
			"guest_name": "Ana Novak",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants/r1/tables/t1/reservations", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusConflict, rec.Code)

		var resp struct {
			Code string `json:"code"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, apperrors.CodeConflict, resp.Code)
	})

	t.Run("capacity gate maps to 422", func(t *testing.T) {
		svc := &mockReservationService{
			createReservationFunc: func(ctx context.Context, restaurantID, tableID string, res *model.Reservation) error {
				return apperrors.CapacityExceeded(8, 4)
			},
		}
		router := newTestRouter(svc)

		body, _ := json.Marshal(map[string]any{
			"date":       "2026-10-01",
			"start_hour": 18.5,
			"party_size": 8,
			"guest_name": "Ana Novak",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants/r1/tables/t1/reservations", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestCancelReservation_HTTP(t *testing.T) {
	t.Run("no content on success", func(t *testing.T) {
		var gotRestaurant, gotTable, gotReservation string
		svc := &mockReservationService{
			cancelReservationFunc: func(ctx context.Context, restaurantID, tableID, reservationID string) error {
				gotRestaurant, gotTable, gotReservation = restaurantID, tableID, reservationID
				return nil
			},
		}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/restaurants/r1/tables/t1/reservations/res1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "r1", gotRestaurant)
		assert.Equal(t, "t1", gotTable)
		assert.Equal(t, "res1", gotReservation)
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		svc := &mockReservationService{
			cancelReservationFunc: func(ctx context.Context, restaurantID, tableID, reservationID string) error {
				return apperrors.NotFoundWithID("Reservation", reservationID)
			},
		}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/restaurants/r1/tables/t1/reservations/res1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetReservation_HTTP(t *testing.T) {
	t.Run("returns reservation with its table", func(t *testing.T) {
		svc := &mockReservationService{
			getReservationFunc: func(ctx context.Context, restaurantID, reservationID string) (*model.Reservation, string, error) {
				return &model.Reservation{ID: reservationID, Date: "2026-10-01", StartHour: 18.5}, "t1", nil
			},
		}
		router := newTestRouter(svc)

		// The path carries no table segment; the service resolves it.
		req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/r1/reservations/res1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data struct {
				TableID     string            `json:"table_id"`
				Reservation model.Reservation `json:"reservation"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "t1", resp.Data.TableID)
		assert.Equal(t, "res1", resp.Data.Reservation.ID)
	})

	t.Run("unknown reservation maps to 404", func(t *testing.T) {
		router := newTestRouter(&mockReservationService{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/r1/reservations/missing", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetAvailability_HTTP(t *testing.T) {
	t.Run("returns table availability", func(t *testing.T) {
		svc := &mockReservationService{
			getAvailabilityFunc: func(ctx context.Context, restaurantID string, query *model.AvailabilityQuery) ([]model.TableAvailability, error) {
				return []model.TableAvailability{
					{TableID: "t1", TableName: "Terasa 1", Capacity: 4, FreeStarts: []float64{17.5, 20.5}},
				}, nil
			},
		}
		router := newTestRouter(svc)

		body, _ := json.Marshal(map[string]any{"date": "2026-10-01", "party_size": 2})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants/r1/availability", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data []model.TableAvailability `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, []float64{17.5, 20.5}, resp.Data[0].FreeStarts)
	})

	t.Run("no free tables yields empty list not null", func(t *testing.T) {
		router := newTestRouter(&mockReservationService{})

		body, _ := json.Marshal(map[string]any{"date": "2026-10-01"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants/r1/availability", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"data":[]`)
	})
}
