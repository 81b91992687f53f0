package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tablebook/internal/reservations/service"
	httputil "tablebook/pkg/http"
	"tablebook/pkg/logger"
	"tablebook/pkg/model"
)

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

func (h *ReservationHandler) CreateRestaurant(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var restaurant model.Restaurant
	if err := json.NewDecoder(r.Body).Decode(&restaurant); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateRestaurant", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.CreateRestaurant(r.Context(), &restaurant); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateRestaurant", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, restaurant); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateRestaurant", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetRestaurant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	restaurant, err := h.service.GetRestaurant(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetRestaurant", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, restaurant); err != nil {
		h.log.Error("failed to write success response", "handler", "GetRestaurant", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) ListRestaurants(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListRestaurants", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	restaurants, totalCount, err := h.service.ListRestaurants(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListRestaurants", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, restaurants, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListRestaurants", "operation", "WritePaginated", "error", err)
	}
}

func (h *ReservationHandler) GetAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var query model.AvailabilityQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "GetAvailability", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	results, err := h.service.GetAvailability(r.Context(), id, &query)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if results == nil {
		results = []model.TableAvailability{}
	}

	if err := httputil.WriteSuccess(w, results); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	restaurantID := ps.ByName("id")
	tableID := ps.ByName("tableId")

	var res model.Reservation
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateReservation", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.CreateReservation(r.Context(), restaurantID, tableID, &res); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateReservation", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, res); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateReservation", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	restaurantID := ps.ByName("id")
	tableID := ps.ByName("tableId")
	reservationID := ps.ByName("reservationId")

	if err := h.service.CancelReservation(r.Context(), restaurantID, tableID, reservationID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CancelReservation", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

type reservationResponse struct {
	TableID     string             `json:"table_id"`
	Reservation *model.Reservation `json:"reservation"`
}

func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	restaurantID := ps.ByName("id")
	reservationID := ps.ByName("reservationId")

	res, tableID, err := h.service.GetReservation(r.Context(), restaurantID, reservationID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetReservation", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservationResponse{TableID: tableID, Reservation: res}); err != nil {
		h.log.Error("failed to write success response", "handler", "GetReservation", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/restaurants", h.ListRestaurants)
	router.POST("/api/v1/restaurants", h.CreateRestaurant)
	router.GET("/api/v1/restaurants/:id", h.GetRestaurant)
	router.POST("/api/v1/restaurants/:id/availability", h.GetAvailability)
	router.GET("/api/v1/restaurants/:id/reservations/:reservationId", h.GetReservation)
	router.POST("/api/v1/restaurants/:id/tables/:tableId/reservations", h.CreateReservation)
	router.DELETE("/api/v1/restaurants/:id/tables/:tableId/reservations/:reservationId", h.CancelReservation)
}
