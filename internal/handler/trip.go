package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// TripResponse is the HTTP representation of a trip.
type TripResponse struct {
	ID             string  `json:"id"`
	VehiclePlate   string  `json:"vehicle_plate"`
	Status         string  `json:"status"`
	OriginLat      float64 `json:"origin_lat"`
	OriginLng      float64 `json:"origin_lng"`
	DestinationLat float64 `json:"destination_lat"`
	DestinationLng float64 `json:"destination_lng"`
	DeliverBy      string  `json:"deliver_by"`
	DepartedAt     string  `json:"departed_at,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

func toTripResponse(trip *domain.Trip) TripResponse {
	resp := TripResponse{
		ID:             trip.ID,
		VehiclePlate:   trip.VehiclePlate,
		Status:         string(trip.Status),
		OriginLat:      trip.OriginLat,
		OriginLng:      trip.OriginLng,
		DestinationLat: trip.DestinationLat,
		DestinationLng: trip.DestinationLng,
		DeliverBy:      trip.DeliverBy.Format(time.RFC3339),
		Notes:          trip.Notes,
	}
	if !trip.DepartedAt.IsZero() {
		resp.DepartedAt = trip.DepartedAt.Format(time.RFC3339)
	}
	return resp
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// ListTrips handles GET /v1/trips
//
// With ?open=true only trips still accepting cargo are returned.
func (h *TripHandler) ListTrips(c *gin.Context) {
	var trips []*domain.Trip
	var err error
	if c.Query("open") == "true" {
		trips, err = h.tripService.GetOpenTrips(c.Request.Context())
	} else {
		trips, err = h.tripService.GetAllTrips(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]TripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResponse(t))
	}
	respondJSON(c, http.StatusOK, out)
}

// ListTripCargo handles GET /v1/trips/:id/cargo
func (h *TripHandler) ListTripCargo(c *gin.Context) {
	items, err := h.tripService.GetTripCargo(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]CargoResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toCargoResponse(item))
	}
	respondJSON(c, http.StatusOK, out)
}

// DepartTrip handles POST /v1/trips/:id/depart
func (h *TripHandler) DepartTrip(c *gin.Context) {
	trip, err := h.tripService.Depart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// CompleteTrip handles POST /v1/trips/:id/complete
func (h *TripHandler) CompleteTrip(c *gin.Context) {
	trip, err := h.tripService.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toTripResponse(trip))
}
