package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/service"
)

// CargoHandler handles HTTP requests for cargo items and their assignment.
type CargoHandler struct {
	cargoService      *service.CargoService
	assignmentService *service.AssignmentService
}

// NewCargoHandler creates a new CargoHandler.
func NewCargoHandler(cargoService *service.CargoService, assignmentService *service.AssignmentService) *CargoHandler {
	return &CargoHandler{
		cargoService:      cargoService,
		assignmentService: assignmentService,
	}
}

// CreateCargoRequest is the HTTP request body for registering cargo.
type CreateCargoRequest struct {
	ClientName     string  `json:"client_name"`
	WeightKg       float64 `json:"weight_kg"`
	VolumeM3       float64 `json:"volume_m3"`
	Description    string  `json:"description,omitempty"`
	Type           string  `json:"type"` // DRY, REFRIGERATED, FLATBED, LOWBOY
	DeliverBy      string  `json:"deliver_by"`
	OriginLat      float64 `json:"origin_lat"`
	OriginLng      float64 `json:"origin_lng"`
	DestinationLat float64 `json:"destination_lat"`
	DestinationLng float64 `json:"destination_lng"`
}

// AssignCargoRequest is the HTTP request body for joining cargo to an
// existing open trip.
type AssignCargoRequest struct {
	TripID string `json:"trip_id"`
}

// CreateTripForCargoRequest is the HTTP request body for opening a new trip
// around a cargo item.
type CreateTripForCargoRequest struct {
	OriginLat      float64 `json:"origin_lat"`
	OriginLng      float64 `json:"origin_lng"`
	DestinationLat float64 `json:"destination_lat"`
	DestinationLng float64 `json:"destination_lng"`
	Notes          string  `json:"notes,omitempty"`
}

// CargoResponse is the HTTP representation of a cargo item.
type CargoResponse struct {
	ID             string  `json:"id"`
	ClientName     string  `json:"client_name"`
	WeightKg       float64 `json:"weight_kg"`
	VolumeM3       float64 `json:"volume_m3"`
	Description    string  `json:"description,omitempty"`
	Type           string  `json:"type"`
	DeliverBy      string  `json:"deliver_by"`
	Status         string  `json:"status"`
	OriginLat      float64 `json:"origin_lat"`
	OriginLng      float64 `json:"origin_lng"`
	DestinationLat float64 `json:"destination_lat"`
	DestinationLng float64 `json:"destination_lng"`
}

// TripCandidateResponse is one open trip the cargo could join.
type TripCandidateResponse struct {
	Trip            TripResponse `json:"trip"`
	VehiclePlate    string       `json:"vehicle_plate"`
	CargoTypeTag    string       `json:"cargo_type"`
	BundledWeightKg float64      `json:"bundled_weight_kg"`
	BundledVolumeM3 float64      `json:"bundled_volume_m3"`
	CargoCount      int          `json:"cargo_count"`
}

func toCargoResponse(cargo *domain.Cargo) CargoResponse {
	return CargoResponse{
		ID:             cargo.ID,
		ClientName:     cargo.ClientName,
		WeightKg:       cargo.WeightKg,
		VolumeM3:       cargo.VolumeM3,
		Description:    cargo.Description,
		Type:           string(cargo.Type),
		DeliverBy:      cargo.DeliverBy.Format(time.RFC3339),
		Status:         string(cargo.Status),
		OriginLat:      cargo.OriginLat,
		OriginLng:      cargo.OriginLng,
		DestinationLat: cargo.DestinationLat,
		DestinationLng: cargo.DestinationLng,
	}
}

// CreateCargo handles POST /v1/cargo
func (h *CargoHandler) CreateCargo(c *gin.Context) {
	var req CreateCargoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	deliverBy, err := time.Parse(time.RFC3339, req.DeliverBy)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "deliver_by must be RFC3339"})
		return
	}

	cargo, err := h.cargoService.CreateCargo(c.Request.Context(), service.CreateCargoRequest{
		ClientName:     req.ClientName,
		WeightKg:       req.WeightKg,
		VolumeM3:       req.VolumeM3,
		Description:    req.Description,
		Type:           req.Type,
		DeliverBy:      deliverBy,
		OriginLat:      req.OriginLat,
		OriginLng:      req.OriginLng,
		DestinationLat: req.DestinationLat,
		DestinationLng: req.DestinationLng,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toCargoResponse(cargo))
}

// GetCargo handles GET /v1/cargo/:id
func (h *CargoHandler) GetCargo(c *gin.Context) {
	cargo, err := h.cargoService.GetCargo(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toCargoResponse(cargo))
}

// ListCargo handles GET /v1/cargo
func (h *CargoHandler) ListCargo(c *gin.Context) {
	items, err := h.cargoService.GetAllCargo(c.Request.Context())
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

// ListCandidates handles GET /v1/cargo/:id/candidates
//
// Candidates come back ordered by trip ID. The operator, not the server,
// picks which one the cargo joins.
func (h *CargoHandler) ListCandidates(c *gin.Context) {
	candidates, err := h.assignmentService.FindCompatibleTrips(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]TripCandidateResponse, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, TripCandidateResponse{
			Trip:            toTripResponse(cand.Trip),
			VehiclePlate:    cand.Vehicle.Plate,
			CargoTypeTag:    string(cand.Vehicle.CargoType),
			BundledWeightKg: cand.BundledWeightKg,
			BundledVolumeM3: cand.BundledVolumeM3,
			CargoCount:      cand.CargoCount,
		})
	}
	respondJSON(c, http.StatusOK, out)
}

// AssignCargo handles POST /v1/cargo/:id/assign
func (h *CargoHandler) AssignCargo(c *gin.Context) {
	var req AssignCargoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.assignmentService.JoinTrip(c.Request.Context(), service.JoinRequest{
		TripID:  req.TripID,
		CargoID: c.Param("id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// CreateTripForCargo handles POST /v1/cargo/:id/trips
func (h *CargoHandler) CreateTripForCargo(c *gin.Context) {
	var req CreateTripForCargoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.assignmentService.CreateTripForCargo(c.Request.Context(), service.CreateTripRequest{
		CargoID:        c.Param("id"),
		OriginLat:      req.OriginLat,
		OriginLng:      req.OriginLng,
		DestinationLat: req.DestinationLat,
		DestinationLng: req.DestinationLng,
		Notes:          req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTripResponse(trip))
}
