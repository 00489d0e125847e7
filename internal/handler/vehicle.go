package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/service"
)

// VehicleHandler handles HTTP requests for fleet vehicles.
type VehicleHandler struct {
	vehicleService *service.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(vehicleService *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// CreateVehicleRequest is the HTTP request body for registering a vehicle.
type CreateVehicleRequest struct {
	Plate       string  `json:"plate"`
	Make        string  `json:"make"`
	Model       string  `json:"model"`
	MaxWeightKg float64 `json:"max_weight_kg"`
	MaxVolumeM3 float64 `json:"max_volume_m3"`
	CargoType   string  `json:"cargo_type"` // DRY, REFRIGERATED, FLATBED, LOWBOY
	DriverID    string  `json:"driver_id,omitempty"`
}

// UpdateVehicleRequest is the HTTP request body for updating a vehicle.
type UpdateVehicleRequest struct {
	Make        string  `json:"make,omitempty"`
	Model       string  `json:"model,omitempty"`
	MaxWeightKg float64 `json:"max_weight_kg,omitempty"`
	MaxVolumeM3 float64 `json:"max_volume_m3,omitempty"`
	CargoType   string  `json:"cargo_type,omitempty"`
	DriverID    string  `json:"driver_id,omitempty"`
	State       string  `json:"state,omitempty"`
	IoTFolio    string  `json:"iot_folio,omitempty"`
}

// UpdateLocationRequest is the HTTP request body for reporting a position.
type UpdateLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// VehicleResponse is the HTTP representation of a vehicle.
type VehicleResponse struct {
	Plate             string  `json:"plate"`
	Make              string  `json:"make"`
	Model             string  `json:"model"`
	MaxWeightKg       float64 `json:"max_weight_kg"`
	MaxVolumeM3       float64 `json:"max_volume_m3"`
	RemainingWeightKg float64 `json:"remaining_weight_kg"`
	RemainingVolumeM3 float64 `json:"remaining_volume_m3"`
	CargoType         string  `json:"cargo_type"`
	DriverID          string  `json:"driver_id,omitempty"`
	State             string  `json:"state"`
	Active            bool    `json:"active"`
	IoTFolio          string  `json:"iot_folio,omitempty"`
}

// FleetPositionResponse is one vehicle's last reported position.
type FleetPositionResponse struct {
	Plate string  `json:"plate"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

func toVehicleResponse(v *domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		Plate:             v.Plate,
		Make:              v.Make,
		Model:             v.Model,
		MaxWeightKg:       v.MaxWeightKg,
		MaxVolumeM3:       v.MaxVolumeM3,
		RemainingWeightKg: v.RemainingWeightKg,
		RemainingVolumeM3: v.RemainingVolumeM3,
		CargoType:         string(v.CargoType),
		DriverID:          v.DriverID,
		State:             string(v.State),
		Active:            v.Active,
		IoTFolio:          v.IoTFolio,
	}
}

// CreateVehicle handles POST /v1/vehicles
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	vehicle, err := h.vehicleService.CreateVehicle(c.Request.Context(), service.CreateVehicleRequest{
		Plate:       req.Plate,
		Make:        req.Make,
		Model:       req.Model,
		MaxWeightKg: req.MaxWeightKg,
		MaxVolumeM3: req.MaxVolumeM3,
		CargoType:   req.CargoType,
		DriverID:    req.DriverID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toVehicleResponse(vehicle))
}

// GetVehicle handles GET /v1/vehicles/:plate
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	vehicle, err := h.vehicleService.GetVehicle(c.Request.Context(), c.Param("plate"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toVehicleResponse(vehicle))
}

// ListVehicles handles GET /v1/vehicles
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	vehicles, err := h.vehicleService.GetActiveVehicles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, toVehicleResponse(v))
	}
	respondJSON(c, http.StatusOK, out)
}

// UpdateVehicle handles PUT /v1/vehicles/:plate
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	var req UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	vehicle, err := h.vehicleService.UpdateVehicle(c.Request.Context(), service.UpdateVehicleRequest{
		Plate:       c.Param("plate"),
		Make:        req.Make,
		Model:       req.Model,
		MaxWeightKg: req.MaxWeightKg,
		MaxVolumeM3: req.MaxVolumeM3,
		CargoType:   req.CargoType,
		DriverID:    req.DriverID,
		State:       req.State,
		IoTFolio:    req.IoTFolio,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toVehicleResponse(vehicle))
}

// DecommissionVehicle handles PUT /v1/vehicles/:plate/decommission
func (h *VehicleHandler) DecommissionVehicle(c *gin.Context) {
	if err := h.vehicleService.DecommissionVehicle(c.Request.Context(), c.Param("plate")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateLocation handles POST /v1/vehicles/:plate/location
func (h *VehicleHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.vehicleService.UpdateLocation(c.Request.Context(), c.Param("plate"), req.Lat, req.Lng); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListNearbyVehicles handles GET /v1/vehicles/nearby
func (h *VehicleHandler) ListNearbyVehicles(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "lat must be a number"})
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "lng must be a number"})
		return
	}
	radiusKm := 10.0
	if raw := c.Query("radius_km"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "radius_km must be a number"})
			return
		}
	}

	positions, err := h.vehicleService.FindNearby(c.Request.Context(), lat, lng, radiusKm)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]FleetPositionResponse, 0, len(positions))
	for _, p := range positions {
		out = append(out, FleetPositionResponse{Plate: p.Plate, Lat: p.Lat, Lng: p.Lng})
	}
	respondJSON(c, http.StatusOK, out)
}

// ListFleetPositions handles GET /v1/vehicles/locations
func (h *VehicleHandler) ListFleetPositions(c *gin.Context) {
	positions, err := h.vehicleService.GetFleetPositions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]FleetPositionResponse, 0, len(positions))
	for _, p := range positions {
		out = append(out, FleetPositionResponse{Plate: p.Plate, Lat: p.Lat, Lng: p.Lng})
	}
	respondJSON(c, http.StatusOK, out)
}
