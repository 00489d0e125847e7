package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet/internal/repository"
	"fleet/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidCargoID),
		errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidPlate),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidClientName),
		errors.Is(err, service.ErrInvalidWeight),
		errors.Is(err, service.ErrInvalidVolume),
		errors.Is(err, service.ErrInvalidCargoType),
		errors.Is(err, service.ErrInvalidDeliveryDate),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidCapacity),
		errors.Is(err, service.ErrInvalidVehicleState),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrInvalidRole):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Conflict errors
	case errors.Is(err, service.ErrCargoNotPending),
		errors.Is(err, service.ErrCargoBeingAssigned),
		errors.Is(err, service.ErrTripNotOpen),
		errors.Is(err, service.ErrTripNotCompatible),
		errors.Is(err, service.ErrTripAlreadyDeparted),
		errors.Is(err, service.ErrTripNotDeparted),
		errors.Is(err, service.ErrTripCompleted),
		errors.Is(err, service.ErrVehicleHasActiveTrip),
		errors.Is(err, service.ErrCapacityBelowLoad),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, repository.ErrInsufficientCapacity):
		return http.StatusConflict

	// Service unavailable
	case errors.Is(err, service.ErrNoVehicleAvailable):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
