package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusAssigned   TripStatus = "ASSIGNED"
	TripStatusInProgress TripStatus = "IN_PROGRESS"
	TripStatusCompleted  TripStatus = "COMPLETED"
)

// Trip represents a scheduled movement of one vehicle from origin to
// destination, carrying one or more cargo items. Only ASSIGNED trips can
// accept additional cargo; once the vehicle departs the bundle is frozen.
type Trip struct {
	ID             string
	VehiclePlate   string
	Status         TripStatus
	OriginLat      float64
	OriginLng      float64
	DestinationLat float64
	DestinationLng float64
	DeliverBy      time.Time // Required delivery timestamp.
	DepartedAt     time.Time // Zero until departure is recorded.
	Active         bool
	Notes          string
	CreatedAt      time.Time
}
