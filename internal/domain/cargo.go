package domain

import "time"

// CargoType classifies what kind of trailer a cargo item requires.
type CargoType string

const (
	CargoTypeDry          CargoType = "DRY"
	CargoTypeRefrigerated CargoType = "REFRIGERATED"
	CargoTypeFlatbed      CargoType = "FLATBED"
	CargoTypeLowboy       CargoType = "LOWBOY"
)

// CargoStatus represents the lifecycle state of a cargo item.
type CargoStatus string

const (
	CargoStatusPending   CargoStatus = "PENDING"
	CargoStatusBundled   CargoStatus = "BUNDLED"
	CargoStatusDelivered CargoStatus = "DELIVERED"
)

// Cargo represents a shippable unit of goods.
// Fields other than Status are immutable once the cargo is bundled into a trip.
type Cargo struct {
	ID          string
	ClientName  string
	WeightKg    float64
	VolumeM3    float64
	Description string
	Type        CargoType
	DeliverBy   time.Time // Required delivery timestamp.
	Status      CargoStatus

	// Pickup and dropoff coordinates, set at creation. The assignment
	// routine compares these against a trip's origin/destination.
	OriginLat      float64
	OriginLng      float64
	DestinationLat float64
	DestinationLng float64

	CreatedAt time.Time
}
