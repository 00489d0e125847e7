package redis

import (
	"context"
	"time"
)

// LocationStoreInterface defines the interface for vehicle location operations.
type LocationStoreInterface interface {
	UpdateLocation(ctx context.Context, plate string, lat, lng float64) error
	GetPositions(ctx context.Context, plates []string) ([]VehicleLocation, error)
	FindNearbyVehicles(ctx context.Context, lat, lng, radiusKm float64) ([]VehicleLocation, error)
	RemoveLocation(ctx context.Context, plate string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireCargoLock(ctx context.Context, cargoID string, ttl time.Duration) (bool, error)
	ReleaseCargoLock(ctx context.Context, cargoID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
)
