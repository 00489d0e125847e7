package repository

import (
	"context"

	"fleet/internal/domain"
)

// VehicleRepository defines the persistence operations for vehicles.
type VehicleRepository interface {
	// Create adds a new vehicle.
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByPlate retrieves a vehicle by license plate.
	GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error)

	// GetActive retrieves all active vehicles.
	GetActive(ctx context.Context) ([]*domain.Vehicle, error)

	// Update updates a vehicle's descriptive fields and state.
	Update(ctx context.Context, vehicle *domain.Vehicle) error

	// Decommission performs a logical delete: active=false, state DECOMMISSIONED.
	Decommission(ctx context.Context, plate string) error

	// UpdateState updates the operational state of a vehicle.
	UpdateState(ctx context.Context, plate string, state domain.VehicleState) error

	// FindAvailableForCargo selects a vehicle able to take the given cargo:
	// matching supported cargo type, remaining weight/volume at least the
	// cargo's, AVAILABLE state, active, and not the target of an open trip.
	// Returns ErrNotFound when no such vehicle exists.
	FindAvailableForCargo(ctx context.Context, cargo *domain.Cargo) (*domain.Vehicle, error)
}
