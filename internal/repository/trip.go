package repository

import (
	"context"

	"fleet/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetOpen retrieves all ASSIGNED trips, ordered by ID ascending.
	GetOpen(ctx context.Context) ([]*domain.Trip, error)

	// GetAll retrieves all trips.
	GetAll(ctx context.Context) ([]*domain.Trip, error)

	// Update updates an existing trip.
	Update(ctx context.Context, trip *domain.Trip) error

	// AddCargo inserts a cargo-to-trip relation.
	AddCargo(ctx context.Context, tripID, cargoID string) error

	// GetActiveByVehicle retrieves the open (not COMPLETED) trip for a
	// vehicle. Returns nil if no such trip exists.
	GetActiveByVehicle(ctx context.Context, plate string) (*domain.Trip, error)
}
