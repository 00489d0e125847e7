package repository

import (
	"context"

	"fleet/internal/domain"
)

// CargoRepository defines the persistence operations for cargo items.
type CargoRepository interface {
	// Create persists a new cargo item.
	Create(ctx context.Context, cargo *domain.Cargo) error

	// GetByID retrieves a cargo item by ID.
	GetByID(ctx context.Context, id string) (*domain.Cargo, error)

	// GetAll retrieves all cargo items.
	GetAll(ctx context.Context) ([]*domain.Cargo, error)

	// GetByTripID retrieves the cargo items bundled into a trip.
	GetByTripID(ctx context.Context, tripID string) ([]*domain.Cargo, error)

	// UpdateStatus updates the lifecycle status of a cargo item.
	UpdateStatus(ctx context.Context, id string, status domain.CargoStatus) error
}
