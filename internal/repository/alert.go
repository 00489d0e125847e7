package repository

import (
	"context"

	"fleet/internal/domain"
)

// AlertRepository defines the persistence operations for safety alerts.
type AlertRepository interface {
	// Create persists a new alert.
	Create(ctx context.Context, alert *domain.Alert) error

	// GetAll retrieves all alerts, newest first.
	GetAll(ctx context.Context) ([]*domain.Alert, error)
}
