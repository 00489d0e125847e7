package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fleet/internal/domain"
	"fleet/internal/repository"
	"fleet/internal/repository/postgres"
)

// TripService handles the trip lifecycle: ASSIGNED -> IN_PROGRESS on
// departure, -> COMPLETED on arrival (terminal).
type TripService struct {
	db          *sql.DB
	tripRepo    repository.TripRepository
	cargoRepo   repository.CargoRepository
	vehicleRepo repository.VehicleRepository
}

// NewTripService creates a new TripService.
func NewTripService(
	db *sql.DB,
	tripRepo repository.TripRepository,
	cargoRepo repository.CargoRepository,
	vehicleRepo repository.VehicleRepository,
) *TripService {
	return &TripService{
		db:          db,
		tripRepo:    tripRepo,
		cargoRepo:   cargoRepo,
		vehicleRepo: vehicleRepo,
	}
}

// GetTrip retrieves a trip by ID.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	return s.tripRepo.GetByID(ctx, tripID)
}

// GetOpenTrips retrieves all trips still accepting cargo.
func (s *TripService) GetOpenTrips(ctx context.Context) ([]*domain.Trip, error) {
	return s.tripRepo.GetOpen(ctx)
}

// GetAllTrips retrieves all trips.
func (s *TripService) GetAllTrips(ctx context.Context) ([]*domain.Trip, error) {
	return s.tripRepo.GetAll(ctx)
}

// GetTripCargo retrieves the cargo bundled into a trip.
func (s *TripService) GetTripCargo(ctx context.Context, tripID string) ([]*domain.Cargo, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	return s.cargoRepo.GetByTripID(ctx, tripID)
}

// Depart records the vehicle leaving the yard. The trip moves to
// IN_PROGRESS and the vehicle to EN_ROUTE in one transaction; from this
// point the trip no longer accepts cargo.
func (s *TripService) Depart(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	switch trip.Status {
	case domain.TripStatusInProgress:
		return nil, ErrTripAlreadyDeparted
	case domain.TripStatusCompleted:
		return nil, ErrTripCompleted
	}

	trip.Status = domain.TripStatusInProgress
	trip.DepartedAt = time.Now()

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := postgres.NewTripRepositoryWithTx(tx).Update(ctx, trip); err != nil {
			return err
		}
		return postgres.NewVehicleRepositoryWithTx(tx).UpdateState(ctx, trip.VehiclePlate, domain.VehicleStateEnRoute)
	})
	if err != nil {
		return nil, err
	}

	return trip, nil
}

// Complete closes a departed trip: cargo becomes DELIVERED, the vehicle
// returns to AVAILABLE with its capacity restored, and the trip leaves the
// active set. All in one transaction.
func (s *TripService) Complete(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	switch trip.Status {
	case domain.TripStatusAssigned:
		return nil, ErrTripNotDeparted
	case domain.TripStatusCompleted:
		return nil, ErrTripCompleted
	}

	bundled, err := s.cargoRepo.GetByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	trip.Status = domain.TripStatusCompleted
	trip.Active = false

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		txTripRepo := postgres.NewTripRepositoryWithTx(tx)
		txCargoRepo := postgres.NewCargoRepositoryWithTx(tx)
		txVehicleRepo := postgres.NewVehicleRepositoryWithTx(tx)

		if err := txTripRepo.Update(ctx, trip); err != nil {
			return err
		}
		for _, item := range bundled {
			if err := txCargoRepo.UpdateStatus(ctx, item.ID, domain.CargoStatusDelivered); err != nil {
				return err
			}
		}
		if err := txVehicleRepo.UpdateState(ctx, trip.VehiclePlate, domain.VehicleStateAvailable); err != nil {
			return err
		}
		// The vehicle is empty again; a vehicle has at most one active
		// trip, so resetting to the maxima is exact.
		return txVehicleRepo.ResetRemaining(ctx, trip.VehiclePlate)
	})
	if err != nil {
		return nil, err
	}

	return trip, nil
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *TripService) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
