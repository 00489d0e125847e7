package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fleet/internal/domain"
	"fleet/internal/redis"
	"fleet/internal/repository"
	"fleet/internal/repository/postgres"
)

// cargoLockTTL bounds how long a cargo item stays locked while an
// assignment request is in flight.
const cargoLockTTL = 30 * time.Second

// AssignmentService decides where a cargo item goes: onto an existing open
// trip, or onto a fresh trip with a vehicle picked by the store.
type AssignmentService struct {
	db          *sql.DB
	cargoRepo   repository.CargoRepository
	tripRepo    repository.TripRepository
	vehicleRepo repository.VehicleRepository
	lockStore   redis.LockStoreInterface
	cacheStore  *redis.CacheStore
	policy      CompatPolicy
	log         zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	db *sql.DB,
	cargoRepo repository.CargoRepository,
	tripRepo repository.TripRepository,
	vehicleRepo repository.VehicleRepository,
	lockStore redis.LockStoreInterface,
	cacheStore *redis.CacheStore,
	policy CompatPolicy,
	log zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		db:          db,
		cargoRepo:   cargoRepo,
		tripRepo:    tripRepo,
		vehicleRepo: vehicleRepo,
		lockStore:   lockStore,
		cacheStore:  cacheStore,
		policy:      policy,
		log:         log,
	}
}

// TripCandidate is one open trip the cargo could join, with enough context
// for the operator to choose among candidates.
type TripCandidate struct {
	Trip            *domain.Trip
	Vehicle         *domain.Vehicle
	BundledWeightKg float64
	BundledVolumeM3 float64
	CargoCount      int
}

// FindCompatibleTrips returns every open trip the cargo can join, ordered by
// trip ID ascending. There is no ranking step: all candidates are equally
// valid and the operator makes the choice.
func (s *AssignmentService) FindCompatibleTrips(ctx context.Context, cargoID string) ([]*TripCandidate, error) {
	if cargoID == "" {
		return nil, ErrInvalidCargoID
	}

	cargo, err := s.cargoRepo.GetByID(ctx, cargoID)
	if err != nil {
		return nil, err
	}
	if cargo.Status != domain.CargoStatusPending {
		return nil, ErrCargoNotPending
	}

	trips, err := s.tripRepo.GetOpen(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []*TripCandidate
	for _, trip := range trips {
		vehicle, err := s.resolveVehicle(ctx, trip.VehiclePlate)
		if err != nil {
			return nil, err
		}
		if vehicle == nil {
			// Data-integrity anomaly: the trip references a vehicle
			// that does not exist. Fail closed and move on.
			s.log.Warn().
				Str("trip_id", trip.ID).
				Str("vehicle_plate", trip.VehiclePlate).
				Msg("trip references unknown vehicle, excluded from candidates")
			continue
		}

		bundled, err := s.cargoRepo.GetByTripID(ctx, trip.ID)
		if err != nil {
			return nil, err
		}

		if !IsCompatible(s.policy, cargo, trip, vehicle, bundled) {
			continue
		}

		candidate := &TripCandidate{
			Trip:       trip,
			Vehicle:    vehicle,
			CargoCount: len(bundled),
		}
		for _, item := range bundled {
			candidate.BundledWeightKg += item.WeightKg
			candidate.BundledVolumeM3 += item.VolumeM3
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// JoinRequest contains the parameters for joining a cargo item to a trip.
type JoinRequest struct {
	TripID  string
	CargoID string
}

// JoinTrip bundles the cargo into the chosen trip. The relation insert and
// the vehicle capacity decrement happen in one transaction with a row-level
// lock on the vehicle, so two concurrent joins cannot both observe stale
// remaining capacity.
func (s *AssignmentService) JoinTrip(ctx context.Context, req JoinRequest) (*domain.Trip, error) {
	if req.TripID == "" {
		return nil, ErrInvalidTripID
	}
	if req.CargoID == "" {
		return nil, ErrInvalidCargoID
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireCargoLock(ctx, req.CargoID, cargoLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrCargoBeingAssigned
		}
		defer func() {
			_ = s.lockStore.ReleaseCargoLock(ctx, req.CargoID)
		}()
	}

	cargo, err := s.cargoRepo.GetByID(ctx, req.CargoID)
	if err != nil {
		return nil, err
	}
	if cargo.Status != domain.CargoStatusPending {
		return nil, ErrCargoNotPending
	}

	trip, err := s.tripRepo.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != domain.TripStatusAssigned {
		return nil, ErrTripNotOpen
	}

	vehicle, err := s.vehicleRepo.GetByPlate(ctx, trip.VehiclePlate)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Error().
				Str("trip_id", trip.ID).
				Str("vehicle_plate", trip.VehiclePlate).
				Msg("join refused: trip references unknown vehicle")
			return nil, ErrTripNotCompatible
		}
		return nil, err
	}

	bundled, err := s.cargoRepo.GetByTripID(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	if !IsCompatible(s.policy, cargo, trip, vehicle, bundled) {
		return nil, ErrTripNotCompatible
	}

	// Everything up to here made no state change and is safely retryable.
	// From the transaction on, a failure needs reconciliation.
	if err := s.joinTx(ctx, cargo, trip); err != nil {
		return nil, err
	}

	s.invalidateVehicleCache(ctx, trip.VehiclePlate)
	return trip, nil
}

// joinTx performs the atomic join: lock the vehicle row, re-verify capacity
// under the lock, insert the trip_cargo relation, decrement remaining
// capacity, and flip the cargo status. All or nothing.
func (s *AssignmentService) joinTx(ctx context.Context, cargo *domain.Cargo, trip *domain.Trip) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJoinFailed, err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txVehicleRepo := postgres.NewVehicleRepositoryWithTx(tx)
	txTripRepo := postgres.NewTripRepositoryWithTx(tx)
	txCargoRepo := postgres.NewCargoRepositoryWithTx(tx)

	vehicle, err := txVehicleRepo.GetByPlateForUpdate(ctx, trip.VehiclePlate)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJoinFailed, err)
	}

	// Re-check under the row lock: a concurrent join may have shrunk the
	// remaining capacity since the evaluation outside the transaction.
	if vehicle.RemainingWeightKg < cargo.WeightKg || vehicle.RemainingVolumeM3 < cargo.VolumeM3 {
		err = ErrTripNotCompatible
		return err
	}

	if err = txTripRepo.AddCargo(ctx, trip.ID, cargo.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrJoinFailed, err)
	}

	if err = txVehicleRepo.AdjustRemaining(ctx, trip.VehiclePlate, cargo.WeightKg, cargo.VolumeM3); err != nil {
		if errors.Is(err, repository.ErrInsufficientCapacity) {
			return ErrTripNotCompatible
		}
		return fmt.Errorf("%w: %v", ErrJoinFailed, err)
	}

	if err = txCargoRepo.UpdateStatus(ctx, cargo.ID, domain.CargoStatusBundled); err != nil {
		return fmt.Errorf("%w: %v", ErrJoinFailed, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrJoinFailed, err)
	}

	return nil
}

// CreateTripRequest contains the parameters for opening a new trip around a
// cargo item that no existing trip could take.
type CreateTripRequest struct {
	CargoID        string
	OriginLat      float64
	OriginLng      float64
	DestinationLat float64
	DestinationLng float64
	Notes          string
}

// CreateTripForCargo opens a new trip for the cargo. Vehicle selection is
// delegated to the store; when no vehicle qualifies the call fails with
// ErrNoVehicleAvailable and is not retried here.
func (s *AssignmentService) CreateTripForCargo(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	if req.CargoID == "" {
		return nil, ErrInvalidCargoID
	}
	if !isValidLatitude(req.OriginLat) || !isValidLongitude(req.OriginLng) ||
		!isValidLatitude(req.DestinationLat) || !isValidLongitude(req.DestinationLng) {
		return nil, ErrInvalidLocation
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireCargoLock(ctx, req.CargoID, cargoLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrCargoBeingAssigned
		}
		defer func() {
			_ = s.lockStore.ReleaseCargoLock(ctx, req.CargoID)
		}()
	}

	cargo, err := s.cargoRepo.GetByID(ctx, req.CargoID)
	if err != nil {
		return nil, err
	}
	if cargo.Status != domain.CargoStatusPending {
		return nil, ErrCargoNotPending
	}

	vehicle, err := s.vehicleRepo.FindAvailableForCargo(ctx, cargo)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoVehicleAvailable
		}
		return nil, err
	}

	trip := &domain.Trip{
		ID:             uuid.New().String(),
		VehiclePlate:   vehicle.Plate,
		Status:         domain.TripStatusAssigned,
		OriginLat:      req.OriginLat,
		OriginLng:      req.OriginLng,
		DestinationLat: req.DestinationLat,
		DestinationLng: req.DestinationLng,
		DeliverBy:      cargo.DeliverBy,
		Active:         true,
		Notes:          req.Notes,
		CreatedAt:      time.Now(),
	}

	if err := s.createTripTx(ctx, cargo, trip); err != nil {
		return nil, err
	}

	s.invalidateVehicleCache(ctx, vehicle.Plate)
	return trip, nil
}

// createTripTx creates the trip and bundles the first cargo item in one
// transaction, re-verifying the vehicle under a row lock since selection
// happened outside the transaction.
func (s *AssignmentService) createTripTx(ctx context.Context, cargo *domain.Cargo, trip *domain.Trip) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJoinFailed, err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txVehicleRepo := postgres.NewVehicleRepositoryWithTx(tx)
	txTripRepo := postgres.NewTripRepositoryWithTx(tx)
	txCargoRepo := postgres.NewCargoRepositoryWithTx(tx)

	vehicle, err := txVehicleRepo.GetByPlateForUpdate(ctx, trip.VehiclePlate)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJoinFailed, err)
	}

	if vehicle.State != domain.VehicleStateAvailable || !vehicle.Active {
		err = ErrNoVehicleAvailable
		return err
	}
	if vehicle.RemainingWeightKg < cargo.WeightKg || vehicle.RemainingVolumeM3 < cargo.VolumeM3 {
		err = ErrNoVehicleAvailable
		return err
	}

	if err = txTripRepo.Create(ctx, trip); err != nil {
		return fmt.Errorf("%w: %v", ErrJoinFailed, err)
	}

	if err = txTripRepo.AddCargo(ctx, trip.ID, cargo.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrJoinFailed, err)
	}

	if err = txVehicleRepo.AdjustRemaining(ctx, trip.VehiclePlate, cargo.WeightKg, cargo.VolumeM3); err != nil {
		return fmt.Errorf("%w: %v", ErrJoinFailed, err)
	}

	if err = txCargoRepo.UpdateStatus(ctx, cargo.ID, domain.CargoStatusBundled); err != nil {
		return fmt.Errorf("%w: %v", ErrJoinFailed, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrJoinFailed, err)
	}

	return nil
}

// resolveVehicle fetches a vehicle through the cache; nil means the plate
// does not exist.
func (s *AssignmentService) resolveVehicle(ctx context.Context, plate string) (*domain.Vehicle, error) {
	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetVehicle(ctx, plate)
		if err == nil && cached != nil {
			return cachedToVehicle(cached), nil
		}
	}

	vehicle, err := s.vehicleRepo.GetByPlate(ctx, plate)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	s.cacheVehicleAsync(vehicle)
	return vehicle, nil
}

// cacheVehicleAsync caches a vehicle (fire and forget).
func (s *AssignmentService) cacheVehicleAsync(vehicle *domain.Vehicle) {
	if s.cacheStore == nil {
		return
	}
	go func() {
		cached := &redis.CachedVehicle{
			Plate:             vehicle.Plate,
			State:             string(vehicle.State),
			CargoType:         string(vehicle.CargoType),
			MaxWeightKg:       vehicle.MaxWeightKg,
			MaxVolumeM3:       vehicle.MaxVolumeM3,
			RemainingWeightKg: vehicle.RemainingWeightKg,
			RemainingVolumeM3: vehicle.RemainingVolumeM3,
		}
		_ = s.cacheStore.SetVehicle(context.Background(), cached)
	}()
}

// cachedToVehicle converts a cached vehicle to a domain vehicle carrying the
// fields the compatibility check reads.
func cachedToVehicle(cached *redis.CachedVehicle) *domain.Vehicle {
	return &domain.Vehicle{
		Plate:             cached.Plate,
		State:             domain.VehicleState(cached.State),
		CargoType:         domain.CargoType(cached.CargoType),
		MaxWeightKg:       cached.MaxWeightKg,
		MaxVolumeM3:       cached.MaxVolumeM3,
		RemainingWeightKg: cached.RemainingWeightKg,
		RemainingVolumeM3: cached.RemainingVolumeM3,
		Active:            true,
	}
}

// invalidateVehicleCache drops a vehicle's cache entry after a capacity write.
func (s *AssignmentService) invalidateVehicleCache(ctx context.Context, plate string) {
	if s.cacheStore == nil {
		return
	}
	_ = s.cacheStore.InvalidateVehicle(ctx, plate)
}

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
