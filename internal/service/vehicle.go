package service

import (
	"context"

	"fleet/internal/domain"
	"fleet/internal/redis"
	"fleet/internal/repository"
)

// VehicleService handles fleet management and live positions.
type VehicleService struct {
	vehicleRepo   repository.VehicleRepository
	locationStore redis.LocationStoreInterface
	cacheStore    *redis.CacheStore
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(
	vehicleRepo repository.VehicleRepository,
	locationStore redis.LocationStoreInterface,
	cacheStore *redis.CacheStore,
) *VehicleService {
	return &VehicleService{
		vehicleRepo:   vehicleRepo,
		locationStore: locationStore,
		cacheStore:    cacheStore,
	}
}

// CreateVehicleRequest contains the parameters for registering a vehicle.
type CreateVehicleRequest struct {
	Plate       string
	Make        string
	Model       string
	MaxWeightKg float64
	MaxVolumeM3 float64
	CargoType   string
	DriverID    string
}

// CreateVehicle registers a new vehicle. Remaining capacity starts at the
// maxima and the vehicle enters the fleet active and available.
func (s *VehicleService) CreateVehicle(ctx context.Context, req CreateVehicleRequest) (*domain.Vehicle, error) {
	if req.Plate == "" {
		return nil, ErrInvalidPlate
	}
	cargoType, err := ValidateCargoType(req.CargoType)
	if err != nil {
		return nil, err
	}
	if req.MaxWeightKg <= 0 || req.MaxVolumeM3 <= 0 {
		return nil, ErrInvalidCapacity
	}

	vehicle := &domain.Vehicle{
		Plate:             req.Plate,
		Make:              req.Make,
		Model:             req.Model,
		MaxWeightKg:       req.MaxWeightKg,
		MaxVolumeM3:       req.MaxVolumeM3,
		RemainingWeightKg: req.MaxWeightKg,
		RemainingVolumeM3: req.MaxVolumeM3,
		CargoType:         cargoType,
		DriverID:          req.DriverID,
		State:             domain.VehicleStateAvailable,
		Active:            true,
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// UpdateVehicleRequest contains the parameters for updating a vehicle.
type UpdateVehicleRequest struct {
	Plate       string
	Make        string
	Model       string
	MaxWeightKg float64
	MaxVolumeM3 float64
	CargoType   string
	DriverID    string
	State       string
	IoTFolio    string
}

// UpdateVehicle updates a vehicle's descriptive fields and state. Remaining
// capacity is rebased on the new maxima so `remaining <= max` keeps holding;
// maxima cannot drop below the load bundled cargo already occupies.
func (s *VehicleService) UpdateVehicle(ctx context.Context, req UpdateVehicleRequest) (*domain.Vehicle, error) {
	if req.Plate == "" {
		return nil, ErrInvalidPlate
	}
	cargoType, err := ValidateCargoType(req.CargoType)
	if err != nil {
		return nil, err
	}
	if req.MaxWeightKg <= 0 || req.MaxVolumeM3 <= 0 {
		return nil, ErrInvalidCapacity
	}
	state, err := validateVehicleState(req.State)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.vehicleRepo.GetByPlate(ctx, req.Plate)
	if err != nil {
		return nil, err
	}

	committedWeight := vehicle.MaxWeightKg - vehicle.RemainingWeightKg
	committedVolume := vehicle.MaxVolumeM3 - vehicle.RemainingVolumeM3
	if req.MaxWeightKg < committedWeight || req.MaxVolumeM3 < committedVolume {
		return nil, ErrCapacityBelowLoad
	}

	vehicle.Make = req.Make
	vehicle.Model = req.Model
	vehicle.MaxWeightKg = req.MaxWeightKg
	vehicle.MaxVolumeM3 = req.MaxVolumeM3
	vehicle.RemainingWeightKg = req.MaxWeightKg - committedWeight
	vehicle.RemainingVolumeM3 = req.MaxVolumeM3 - committedVolume
	vehicle.CargoType = cargoType
	vehicle.DriverID = req.DriverID
	vehicle.State = state
	vehicle.IoTFolio = req.IoTFolio

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	s.invalidate(ctx, req.Plate)
	return vehicle, nil
}

// DecommissionVehicle takes a vehicle out of the fleet. The row survives
// for history; the vehicle disappears from active listings and its position
// leaves the live map.
func (s *VehicleService) DecommissionVehicle(ctx context.Context, plate string) error {
	if plate == "" {
		return ErrInvalidPlate
	}

	if err := s.vehicleRepo.Decommission(ctx, plate); err != nil {
		return err
	}

	if s.locationStore != nil {
		_ = s.locationStore.RemoveLocation(ctx, plate)
	}
	s.invalidate(ctx, plate)
	return nil
}

// GetVehicle retrieves a vehicle by plate.
func (s *VehicleService) GetVehicle(ctx context.Context, plate string) (*domain.Vehicle, error) {
	if plate == "" {
		return nil, ErrInvalidPlate
	}
	return s.vehicleRepo.GetByPlate(ctx, plate)
}

// GetActiveVehicles retrieves all active vehicles.
func (s *VehicleService) GetActiveVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	return s.vehicleRepo.GetActive(ctx)
}

// UpdateLocation records a GPS fix for a vehicle.
func (s *VehicleService) UpdateLocation(ctx context.Context, plate string, lat, lng float64) error {
	if plate == "" {
		return ErrInvalidPlate
	}
	if !isValidLatitude(lat) || !isValidLongitude(lng) {
		return ErrInvalidLocation
	}

	// Only known active vehicles get onto the map.
	if _, err := s.vehicleRepo.GetByPlate(ctx, plate); err != nil {
		return err
	}

	return s.locationStore.UpdateLocation(ctx, plate, lat, lng)
}

// GetFleetPositions returns the last known position of every active vehicle
// that has reported one.
func (s *VehicleService) GetFleetPositions(ctx context.Context) ([]redis.VehicleLocation, error) {
	vehicles, err := s.vehicleRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	plates := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		plates = append(plates, v.Plate)
	}

	return s.locationStore.GetPositions(ctx, plates)
}

// FindNearby returns vehicles within radiusKm of a point, nearest first.
func (s *VehicleService) FindNearby(ctx context.Context, lat, lng, radiusKm float64) ([]redis.VehicleLocation, error) {
	if !isValidLatitude(lat) || !isValidLongitude(lng) {
		return nil, ErrInvalidLocation
	}
	if radiusKm <= 0 {
		return nil, ErrInvalidLocation
	}
	return s.locationStore.FindNearbyVehicles(ctx, lat, lng, radiusKm)
}

func (s *VehicleService) invalidate(ctx context.Context, plate string) {
	if s.cacheStore == nil {
		return
	}
	_ = s.cacheStore.InvalidateVehicle(ctx, plate)
}

func validateVehicleState(state string) (domain.VehicleState, error) {
	switch domain.VehicleState(state) {
	case domain.VehicleStateAvailable, domain.VehicleStateMaintenance,
		domain.VehicleStateEnRoute, domain.VehicleStateDecommissioned:
		return domain.VehicleState(state), nil
	default:
		return "", ErrInvalidVehicleState
	}
}
