package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"fleet/internal/domain"
	"fleet/internal/redis"
	"fleet/internal/service"
)

func newAssignmentService(cargoRepo *MockCargoRepository, tripRepo *MockTripRepository, vehicleRepo *MockVehicleRepository, lockStore *MockLockStore) *service.AssignmentService {
	loc, _ := time.LoadLocation("America/Mexico_City")
	policy := service.CompatPolicy{ProximityEpsilon: 0.1, Location: loc}
	// A typed nil would make the service think a lock store is present.
	var lock redis.LockStoreInterface
	if lockStore != nil {
		lock = lockStore
	}
	return service.NewAssignmentService(nil, cargoRepo, tripRepo, vehicleRepo, lock, nil, policy, zerolog.Nop())
}

func seedOpenTrip(tripRepo *MockTripRepository, vehicleRepo *MockVehicleRepository, tripID, plate string) *domain.Trip {
	trip := compatTrip()
	trip.ID = tripID
	trip.VehiclePlate = plate
	tripRepo.AddTrip(trip)

	vehicle := compatVehicle()
	vehicle.Plate = plate
	vehicleRepo.AddVehicle(vehicle)
	return trip
}

func TestFindCompatibleTrips_OrderedByTripID(t *testing.T) {
	ctx := context.Background()
	cargoRepo := NewMockCargoRepository()
	tripRepo := NewMockTripRepository()
	vehicleRepo := NewMockVehicleRepository()

	cargo := compatCargo()
	cargoRepo.AddCargoItem(cargo)

	// Seed out of order; candidates must come back sorted by trip ID.
	seedOpenTrip(tripRepo, vehicleRepo, "trip-c", "PLT-C")
	seedOpenTrip(tripRepo, vehicleRepo, "trip-a", "PLT-A")
	seedOpenTrip(tripRepo, vehicleRepo, "trip-b", "PLT-B")

	svc := newAssignmentService(cargoRepo, tripRepo, vehicleRepo, nil)
	candidates, err := svc.FindCompatibleTrips(ctx, cargo.ID)
	if err != nil {
		t.Fatalf("failed to list candidates: %v", err)
	}

	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	for i, want := range []string{"trip-a", "trip-b", "trip-c"} {
		if candidates[i].Trip.ID != want {
			t.Errorf("candidate %d: expected %s, got %s", i, want, candidates[i].Trip.ID)
		}
	}
}

func TestFindCompatibleTrips_FiltersIncompatible(t *testing.T) {
	ctx := context.Background()
	cargoRepo := NewMockCargoRepository()
	tripRepo := NewMockTripRepository()
	vehicleRepo := NewMockVehicleRepository()

	cargo := compatCargo()
	cargoRepo.AddCargoItem(cargo)

	seedOpenTrip(tripRepo, vehicleRepo, "trip-ok", "PLT-OK")

	// Wrong trailer type.
	seedOpenTrip(tripRepo, vehicleRepo, "trip-reefer", "PLT-RF")
	vehicleRepo.GetVehicle("PLT-RF").CargoType = domain.CargoTypeRefrigerated

	// Far away.
	farTrip := compatTrip()
	farTrip.ID = "trip-far"
	farTrip.VehiclePlate = "PLT-FAR"
	farTrip.OriginLat = 25.68
	farTrip.OriginLng = -100.31
	tripRepo.AddTrip(farTrip)
	farVehicle := compatVehicle()
	farVehicle.Plate = "PLT-FAR"
	vehicleRepo.AddVehicle(farVehicle)

	svc := newAssignmentService(cargoRepo, tripRepo, vehicleRepo, nil)
	candidates, err := svc.FindCompatibleTrips(ctx, cargo.ID)
	if err != nil {
		t.Fatalf("failed to list candidates: %v", err)
	}

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].Trip.ID != "trip-ok" {
		t.Errorf("expected trip-ok, got %s", candidates[0].Trip.ID)
	}
}

func TestFindCompatibleTrips_UnknownVehicleExcluded(t *testing.T) {
	ctx := context.Background()
	cargoRepo := NewMockCargoRepository()
	tripRepo := NewMockTripRepository()
	vehicleRepo := NewMockVehicleRepository()

	cargo := compatCargo()
	cargoRepo.AddCargoItem(cargo)

	// Trip whose vehicle row is gone. Must not error the whole listing,
	// and must never show up as a candidate.
	orphan := compatTrip()
	orphan.ID = "trip-orphan"
	orphan.VehiclePlate = "PLT-GONE"
	tripRepo.AddTrip(orphan)

	seedOpenTrip(tripRepo, vehicleRepo, "trip-ok", "PLT-OK")

	svc := newAssignmentService(cargoRepo, tripRepo, vehicleRepo, nil)
	candidates, err := svc.FindCompatibleTrips(ctx, cargo.ID)
	if err != nil {
		t.Fatalf("failed to list candidates: %v", err)
	}

	if len(candidates) != 1 || candidates[0].Trip.ID != "trip-ok" {
		t.Fatalf("expected only trip-ok, got %d candidates", len(candidates))
	}
}

func TestFindCompatibleTrips_EmptyResultIsNotError(t *testing.T) {
	ctx := context.Background()
	cargoRepo := NewMockCargoRepository()
	tripRepo := NewMockTripRepository()
	vehicleRepo := NewMockVehicleRepository()

	cargo := compatCargo()
	cargoRepo.AddCargoItem(cargo)

	svc := newAssignmentService(cargoRepo, tripRepo, vehicleRepo, nil)
	candidates, err := svc.FindCompatibleTrips(ctx, cargo.ID)
	if err != nil {
		t.Fatalf("no open trips should not be an error: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(candidates))
	}
}

func TestFindCompatibleTrips_CargoNotPending(t *testing.T) {
	ctx := context.Background()
	cargoRepo := NewMockCargoRepository()
	tripRepo := NewMockTripRepository()
	vehicleRepo := NewMockVehicleRepository()

	cargo := compatCargo()
	cargo.Status = domain.CargoStatusBundled
	cargoRepo.AddCargoItem(cargo)

	svc := newAssignmentService(cargoRepo, tripRepo, vehicleRepo, nil)
	_, err := svc.FindCompatibleTrips(ctx, cargo.ID)
	if !errors.Is(err, service.ErrCargoNotPending) {
		t.Fatalf("expected ErrCargoNotPending, got %v", err)
	}
}

func TestFindCompatibleTrips_BundledTotalsReported(t *testing.T) {
	ctx := context.Background()
	cargoRepo := NewMockCargoRepository()
	tripRepo := NewMockTripRepository()
	vehicleRepo := NewMockVehicleRepository()

	cargo := compatCargo()
	cargoRepo.AddCargoItem(cargo)

	seedOpenTrip(tripRepo, vehicleRepo, "trip-1", "PLT-1")

	bundledItem := compatCargo()
	bundledItem.ID = "cargo-bundled"
	bundledItem.WeightKg = 300
	bundledItem.VolumeM3 = 3
	bundledItem.Status = domain.CargoStatusBundled
	cargoRepo.AddCargoItem(bundledItem)
	cargoRepo.BundleCargo("trip-1", "cargo-bundled")

	svc := newAssignmentService(cargoRepo, tripRepo, vehicleRepo, nil)
	candidates, err := svc.FindCompatibleTrips(ctx, cargo.ID)
	if err != nil {
		t.Fatalf("failed to list candidates: %v", err)
	}

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	cand := candidates[0]
	if cand.CargoCount != 1 || cand.BundledWeightKg != 300 || cand.BundledVolumeM3 != 3 {
		t.Errorf("bundled totals wrong: count=%d weight=%v volume=%v",
			cand.CargoCount, cand.BundledWeightKg, cand.BundledVolumeM3)
	}
}

func TestJoinTrip_RefusedWhileAnotherAssignmentHoldsTheLock(t *testing.T) {
	ctx := context.Background()
	cargoRepo := NewMockCargoRepository()
	tripRepo := NewMockTripRepository()
	vehicleRepo := NewMockVehicleRepository()
	lockStore := NewMockLockStore()

	cargo := compatCargo()
	cargoRepo.AddCargoItem(cargo)
	seedOpenTrip(tripRepo, vehicleRepo, "trip-1", "PLT-1")

	lockStore.HoldLock(cargo.ID)

	svc := newAssignmentService(cargoRepo, tripRepo, vehicleRepo, lockStore)
	_, err := svc.JoinTrip(ctx, service.JoinRequest{TripID: "trip-1", CargoID: cargo.ID})
	if !errors.Is(err, service.ErrCargoBeingAssigned) {
		t.Fatalf("expected ErrCargoBeingAssigned, got %v", err)
	}
}

func TestJoinTrip_RevalidatesBeforeCommitting(t *testing.T) {
	ctx := context.Background()
	cargoRepo := NewMockCargoRepository()
	tripRepo := NewMockTripRepository()
	vehicleRepo := NewMockVehicleRepository()
	lockStore := NewMockLockStore()

	cargo := compatCargo()
	cargoRepo.AddCargoItem(cargo)

	// The chosen trip went IN_PROGRESS between listing and joining.
	trip := seedOpenTrip(tripRepo, vehicleRepo, "trip-1", "PLT-1")
	trip.Status = domain.TripStatusInProgress

	svc := newAssignmentService(cargoRepo, tripRepo, vehicleRepo, lockStore)
	_, err := svc.JoinTrip(ctx, service.JoinRequest{TripID: "trip-1", CargoID: cargo.ID})
	if !errors.Is(err, service.ErrTripNotOpen) {
		t.Fatalf("expected ErrTripNotOpen, got %v", err)
	}

	// The lock must have been released despite the refusal.
	if lockStore.ReleaseCallCount != 1 {
		t.Errorf("expected exactly one lock release, got %d", lockStore.ReleaseCallCount)
	}
}

func TestJoinTrip_IncompatibleTripRefused(t *testing.T) {
	ctx := context.Background()
	cargoRepo := NewMockCargoRepository()
	tripRepo := NewMockTripRepository()
	vehicleRepo := NewMockVehicleRepository()
	lockStore := NewMockLockStore()

	cargo := compatCargo()
	cargoRepo.AddCargoItem(cargo)

	seedOpenTrip(tripRepo, vehicleRepo, "trip-1", "PLT-1")
	vehicleRepo.GetVehicle("PLT-1").CargoType = domain.CargoTypeFlatbed

	svc := newAssignmentService(cargoRepo, tripRepo, vehicleRepo, lockStore)
	_, err := svc.JoinTrip(ctx, service.JoinRequest{TripID: "trip-1", CargoID: cargo.ID})
	if !errors.Is(err, service.ErrTripNotCompatible) {
		t.Fatalf("expected ErrTripNotCompatible, got %v", err)
	}
}

func TestJoinTrip_BundledCargoCannotJoinAgain(t *testing.T) {
	ctx := context.Background()
	cargoRepo := NewMockCargoRepository()
	tripRepo := NewMockTripRepository()
	vehicleRepo := NewMockVehicleRepository()
	lockStore := NewMockLockStore()

	cargo := compatCargo()
	cargo.Status = domain.CargoStatusBundled
	cargoRepo.AddCargoItem(cargo)
	seedOpenTrip(tripRepo, vehicleRepo, "trip-1", "PLT-1")

	svc := newAssignmentService(cargoRepo, tripRepo, vehicleRepo, lockStore)
	_, err := svc.JoinTrip(ctx, service.JoinRequest{TripID: "trip-1", CargoID: cargo.ID})
	if !errors.Is(err, service.ErrCargoNotPending) {
		t.Fatalf("expected ErrCargoNotPending, got %v", err)
	}
}

func TestCreateTripForCargo_NoVehicleAvailable(t *testing.T) {
	ctx := context.Background()
	cargoRepo := NewMockCargoRepository()
	tripRepo := NewMockTripRepository()
	vehicleRepo := NewMockVehicleRepository()
	lockStore := NewMockLockStore()

	cargo := compatCargo()
	cargoRepo.AddCargoItem(cargo)

	// Only vehicle in the fleet is in maintenance.
	vehicle := compatVehicle()
	vehicle.State = domain.VehicleStateMaintenance
	vehicleRepo.AddVehicle(vehicle)

	svc := newAssignmentService(cargoRepo, tripRepo, vehicleRepo, lockStore)
	_, err := svc.CreateTripForCargo(ctx, service.CreateTripRequest{
		CargoID:        cargo.ID,
		OriginLat:      19.43,
		OriginLng:      -99.13,
		DestinationLat: 20.66,
		DestinationLng: -103.35,
	})
	if !errors.Is(err, service.ErrNoVehicleAvailable) {
		t.Fatalf("expected ErrNoVehicleAvailable, got %v", err)
	}
}

func TestCreateTripForCargo_RejectsBadCoordinates(t *testing.T) {
	ctx := context.Background()
	svc := newAssignmentService(NewMockCargoRepository(), NewMockTripRepository(), NewMockVehicleRepository(), nil)

	_, err := svc.CreateTripForCargo(ctx, service.CreateTripRequest{
		CargoID:        "cargo-1",
		OriginLat:      95.0, // out of range
		OriginLng:      -99.13,
		DestinationLat: 20.66,
		DestinationLng: -103.35,
	})
	if !errors.Is(err, service.ErrInvalidLocation) {
		t.Fatalf("expected ErrInvalidLocation, got %v", err)
	}
}
