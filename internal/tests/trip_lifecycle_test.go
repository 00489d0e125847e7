package tests

import (
	"context"
	"errors"
	"testing"

	"fleet/internal/domain"
	"fleet/internal/repository"
	"fleet/internal/service"
)

func newTripService(tripRepo *MockTripRepository, cargoRepo *MockCargoRepository, vehicleRepo *MockVehicleRepository) *service.TripService {
	return service.NewTripService(nil, tripRepo, cargoRepo, vehicleRepo)
}

func TestDepart_RefusesDoubleDeparture(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tripRepo := NewMockTripRepository()

	trip := compatTrip()
	trip.Status = domain.TripStatusInProgress
	tripRepo.AddTrip(trip)

	svc := newTripService(tripRepo, NewMockCargoRepository(), NewMockVehicleRepository())
	_, err := svc.Depart(ctx, trip.ID)
	if !errors.Is(err, service.ErrTripAlreadyDeparted) {
		t.Fatalf("expected ErrTripAlreadyDeparted, got %v", err)
	}
}

func TestDepart_RefusesCompletedTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tripRepo := NewMockTripRepository()

	trip := compatTrip()
	trip.Status = domain.TripStatusCompleted
	tripRepo.AddTrip(trip)

	svc := newTripService(tripRepo, NewMockCargoRepository(), NewMockVehicleRepository())
	_, err := svc.Depart(ctx, trip.ID)
	if !errors.Is(err, service.ErrTripCompleted) {
		t.Fatalf("expected ErrTripCompleted, got %v", err)
	}
}

func TestDepart_UnknownTrip(t *testing.T) {
	t.Parallel()

	svc := newTripService(NewMockTripRepository(), NewMockCargoRepository(), NewMockVehicleRepository())
	_, err := svc.Depart(context.Background(), "trip-missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestComplete_RefusesTripStillAtYard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tripRepo := NewMockTripRepository()

	trip := compatTrip()
	tripRepo.AddTrip(trip) // still ASSIGNED

	svc := newTripService(tripRepo, NewMockCargoRepository(), NewMockVehicleRepository())
	_, err := svc.Complete(ctx, trip.ID)
	if !errors.Is(err, service.ErrTripNotDeparted) {
		t.Fatalf("expected ErrTripNotDeparted, got %v", err)
	}
}

func TestComplete_RefusesDoubleCompletion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tripRepo := NewMockTripRepository()

	trip := compatTrip()
	trip.Status = domain.TripStatusCompleted
	tripRepo.AddTrip(trip)

	svc := newTripService(tripRepo, NewMockCargoRepository(), NewMockVehicleRepository())
	_, err := svc.Complete(ctx, trip.ID)
	if !errors.Is(err, service.ErrTripCompleted) {
		t.Fatalf("expected ErrTripCompleted, got %v", err)
	}
}

func TestGetOpenTrips_OnlyAssigned(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tripRepo := NewMockTripRepository()

	open := compatTrip()
	open.ID = "trip-open"
	tripRepo.AddTrip(open)

	departed := compatTrip()
	departed.ID = "trip-departed"
	departed.Status = domain.TripStatusInProgress
	tripRepo.AddTrip(departed)

	svc := newTripService(tripRepo, NewMockCargoRepository(), NewMockVehicleRepository())
	trips, err := svc.GetOpenTrips(ctx)
	if err != nil {
		t.Fatalf("failed to list open trips: %v", err)
	}
	if len(trips) != 1 || trips[0].ID != "trip-open" {
		t.Fatalf("expected only trip-open, got %d trips", len(trips))
	}
}

func TestGetTripCargo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tripRepo := NewMockTripRepository()
	cargoRepo := NewMockCargoRepository()

	trip := compatTrip()
	tripRepo.AddTrip(trip)

	item := compatCargo()
	item.Status = domain.CargoStatusBundled
	cargoRepo.AddCargoItem(item)
	cargoRepo.BundleCargo(trip.ID, item.ID)

	svc := newTripService(tripRepo, cargoRepo, NewMockVehicleRepository())
	items, err := svc.GetTripCargo(ctx, trip.ID)
	if err != nil {
		t.Fatalf("failed to list trip cargo: %v", err)
	}
	if len(items) != 1 || items[0].ID != item.ID {
		t.Fatalf("expected the bundled item, got %d items", len(items))
	}
}
