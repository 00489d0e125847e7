package tests

import (
	"testing"
	"time"

	"fleet/internal/domain"
	"fleet/internal/service"
)

func testPolicy() service.CompatPolicy {
	loc, _ := time.LoadLocation("America/Mexico_City")
	return service.CompatPolicy{ProximityEpsilon: 0.1, Location: loc}
}

func dayAt(hour int) time.Time {
	loc, _ := time.LoadLocation("America/Mexico_City")
	return time.Date(2026, 3, 14, hour, 0, 0, 0, loc)
}

func compatCargo() *domain.Cargo {
	return &domain.Cargo{
		ID:             "cargo-1",
		ClientName:     "Acme",
		WeightKg:       500,
		VolumeM3:       5,
		Type:           domain.CargoTypeDry,
		DeliverBy:      dayAt(14),
		Status:         domain.CargoStatusPending,
		OriginLat:      19.40,
		OriginLng:      -99.10,
		DestinationLat: 20.60,
		DestinationLng: -103.30,
	}
}

func compatTrip() *domain.Trip {
	return &domain.Trip{
		ID:             "trip-1",
		VehiclePlate:   "ABC-123",
		Status:         domain.TripStatusAssigned,
		OriginLat:      19.43,
		OriginLng:      -99.13,
		DestinationLat: 20.66,
		DestinationLng: -103.35,
		DeliverBy:      dayAt(9),
		Active:         true,
	}
}

func compatVehicle() *domain.Vehicle {
	return &domain.Vehicle{
		Plate:             "ABC-123",
		MaxWeightKg:       2000,
		MaxVolumeM3:       20,
		RemainingWeightKg: 2000,
		RemainingVolumeM3: 20,
		CargoType:         domain.CargoTypeDry,
		State:             domain.VehicleStateAvailable,
		Active:            true,
	}
}

func TestIsCompatible_AllConditionsHold(t *testing.T) {
	if !service.IsCompatible(testPolicy(), compatCargo(), compatTrip(), compatVehicle(), nil) {
		t.Fatal("expected cargo to be compatible with trip")
	}
}

func TestIsCompatible_NilVehicleFailsClosed(t *testing.T) {
	if service.IsCompatible(testPolicy(), compatCargo(), compatTrip(), nil, nil) {
		t.Fatal("expected nil vehicle to be non-compatible")
	}
}

func TestIsCompatible_DepartedTripRejected(t *testing.T) {
	trip := compatTrip()
	trip.Status = domain.TripStatusInProgress
	if service.IsCompatible(testPolicy(), compatCargo(), trip, compatVehicle(), nil) {
		t.Fatal("expected departed trip to be non-compatible")
	}
}

func TestIsCompatible_WeightFit(t *testing.T) {
	cases := []struct {
		name          string
		cargoWeight   float64
		bundledWeight float64
		remaining     float64
		want          bool
	}{
		{"well under capacity", 500, 0, 2000, true},
		{"exactly at max capacity", 2000, 0, 2000, true},
		{"one kg over max", 2001, 0, 2000, false},
		{"bundled pushes over max", 1500, 600, 500, false},
		{"fits with bundled load", 400, 1500, 500, true},
		{"remaining below cargo weight", 600, 0, 500, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cargo := compatCargo()
			cargo.WeightKg = tc.cargoWeight
			vehicle := compatVehicle()
			vehicle.RemainingWeightKg = tc.remaining

			var bundled []*domain.Cargo
			if tc.bundledWeight > 0 {
				item := compatCargo()
				item.ID = "cargo-bundled"
				item.WeightKg = tc.bundledWeight
				item.VolumeM3 = 1
				bundled = append(bundled, item)
			}

			got := service.IsCompatible(testPolicy(), cargo, compatTrip(), vehicle, bundled)
			if got != tc.want {
				t.Errorf("weight %v bundled %v remaining %v: got %v, want %v",
					tc.cargoWeight, tc.bundledWeight, tc.remaining, got, tc.want)
			}
		})
	}
}

func TestIsCompatible_VolumeFit(t *testing.T) {
	cargo := compatCargo()
	cargo.VolumeM3 = 20
	if !service.IsCompatible(testPolicy(), cargo, compatTrip(), compatVehicle(), nil) {
		t.Error("cargo exactly filling the volume should be accepted")
	}

	cargo.VolumeM3 = 20.5
	if service.IsCompatible(testPolicy(), cargo, compatTrip(), compatVehicle(), nil) {
		t.Error("cargo exceeding the volume should be rejected")
	}

	// Bundled volume counts toward the limit.
	cargo.VolumeM3 = 15
	bundledItem := compatCargo()
	bundledItem.ID = "cargo-bundled"
	bundledItem.WeightKg = 100
	bundledItem.VolumeM3 = 6
	if service.IsCompatible(testPolicy(), cargo, compatTrip(), compatVehicle(), []*domain.Cargo{bundledItem}) {
		t.Error("bundled volume plus cargo exceeding the limit should be rejected")
	}
}

func TestIsCompatible_CargoTypeMustMatchExactly(t *testing.T) {
	cargo := compatCargo()
	cargo.Type = domain.CargoTypeRefrigerated
	if service.IsCompatible(testPolicy(), cargo, compatTrip(), compatVehicle(), nil) {
		t.Fatal("refrigerated cargo on a dry vehicle should be rejected")
	}
}

func TestIsCompatible_SameCalendarDay(t *testing.T) {
	loc, _ := time.LoadLocation("America/Mexico_City")

	// Same date, hours apart: compatible.
	cargo := compatCargo()
	cargo.DeliverBy = time.Date(2026, 3, 14, 23, 50, 0, 0, loc)
	trip := compatTrip()
	trip.DeliverBy = time.Date(2026, 3, 14, 0, 10, 0, 0, loc)
	if !service.IsCompatible(testPolicy(), cargo, trip, compatVehicle(), nil) {
		t.Error("same calendar date should be compatible regardless of hour")
	}

	// Ten minutes apart across midnight: different dates.
	cargo.DeliverBy = time.Date(2026, 3, 15, 0, 0, 1, 0, loc)
	trip.DeliverBy = time.Date(2026, 3, 14, 23, 50, 0, 0, loc)
	if service.IsCompatible(testPolicy(), cargo, trip, compatVehicle(), nil) {
		t.Error("deliveries across midnight are different dates and must be rejected")
	}
}

func TestIsCompatible_CalendarDayUsesReferenceTimezone(t *testing.T) {
	loc, _ := time.LoadLocation("America/Mexico_City")
	policy := service.CompatPolicy{ProximityEpsilon: 0.1, Location: loc}

	// 2026-03-15 02:00 UTC is still 2026-03-14 in Mexico City. Expressed in
	// UTC it looks like a different date than the trip's; in the reference
	// zone both fall on the 14th.
	cargo := compatCargo()
	cargo.DeliverBy = time.Date(2026, 3, 15, 2, 0, 0, 0, time.UTC)
	trip := compatTrip()
	trip.DeliverBy = time.Date(2026, 3, 14, 12, 0, 0, 0, loc)

	if !service.IsCompatible(policy, cargo, trip, compatVehicle(), nil) {
		t.Fatal("dates must be compared in the reference timezone, not the input zone")
	}
}

func TestIsCompatible_ProximityThresholdIsStrict(t *testing.T) {
	// 0.25 and the coordinates below are exactly representable, so the
	// boundary comparison is not at the mercy of float rounding.
	loc, _ := time.LoadLocation("America/Mexico_City")
	policy := service.CompatPolicy{ProximityEpsilon: 0.25, Location: loc}

	cargo := compatCargo()
	trip := compatTrip()
	trip.OriginLat = 19.0
	trip.OriginLng = -99.0
	cargo.OriginLng = -99.0

	// Delta exactly equal to epsilon: not near.
	cargo.OriginLat = 19.25
	if service.IsCompatible(policy, cargo, trip, compatVehicle(), nil) {
		t.Error("delta equal to epsilon should be rejected")
	}

	// Just under epsilon: near.
	cargo.OriginLat = 19.125
	if !service.IsCompatible(policy, cargo, trip, compatVehicle(), nil) {
		t.Error("delta just under epsilon should be accepted")
	}
}

func TestIsCompatible_BothEndpointsMustBeNear(t *testing.T) {
	// Origin near, destination far.
	cargo := compatCargo()
	cargo.DestinationLat = 25.68
	cargo.DestinationLng = -100.31
	if service.IsCompatible(testPolicy(), cargo, compatTrip(), compatVehicle(), nil) {
		t.Error("far destination should be rejected even with matching origin")
	}

	// Destination near, origin far.
	cargo = compatCargo()
	cargo.OriginLat = 25.68
	cargo.OriginLng = -100.31
	if service.IsCompatible(testPolicy(), cargo, compatTrip(), compatVehicle(), nil) {
		t.Error("far origin should be rejected even with matching destination")
	}
}

func TestIsCompatible_ConfigurableEpsilon(t *testing.T) {
	cargo := compatCargo()
	trip := compatTrip()
	cargo.OriginLat = trip.OriginLat + 0.15

	tight := service.CompatPolicy{ProximityEpsilon: 0.1, Location: time.UTC}
	loose := service.CompatPolicy{ProximityEpsilon: 0.2, Location: time.UTC}

	// Dates in UTC for this one so only the epsilon varies.
	cargo.DeliverBy = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	trip.DeliverBy = time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

	if service.IsCompatible(tight, cargo, trip, compatVehicle(), nil) {
		t.Error("0.15 delta should fail a 0.1 epsilon")
	}
	if !service.IsCompatible(loose, cargo, trip, compatVehicle(), nil) {
		t.Error("0.15 delta should pass a 0.2 epsilon")
	}
}

func TestIsCompatible_ShrinkingWeightNeverFlipsToFalse(t *testing.T) {
	cargo := compatCargo()
	cargo.WeightKg = 800
	vehicle := compatVehicle()
	vehicle.RemainingWeightKg = 900

	if !service.IsCompatible(testPolicy(), cargo, compatTrip(), vehicle, nil) {
		t.Fatal("baseline should be compatible")
	}

	for _, lighter := range []float64{799, 500, 100, 1, 0.5} {
		cargo.WeightKg = lighter
		if !service.IsCompatible(testPolicy(), cargo, compatTrip(), vehicle, nil) {
			t.Errorf("lighter cargo (%v kg) must stay compatible", lighter)
		}
	}
}

func TestIsCompatible_KnownScenarios(t *testing.T) {
	// A shared baseline: 500 kg / 2 m3 dry cargo against a 2000 kg / 10 m3
	// dry vehicle with 1800 kg remaining and 1000 kg / 4 m3 already bundled.
	baseCargo := func() *domain.Cargo {
		c := compatCargo()
		c.WeightKg = 500
		c.VolumeM3 = 2
		c.OriginLat = 19.43
		c.OriginLng = -99.13
		c.DestinationLat = 20.66
		c.DestinationLng = -103.35
		c.DeliverBy = dayAt(10)
		return c
	}
	baseTrip := func() *domain.Trip {
		tr := compatTrip()
		tr.OriginLat = 19.43
		tr.OriginLng = -99.13
		tr.DestinationLat = 20.66
		tr.DestinationLng = -103.35
		tr.DeliverBy = dayAt(8)
		return tr
	}
	baseVehicle := func() *domain.Vehicle {
		v := compatVehicle()
		v.MaxWeightKg = 2000
		v.RemainingWeightKg = 1800
		v.MaxVolumeM3 = 10
		return v
	}
	baseBundled := func() []*domain.Cargo {
		item := compatCargo()
		item.ID = "cargo-bundled"
		item.WeightKg = 1000
		item.VolumeM3 = 4
		return []*domain.Cargo{item}
	}

	t.Run("fits on every condition", func(t *testing.T) {
		if !service.IsCompatible(testPolicy(), baseCargo(), baseTrip(), baseVehicle(), baseBundled()) {
			t.Fatal("expected compatible")
		}
	})

	t.Run("refrigerated vehicle refuses dry cargo", func(t *testing.T) {
		vehicle := baseVehicle()
		vehicle.CargoType = domain.CargoTypeRefrigerated
		if service.IsCompatible(testPolicy(), baseCargo(), baseTrip(), vehicle, baseBundled()) {
			t.Fatal("expected type mismatch to refuse")
		}
	})

	t.Run("remaining capacity binds before max capacity", func(t *testing.T) {
		cargo := baseCargo()
		cargo.WeightKg = 600
		vehicle := baseVehicle()
		vehicle.RemainingWeightKg = 500
		// Max would allow 1600 of 2000, but only 500 kg remain.
		if service.IsCompatible(testPolicy(), cargo, baseTrip(), vehicle, baseBundled()) {
			t.Fatal("expected remaining-capacity check to refuse")
		}
	})

	t.Run("origin delta beyond epsilon refuses", func(t *testing.T) {
		cargo := baseCargo()
		cargo.OriginLat += 0.15
		if service.IsCompatible(testPolicy(), cargo, baseTrip(), baseVehicle(), baseBundled()) {
			t.Fatal("expected proximity check to refuse")
		}
	})
}

func TestIsCompatible_IsPure(t *testing.T) {
	cargo := compatCargo()
	trip := compatTrip()
	vehicle := compatVehicle()
	bundledItem := compatCargo()
	bundledItem.ID = "cargo-bundled"
	bundled := []*domain.Cargo{bundledItem}

	before := *cargo
	beforeTrip := *trip
	beforeVehicle := *vehicle

	for i := 0; i < 3; i++ {
		if !service.IsCompatible(testPolicy(), cargo, trip, vehicle, bundled) {
			t.Fatal("expected compatible on every call")
		}
	}

	if *cargo != before || *trip != beforeTrip || *vehicle != beforeVehicle {
		t.Fatal("inputs must not be mutated")
	}
}
