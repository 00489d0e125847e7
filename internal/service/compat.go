package service

import (
	"math"
	"time"

	"github.com/jinzhu/now"

	"fleet/internal/domain"
)

// DefaultProximityEpsilonDegrees is the default admission threshold for
// origin/destination deltas. 0.1 decimal degrees is roughly 11 km at the
// equator; it is a coarse filter, not a routing distance.
const DefaultProximityEpsilonDegrees = 0.1

// CompatPolicy carries the tunable knobs of the compatibility check. Both
// values are deliberate configuration, not hardcoded literals: the epsilon
// and the reference timezone come from config and flow in here.
type CompatPolicy struct {
	// ProximityEpsilon is the maximum absolute lat/lng delta, in decimal
	// degrees, for a cargo's origin and destination to be considered
	// near a trip's. Zero or negative falls back to the default.
	ProximityEpsilon float64

	// Location is the single fixed reference timezone used to extract
	// calendar dates, so the same-day check cannot flip across client
	// zones. Nil falls back to UTC.
	Location *time.Location
}

func (p CompatPolicy) epsilon() float64 {
	if p.ProximityEpsilon > 0 {
		return p.ProximityEpsilon
	}
	return DefaultProximityEpsilonDegrees
}

func (p CompatPolicy) location() *time.Location {
	if p.Location != nil {
		return p.Location
	}
	return time.UTC
}

// IsCompatible decides whether the candidate cargo can join the trip.
// All five conditions must hold:
//
//  1. Weight fit: max capacity covers bundled + candidate weight, and the
//     vehicle's remaining weight covers the candidate.
//  2. Volume fit: max volume covers bundled + candidate volume.
//  3. Exact cargo-type match.
//  4. Same calendar date of required delivery in the reference timezone.
//  5. Origin and destination lat/lng deltas each strictly below epsilon.
//
// Capacity comparisons are inclusive (>=): a cargo that lands exactly on the
// vehicle's limit is accepted. The function is pure; a trip whose vehicle
// could not be resolved is non-compatible (nil vehicle fails closed) and the
// anomaly is the caller's to log.
func IsCompatible(policy CompatPolicy, cargo *domain.Cargo, trip *domain.Trip, vehicle *domain.Vehicle, bundled []*domain.Cargo) bool {
	if cargo == nil || trip == nil || vehicle == nil {
		return false
	}

	// Trips already en route are not candidates.
	if trip.Status != domain.TripStatusAssigned {
		return false
	}

	var bundledWeight, bundledVolume float64
	for _, item := range bundled {
		bundledWeight += item.WeightKg
		bundledVolume += item.VolumeM3
	}

	if vehicle.MaxWeightKg < bundledWeight+cargo.WeightKg {
		return false
	}
	if vehicle.RemainingWeightKg < cargo.WeightKg {
		return false
	}
	if vehicle.MaxVolumeM3 < bundledVolume+cargo.VolumeM3 {
		return false
	}
	if vehicle.CargoType != cargo.Type {
		return false
	}
	if !sameCalendarDay(trip.DeliverBy, cargo.DeliverBy, policy.location()) {
		return false
	}

	eps := policy.epsilon()
	if math.Abs(trip.OriginLat-cargo.OriginLat) >= eps ||
		math.Abs(trip.OriginLng-cargo.OriginLng) >= eps {
		return false
	}
	if math.Abs(trip.DestinationLat-cargo.DestinationLat) >= eps ||
		math.Abs(trip.DestinationLng-cargo.DestinationLng) >= eps {
		return false
	}

	return true
}

// sameCalendarDay reports whether a and b fall on the same calendar date in
// the given timezone. Time of day is ignored.
func sameCalendarDay(a, b time.Time, loc *time.Location) bool {
	dayA := now.With(a.In(loc)).BeginningOfDay()
	dayB := now.With(b.In(loc)).BeginningOfDay()
	return dayA.Equal(dayB)
}
