package service

import "errors"

var (
	// ErrInvalidCargoID is returned when cargo ID is empty.
	ErrInvalidCargoID = errors.New("invalid cargo id")

	// ErrInvalidTripID is returned when trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidPlate is returned when a vehicle plate is empty.
	ErrInvalidPlate = errors.New("invalid vehicle plate")

	// ErrInvalidClientName is returned when a cargo's client name is empty.
	ErrInvalidClientName = errors.New("invalid client name")

	// ErrInvalidWeight is returned when a cargo weight is not positive.
	ErrInvalidWeight = errors.New("weight must be positive")

	// ErrInvalidVolume is returned when a cargo volume is not positive.
	ErrInvalidVolume = errors.New("volume must be positive")

	// ErrInvalidCargoType is returned when a cargo type is not a known tag.
	ErrInvalidCargoType = errors.New("invalid cargo type")

	// ErrInvalidDeliveryDate is returned when a required delivery timestamp is missing.
	ErrInvalidDeliveryDate = errors.New("invalid delivery date")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidCapacity is returned when a vehicle capacity is not positive.
	ErrInvalidCapacity = errors.New("capacity must be positive")

	// ErrCapacityBelowLoad is returned when a capacity update would drop a
	// maximum below what bundled cargo already occupies.
	ErrCapacityBelowLoad = errors.New("capacity below committed load")

	// ErrInvalidVehicleState is returned when a vehicle state is not a known value.
	ErrInvalidVehicleState = errors.New("invalid vehicle state")

	// ErrCargoNotPending is returned when assigning a cargo item that is
	// already bundled or delivered.
	ErrCargoNotPending = errors.New("cargo not in pending state")

	// ErrCargoBeingAssigned is returned when another assignment request
	// for the same cargo is in flight.
	ErrCargoBeingAssigned = errors.New("cargo assignment already in progress")

	// ErrTripNotOpen is returned when a trip is not in ASSIGNED state.
	ErrTripNotOpen = errors.New("trip not open for cargo")

	// ErrTripNotCompatible is returned when the requested trip fails the
	// compatibility check at join time.
	ErrTripNotCompatible = errors.New("trip not compatible with cargo")

	// ErrNoVehicleAvailable is returned when no vehicle can take a new trip
	// for the cargo. The caller must re-attempt once availability changes.
	ErrNoVehicleAvailable = errors.New("no vehicle available")

	// ErrJoinFailed is returned when the atomic join transaction could not
	// be confirmed; manual reconciliation may be required.
	ErrJoinFailed = errors.New("cargo join transaction failed")

	// ErrTripAlreadyDeparted is returned when recording departure twice.
	ErrTripAlreadyDeparted = errors.New("trip already departed")

	// ErrTripNotDeparted is returned when completing a trip still at the yard.
	ErrTripNotDeparted = errors.New("trip has not departed")

	// ErrTripCompleted is returned when operating on a completed trip.
	ErrTripCompleted = errors.New("trip already completed")

	// ErrVehicleHasActiveTrip is returned when a vehicle is already the
	// target of an open trip.
	ErrVehicleHasActiveTrip = errors.New("vehicle already has an active trip")

	// ErrInvalidUserID is returned when a user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidName is returned when a user's given name is empty.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidEmail is returned when an email is empty or malformed.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrInvalidPassword is returned when a password is empty.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidCredentials is returned when login fails. Deliberately the
	// same for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRole is returned when a user role is not ADMIN or DRIVER.
	ErrInvalidRole = errors.New("invalid role")

	// ErrEmailTaken is returned when registering a duplicate email.
	ErrEmailTaken = errors.New("email already registered")
)
