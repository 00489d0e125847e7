package domain

// VehicleState represents the operational state of a vehicle.
type VehicleState string

const (
	VehicleStateAvailable      VehicleState = "AVAILABLE"
	VehicleStateMaintenance    VehicleState = "MAINTENANCE"
	VehicleStateEnRoute        VehicleState = "EN_ROUTE"
	VehicleStateDecommissioned VehicleState = "DECOMMISSIONED"
)

// Vehicle represents a truck in the fleet. The license plate is the unique
// identifier. Remaining capacity is decremented whenever cargo is bundled
// into a trip using this vehicle; invariant: 0 <= remaining <= max.
type Vehicle struct {
	Plate             string
	Make              string
	Model             string
	MaxWeightKg       float64
	MaxVolumeM3       float64
	RemainingWeightKg float64
	RemainingVolumeM3 float64
	CargoType         CargoType // The one cargo type this vehicle supports.
	DriverID          string
	State             VehicleState
	Active            bool
	IoTFolio          string // Telematics device reference; empty until provisioned.
}
