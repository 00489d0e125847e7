package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

const vehicleColumns = `plate, COALESCE(make, ''), COALESCE(model, ''), max_weight_kg, max_volume_m3,
		remaining_weight_kg, remaining_volume_m3, cargo_type, COALESCE(driver_id, ''), state, active, COALESCE(iot_folio, '')`

// VehicleRepository is a PostgreSQL implementation of repository.VehicleRepository.
type VehicleRepository struct {
	q Querier
}

// NewVehicleRepository creates a new PostgreSQL vehicle repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{q: db}
}

// NewVehicleRepositoryWithTx creates a vehicle repository using a transaction.
func NewVehicleRepositoryWithTx(tx *sql.Tx) *VehicleRepository {
	return &VehicleRepository{q: tx}
}

// Create adds a new vehicle.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (plate, make, model, max_weight_kg, max_volume_m3,
			remaining_weight_kg, remaining_volume_m3, cargo_type, driver_id, state, active, iot_folio)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11, NULLIF($12, ''))
	`
	_, err := r.q.ExecContext(ctx, query,
		vehicle.Plate,
		vehicle.Make,
		vehicle.Model,
		vehicle.MaxWeightKg,
		vehicle.MaxVolumeM3,
		vehicle.RemainingWeightKg,
		vehicle.RemainingVolumeM3,
		vehicle.CargoType,
		vehicle.DriverID,
		vehicle.State,
		vehicle.Active,
		vehicle.IoTFolio,
	)
	return err
}

// GetByPlate retrieves a vehicle by license plate.
func (r *VehicleRepository) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE plate = $1`
	return scanVehicle(r.q.QueryRowContext(ctx, query, plate))
}

// GetByPlateForUpdate retrieves a vehicle by plate holding a row-level lock.
// Must be called inside a transaction; it serializes concurrent capacity
// decrements on the same vehicle.
func (r *VehicleRepository) GetByPlateForUpdate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE plate = $1 FOR UPDATE`
	return scanVehicle(r.q.QueryRowContext(ctx, query, plate))
}

// GetActive retrieves all active vehicles.
func (r *VehicleRepository) GetActive(ctx context.Context) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE active ORDER BY plate`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		vehicle, err := scanVehicleRows(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, rows.Err()
}

// Update updates a vehicle's descriptive fields, capacities and state. The
// remaining columns are written alongside the maxima so a capacity change
// cannot leave remaining above max.
func (r *VehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		UPDATE vehicles
		SET make = $1, model = $2, max_weight_kg = $3, max_volume_m3 = $4,
		    remaining_weight_kg = $5, remaining_volume_m3 = $6,
		    cargo_type = $7, driver_id = NULLIF($8, ''), state = $9, iot_folio = NULLIF($10, '')
		WHERE plate = $11
	`
	result, err := r.q.ExecContext(ctx, query,
		vehicle.Make,
		vehicle.Model,
		vehicle.MaxWeightKg,
		vehicle.MaxVolumeM3,
		vehicle.RemainingWeightKg,
		vehicle.RemainingVolumeM3,
		vehicle.CargoType,
		vehicle.DriverID,
		vehicle.State,
		vehicle.IoTFolio,
		vehicle.Plate,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Decommission performs a logical delete: the row is kept but the vehicle
// leaves every active listing.
func (r *VehicleRepository) Decommission(ctx context.Context, plate string) error {
	query := `UPDATE vehicles SET active = FALSE, state = $1 WHERE plate = $2`
	result, err := r.q.ExecContext(ctx, query, domain.VehicleStateDecommissioned, plate)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// UpdateState updates the operational state of a vehicle.
func (r *VehicleRepository) UpdateState(ctx context.Context, plate string, state domain.VehicleState) error {
	result, err := r.q.ExecContext(ctx, `UPDATE vehicles SET state = $1 WHERE plate = $2`, state, plate)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// AdjustRemaining decrements remaining capacity by the given amounts. The
// WHERE clause refuses the write when it would take remaining weight or
// volume negative, so the capacity invariant holds even under races.
func (r *VehicleRepository) AdjustRemaining(ctx context.Context, plate string, weightKg, volumeM3 float64) error {
	query := `
		UPDATE vehicles
		SET remaining_weight_kg = remaining_weight_kg - $1,
		    remaining_volume_m3 = remaining_volume_m3 - $2
		WHERE plate = $3 AND remaining_weight_kg >= $1 AND remaining_volume_m3 >= $2
	`
	result, err := r.q.ExecContext(ctx, query, weightKg, volumeM3, plate)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrInsufficientCapacity
	}
	return nil
}

// ResetRemaining restores remaining capacity to the configured maxima, used
// when a trip completes and the vehicle is emptied.
func (r *VehicleRepository) ResetRemaining(ctx context.Context, plate string) error {
	query := `
		UPDATE vehicles
		SET remaining_weight_kg = max_weight_kg, remaining_volume_m3 = max_volume_m3
		WHERE plate = $1
	`
	result, err := r.q.ExecContext(ctx, query, plate)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// FindAvailableForCargo selects the vehicle the store considers assignable to
// the cargo. Ordered by plate so repeated calls are deterministic.
func (r *VehicleRepository) FindAvailableForCargo(ctx context.Context, cargo *domain.Cargo) (*domain.Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles v
		WHERE v.active
		  AND v.state = $1
		  AND v.cargo_type = $2
		  AND v.remaining_weight_kg >= $3
		  AND v.remaining_volume_m3 >= $4
		  AND NOT EXISTS (
			SELECT 1 FROM trips t WHERE t.vehicle_plate = v.plate AND t.status != $5
		  )
		ORDER BY v.plate
		LIMIT 1
	`
	return scanVehicle(r.q.QueryRowContext(ctx, query,
		domain.VehicleStateAvailable,
		cargo.Type,
		cargo.WeightKg,
		cargo.VolumeM3,
		domain.TripStatusCompleted,
	))
}

func scanVehicle(row *sql.Row) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	err := row.Scan(
		&vehicle.Plate,
		&vehicle.Make,
		&vehicle.Model,
		&vehicle.MaxWeightKg,
		&vehicle.MaxVolumeM3,
		&vehicle.RemainingWeightKg,
		&vehicle.RemainingVolumeM3,
		&vehicle.CargoType,
		&vehicle.DriverID,
		&vehicle.State,
		&vehicle.Active,
		&vehicle.IoTFolio,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

func scanVehicleRows(rows *sql.Rows) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	err := rows.Scan(
		&vehicle.Plate,
		&vehicle.Make,
		&vehicle.Model,
		&vehicle.MaxWeightKg,
		&vehicle.MaxVolumeM3,
		&vehicle.RemainingWeightKg,
		&vehicle.RemainingVolumeM3,
		&vehicle.CargoType,
		&vehicle.DriverID,
		&vehicle.State,
		&vehicle.Active,
		&vehicle.IoTFolio,
	)
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// Ensure VehicleRepository implements repository.VehicleRepository.
var _ repository.VehicleRepository = (*VehicleRepository)(nil)
