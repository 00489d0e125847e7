package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

const tripColumns = `id, vehicle_plate, status, origin_lat, origin_lng, destination_lat, destination_lng,
		deliver_by, departed_at, active, COALESCE(notes, ''), created_at`

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, vehicle_plate, status, origin_lat, origin_lng, destination_lat, destination_lng,
			deliver_by, departed_at, active, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	var departedAt sql.NullTime
	if !trip.DepartedAt.IsZero() {
		departedAt = sql.NullTime{Time: trip.DepartedAt, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.VehiclePlate,
		trip.Status,
		trip.OriginLat,
		trip.OriginLng,
		trip.DestinationLat,
		trip.DestinationLng,
		trip.DeliverBy,
		departedAt,
		trip.Active,
		trip.Notes,
		trip.CreatedAt,
	)
	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	return scanTrip(r.q.QueryRowContext(ctx, query, id))
}

// GetOpen retrieves all ASSIGNED trips. Ordered by ID ascending so the
// candidate listing the operator sees is deterministic.
func (r *TripRepository) GetOpen(ctx context.Context) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE status = $1 AND active ORDER BY id`
	rows, err := r.q.QueryContext(ctx, query, domain.TripStatusAssigned)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTrips(rows)
}

// GetAll retrieves all trips.
func (r *TripRepository) GetAll(ctx context.Context) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips ORDER BY created_at DESC LIMIT 100`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTrips(rows)
}

// Update updates an existing trip.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET status = $1, departed_at = $2, active = $3, notes = $4
		WHERE id = $5
	`
	var departedAt sql.NullTime
	if !trip.DepartedAt.IsZero() {
		departedAt = sql.NullTime{Time: trip.DepartedAt, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		trip.Status,
		departedAt,
		trip.Active,
		trip.Notes,
		trip.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// AddCargo inserts a cargo-to-trip relation.
func (r *TripRepository) AddCargo(ctx context.Context, tripID, cargoID string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO trip_cargo (trip_id, cargo_id) VALUES ($1, $2)`,
		tripID, cargoID,
	)
	return err
}

// GetActiveByVehicle retrieves the open trip for a vehicle.
// Returns nil if no open trip exists.
func (r *TripRepository) GetActiveByVehicle(ctx context.Context, plate string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE vehicle_plate = $1 AND status != $2 LIMIT 1`
	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, plate, domain.TripStatusCompleted))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return trip, err
}

func scanTrip(row *sql.Row) (*domain.Trip, error) {
	var trip domain.Trip
	var departedAt sql.NullTime

	err := row.Scan(
		&trip.ID,
		&trip.VehiclePlate,
		&trip.Status,
		&trip.OriginLat,
		&trip.OriginLng,
		&trip.DestinationLat,
		&trip.DestinationLng,
		&trip.DeliverBy,
		&departedAt,
		&trip.Active,
		&trip.Notes,
		&trip.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if departedAt.Valid {
		trip.DepartedAt = departedAt.Time
	}
	return &trip, nil
}

func collectTrips(rows *sql.Rows) ([]*domain.Trip, error) {
	var trips []*domain.Trip
	for rows.Next() {
		var trip domain.Trip
		var departedAt sql.NullTime

		if err := rows.Scan(
			&trip.ID,
			&trip.VehiclePlate,
			&trip.Status,
			&trip.OriginLat,
			&trip.OriginLng,
			&trip.DestinationLat,
			&trip.DestinationLng,
			&trip.DeliverBy,
			&departedAt,
			&trip.Active,
			&trip.Notes,
			&trip.CreatedAt,
		); err != nil {
			return nil, err
		}
		if departedAt.Valid {
			trip.DepartedAt = departedAt.Time
		}
		trips = append(trips, &trip)
	}
	return trips, rows.Err()
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
