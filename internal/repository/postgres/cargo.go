package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

const cargoColumns = `id, client_name, weight_kg, volume_m3, COALESCE(description, ''), cargo_type, deliver_by, status,
		origin_lat, origin_lng, destination_lat, destination_lng, created_at`

// CargoRepository is a PostgreSQL implementation of repository.CargoRepository.
type CargoRepository struct {
	q Querier
}

// NewCargoRepository creates a new PostgreSQL cargo repository.
func NewCargoRepository(db *sql.DB) *CargoRepository {
	return &CargoRepository{q: db}
}

// NewCargoRepositoryWithTx creates a cargo repository using a transaction.
func NewCargoRepositoryWithTx(tx *sql.Tx) *CargoRepository {
	return &CargoRepository{q: tx}
}

// Create persists a new cargo item.
func (r *CargoRepository) Create(ctx context.Context, cargo *domain.Cargo) error {
	query := `
		INSERT INTO cargo (id, client_name, weight_kg, volume_m3, description, cargo_type, deliver_by, status,
			origin_lat, origin_lng, destination_lat, destination_lng, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.q.ExecContext(ctx, query,
		cargo.ID,
		cargo.ClientName,
		cargo.WeightKg,
		cargo.VolumeM3,
		cargo.Description,
		cargo.Type,
		cargo.DeliverBy,
		cargo.Status,
		cargo.OriginLat,
		cargo.OriginLng,
		cargo.DestinationLat,
		cargo.DestinationLng,
		cargo.CreatedAt,
	)
	return err
}

// GetByID retrieves a cargo item by ID.
func (r *CargoRepository) GetByID(ctx context.Context, id string) (*domain.Cargo, error) {
	query := `SELECT ` + cargoColumns + ` FROM cargo WHERE id = $1`

	var cargo domain.Cargo
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&cargo.ID,
		&cargo.ClientName,
		&cargo.WeightKg,
		&cargo.VolumeM3,
		&cargo.Description,
		&cargo.Type,
		&cargo.DeliverBy,
		&cargo.Status,
		&cargo.OriginLat,
		&cargo.OriginLng,
		&cargo.DestinationLat,
		&cargo.DestinationLng,
		&cargo.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &cargo, nil
}

// GetAll retrieves all cargo items.
func (r *CargoRepository) GetAll(ctx context.Context) ([]*domain.Cargo, error) {
	query := `SELECT ` + cargoColumns + ` FROM cargo ORDER BY created_at DESC LIMIT 200`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCargo(rows)
}

// GetByTripID retrieves the cargo items bundled into a trip.
func (r *CargoRepository) GetByTripID(ctx context.Context, tripID string) ([]*domain.Cargo, error) {
	query := `
		SELECT c.id, c.client_name, c.weight_kg, c.volume_m3, COALESCE(c.description, ''), c.cargo_type, c.deliver_by, c.status,
			c.origin_lat, c.origin_lng, c.destination_lat, c.destination_lng, c.created_at
		FROM cargo c
		JOIN trip_cargo tc ON tc.cargo_id = c.id
		WHERE tc.trip_id = $1
		ORDER BY c.id
	`
	rows, err := r.q.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCargo(rows)
}

// UpdateStatus updates the lifecycle status of a cargo item.
func (r *CargoRepository) UpdateStatus(ctx context.Context, id string, status domain.CargoStatus) error {
	result, err := r.q.ExecContext(ctx, `UPDATE cargo SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func collectCargo(rows *sql.Rows) ([]*domain.Cargo, error) {
	var items []*domain.Cargo
	for rows.Next() {
		var cargo domain.Cargo
		if err := rows.Scan(
			&cargo.ID,
			&cargo.ClientName,
			&cargo.WeightKg,
			&cargo.VolumeM3,
			&cargo.Description,
			&cargo.Type,
			&cargo.DeliverBy,
			&cargo.Status,
			&cargo.OriginLat,
			&cargo.OriginLng,
			&cargo.DestinationLat,
			&cargo.DestinationLng,
			&cargo.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, &cargo)
	}
	return items, rows.Err()
}

// Ensure CargoRepository implements repository.CargoRepository.
var _ repository.CargoRepository = (*CargoRepository)(nil)
