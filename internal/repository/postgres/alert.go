package postgres

import (
	"context"
	"database/sql"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// AlertRepository is a PostgreSQL implementation of repository.AlertRepository.
type AlertRepository struct {
	q Querier
}

// NewAlertRepository creates a new PostgreSQL alert repository.
func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{q: db}
}

// Create persists a new alert.
func (r *AlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	query := `
		INSERT INTO alerts (id, iot_folio, lat, lng, raised_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5)
	`
	_, err := r.q.ExecContext(ctx, query, alert.ID, alert.IoTFolio, alert.Lat, alert.Lng, alert.RaisedAt)
	return err
}

// GetAll retrieves all alerts, newest first.
func (r *AlertRepository) GetAll(ctx context.Context) ([]*domain.Alert, error) {
	query := `
		SELECT id, COALESCE(iot_folio, ''), lat, lng, raised_at
		FROM alerts ORDER BY raised_at DESC LIMIT 200
	`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []*domain.Alert
	for rows.Next() {
		var alert domain.Alert
		if err := rows.Scan(&alert.ID, &alert.IoTFolio, &alert.Lat, &alert.Lng, &alert.RaisedAt); err != nil {
			return nil, err
		}
		alerts = append(alerts, &alert)
	}
	return alerts, rows.Err()
}

// Ensure AlertRepository implements repository.AlertRepository.
var _ repository.AlertRepository = (*AlertRepository)(nil)
