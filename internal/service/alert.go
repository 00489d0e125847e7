package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// AlertService records safety alerts raised from vehicles.
type AlertService struct {
	alertRepo repository.AlertRepository
	location  *time.Location
}

// NewAlertService creates a new AlertService. Alerts are stamped in the
// fleet's reference timezone so the dashboard timeline reads consistently.
func NewAlertService(alertRepo repository.AlertRepository, location *time.Location) *AlertService {
	if location == nil {
		location = time.UTC
	}
	return &AlertService{alertRepo: alertRepo, location: location}
}

// RaiseAlert records an emergency alert at the given position.
func (s *AlertService) RaiseAlert(ctx context.Context, iotFolio string, lat, lng float64) (*domain.Alert, error) {
	if !isValidLatitude(lat) || !isValidLongitude(lng) {
		return nil, ErrInvalidLocation
	}

	alert := &domain.Alert{
		ID:       uuid.New().String(),
		IoTFolio: iotFolio,
		Lat:      lat,
		Lng:      lng,
		RaisedAt: time.Now().In(s.location),
	}

	if err := s.alertRepo.Create(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// GetAlerts retrieves all alerts, newest first.
func (s *AlertService) GetAlerts(ctx context.Context) ([]*domain.Alert, error) {
	return s.alertRepo.GetAll(ctx)
}
