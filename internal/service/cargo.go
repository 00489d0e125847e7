package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// CargoService handles cargo intake.
type CargoService struct {
	cargoRepo repository.CargoRepository
}

// NewCargoService creates a new CargoService.
func NewCargoService(cargoRepo repository.CargoRepository) *CargoService {
	return &CargoService{cargoRepo: cargoRepo}
}

// CreateCargoRequest contains the parameters for creating a cargo item.
type CreateCargoRequest struct {
	ClientName     string
	WeightKg       float64
	VolumeM3       float64
	Description    string
	Type           string
	DeliverBy      time.Time
	OriginLat      float64
	OriginLng      float64
	DestinationLat float64
	DestinationLng float64
}

// CreateCargo validates and persists a new cargo item in PENDING state.
// Validation happens before anything touches the store: a malformed request
// never reaches the assignment path.
func (s *CargoService) CreateCargo(ctx context.Context, req CreateCargoRequest) (*domain.Cargo, error) {
	cargoType, err := ValidateCargoType(req.Type)
	if err != nil {
		return nil, err
	}
	clientName := strings.TrimSpace(req.ClientName)
	if clientName == "" {
		return nil, ErrInvalidClientName
	}
	if req.WeightKg <= 0 {
		return nil, ErrInvalidWeight
	}
	if req.VolumeM3 <= 0 {
		return nil, ErrInvalidVolume
	}
	if req.DeliverBy.IsZero() {
		return nil, ErrInvalidDeliveryDate
	}
	if !isValidLatitude(req.OriginLat) || !isValidLongitude(req.OriginLng) ||
		!isValidLatitude(req.DestinationLat) || !isValidLongitude(req.DestinationLng) {
		return nil, ErrInvalidLocation
	}

	cargo := &domain.Cargo{
		ID:             uuid.New().String(),
		ClientName:     clientName,
		WeightKg:       req.WeightKg,
		VolumeM3:       req.VolumeM3,
		Description:    req.Description,
		Type:           cargoType,
		DeliverBy:      req.DeliverBy,
		Status:         domain.CargoStatusPending,
		OriginLat:      req.OriginLat,
		OriginLng:      req.OriginLng,
		DestinationLat: req.DestinationLat,
		DestinationLng: req.DestinationLng,
		CreatedAt:      time.Now(),
	}

	if err := s.cargoRepo.Create(ctx, cargo); err != nil {
		return nil, err
	}
	return cargo, nil
}

// GetCargo retrieves a cargo item by ID.
func (s *CargoService) GetCargo(ctx context.Context, cargoID string) (*domain.Cargo, error) {
	if cargoID == "" {
		return nil, ErrInvalidCargoID
	}
	return s.cargoRepo.GetByID(ctx, cargoID)
}

// GetAllCargo retrieves all cargo items.
func (s *CargoService) GetAllCargo(ctx context.Context) ([]*domain.Cargo, error) {
	return s.cargoRepo.GetAll(ctx)
}

// ValidateCargoType validates a cargo type string.
func ValidateCargoType(cargoType string) (domain.CargoType, error) {
	switch domain.CargoType(cargoType) {
	case domain.CargoTypeDry, domain.CargoTypeRefrigerated,
		domain.CargoTypeFlatbed, domain.CargoTypeLowboy:
		return domain.CargoType(cargoType), nil
	default:
		return "", ErrInvalidCargoType
	}
}
