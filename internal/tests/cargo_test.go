package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleet/internal/domain"
	"fleet/internal/service"
)

func validCargoRequest() service.CreateCargoRequest {
	return service.CreateCargoRequest{
		ClientName:     "Acme",
		WeightKg:       500,
		VolumeM3:       5,
		Description:    "palletized boxes",
		Type:           "DRY",
		DeliverBy:      time.Date(2026, 3, 14, 14, 0, 0, 0, time.UTC),
		OriginLat:      19.43,
		OriginLng:      -99.13,
		DestinationLat: 20.66,
		DestinationLng: -103.35,
	}
}

func TestCreateCargo_StartsPending(t *testing.T) {
	ctx := context.Background()
	cargoRepo := NewMockCargoRepository()
	svc := service.NewCargoService(cargoRepo)

	cargo, err := svc.CreateCargo(ctx, validCargoRequest())
	if err != nil {
		t.Fatalf("failed to create cargo: %v", err)
	}

	if cargo.ID == "" {
		t.Error("expected a generated ID")
	}
	if cargo.Status != domain.CargoStatusPending {
		t.Errorf("expected PENDING, got %s", cargo.Status)
	}
	if cargo.Type != domain.CargoTypeDry {
		t.Errorf("expected DRY, got %s", cargo.Type)
	}
	if cargoRepo.CreateCallCount != 1 {
		t.Errorf("expected 1 create call, got %d", cargoRepo.CreateCallCount)
	}
}

func TestCreateCargo_Validation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*service.CreateCargoRequest)
		wantErr error
	}{
		{"empty client name", func(r *service.CreateCargoRequest) { r.ClientName = " " }, service.ErrInvalidClientName},
		{"zero weight", func(r *service.CreateCargoRequest) { r.WeightKg = 0 }, service.ErrInvalidWeight},
		{"negative weight", func(r *service.CreateCargoRequest) { r.WeightKg = -10 }, service.ErrInvalidWeight},
		{"zero volume", func(r *service.CreateCargoRequest) { r.VolumeM3 = 0 }, service.ErrInvalidVolume},
		{"unknown type", func(r *service.CreateCargoRequest) { r.Type = "TANKER" }, service.ErrInvalidCargoType},
		{"missing delivery date", func(r *service.CreateCargoRequest) { r.DeliverBy = time.Time{} }, service.ErrInvalidDeliveryDate},
		{"latitude out of range", func(r *service.CreateCargoRequest) { r.OriginLat = 91 }, service.ErrInvalidLocation},
		{"longitude out of range", func(r *service.CreateCargoRequest) { r.DestinationLng = -181 }, service.ErrInvalidLocation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cargoRepo := NewMockCargoRepository()
			svc := service.NewCargoService(cargoRepo)

			req := validCargoRequest()
			tc.mutate(&req)

			_, err := svc.CreateCargo(context.Background(), req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if cargoRepo.CreateCallCount != 0 {
				t.Error("invalid cargo must never reach the repository")
			}
		})
	}
}

func TestValidateCargoType(t *testing.T) {
	for _, tag := range []string{"DRY", "REFRIGERATED", "FLATBED", "LOWBOY"} {
		if _, err := service.ValidateCargoType(tag); err != nil {
			t.Errorf("%s should be valid: %v", tag, err)
		}
	}
	if _, err := service.ValidateCargoType("dry"); !errors.Is(err, service.ErrInvalidCargoType) {
		t.Error("type tags are case sensitive")
	}
	if _, err := service.ValidateCargoType(""); !errors.Is(err, service.ErrInvalidCargoType) {
		t.Error("empty type must be rejected")
	}
}
