package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const vehicleLocationKey = "vehicles:locations"

// VehicleLocation represents a vehicle's last reported position.
type VehicleLocation struct {
	Plate string
	Lat   float64
	Lng   float64
}

// LocationStore handles vehicle location operations in Redis. Positions are
// reported by the driver app / telematics unit and read back by the
// dashboard; they are never computed server-side.
type LocationStore struct {
	client *redis.Client
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(client *redis.Client) *LocationStore {
	return &LocationStore{client: client}
}

// UpdateLocation stores a vehicle's position using GEOADD.
func (s *LocationStore) UpdateLocation(ctx context.Context, plate string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, vehicleLocationKey, &redis.GeoLocation{
		Name:      plate,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// GetPositions returns the last known positions for the given plates.
// Plates with no reported position are omitted.
func (s *LocationStore) GetPositions(ctx context.Context, plates []string) ([]VehicleLocation, error) {
	if len(plates) == 0 {
		return nil, nil
	}

	positions, err := s.client.GeoPos(ctx, vehicleLocationKey, plates...).Result()
	if err != nil {
		return nil, err
	}

	locations := make([]VehicleLocation, 0, len(plates))
	for i, pos := range positions {
		if pos == nil {
			continue
		}
		locations = append(locations, VehicleLocation{
			Plate: plates[i],
			Lat:   pos.Latitude,
			Lng:   pos.Longitude,
		})
	}
	return locations, nil
}

// FindNearbyVehicles returns vehicle plates within the given radius (in
// kilometers), closest first.
func (s *LocationStore) FindNearbyVehicles(ctx context.Context, lat, lng, radiusKm float64) ([]VehicleLocation, error) {
	results, err := s.client.GeoRadius(ctx, vehicleLocationKey, lng, lat, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	locations := make([]VehicleLocation, 0, len(results))
	for _, r := range results {
		locations = append(locations, VehicleLocation{
			Plate: r.Name,
			Lat:   r.Latitude,
			Lng:   r.Longitude,
		})
	}
	return locations, nil
}

// RemoveLocation removes a vehicle's position from the geo index.
func (s *LocationStore) RemoveLocation(ctx context.Context, plate string) error {
	return s.client.ZRem(ctx, vehicleLocationKey, plate).Err()
}
