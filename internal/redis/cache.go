package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis. It replaces the ad-hoc
// in-memory lookups the dashboard used to rely on: entries carry a TTL and
// the store is passed to whoever needs it instead of living in a package
// variable.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// VehicleCacheTTL bounds staleness of cached vehicles; remaining capacity
// changes on every join so the window is kept short.
const VehicleCacheTTL = 15 * time.Second

const vehicleCachePrefix = "cache:vehicle:"

// CachedVehicle represents a cached vehicle entity, trimmed to the fields
// the assignment path filters on.
type CachedVehicle struct {
	Plate             string  `json:"plate"`
	State             string  `json:"state"`
	CargoType         string  `json:"cargo_type"`
	MaxWeightKg       float64 `json:"max_weight_kg"`
	MaxVolumeM3       float64 `json:"max_volume_m3"`
	RemainingWeightKg float64 `json:"remaining_weight_kg"`
	RemainingVolumeM3 float64 `json:"remaining_volume_m3"`
}

// GetVehicle retrieves a vehicle from cache. A nil result means cache miss.
func (s *CacheStore) GetVehicle(ctx context.Context, plate string) (*CachedVehicle, error) {
	data, err := s.client.Get(ctx, vehicleCachePrefix+plate).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var vehicle CachedVehicle
	if err := json.Unmarshal(data, &vehicle); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// SetVehicle stores a vehicle in cache.
func (s *CacheStore) SetVehicle(ctx context.Context, vehicle *CachedVehicle) error {
	data, err := json.Marshal(vehicle)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, vehicleCachePrefix+vehicle.Plate, data, VehicleCacheTTL).Err()
}

// InvalidateVehicle removes a vehicle from cache. Called after any write
// that touches remaining capacity or state.
func (s *CacheStore) InvalidateVehicle(ctx context.Context, plate string) error {
	return s.client.Del(ctx, vehicleCachePrefix+plate).Err()
}
