package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireCargoLock attempts to acquire a lock for the given cargo item while
// an assignment is in flight. Returns true if the lock was acquired, false
// if already held.
func (s *LockStore) AcquireCargoLock(ctx context.Context, cargoID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:cargo:%s", cargoID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// ReleaseCargoLock releases the lock for the given cargo item.
func (s *LockStore) ReleaseCargoLock(ctx context.Context, cargoID string) error {
	key := fmt.Sprintf("lock:cargo:%s", cargoID)

	return s.client.Del(ctx, key).Err()
}
