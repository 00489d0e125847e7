package app

import (
	"context"
	"fmt"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"fleet/internal/config"
)

// NewRedisClient connects to Redis, which backs vehicle positions, cargo
// assignment locks, the vehicle cache and idempotency replay. With nrApp set
// every command is reported as a datastore segment.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, nrApp *newrelic.Application) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if nrApp != nil {
		client.AddHook(redisTelemetryHook{})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// redisTelemetryHook reports Redis commands to the transaction found in the
// request context, if any.
type redisTelemetryHook struct{}

func startRedisSegment(ctx context.Context, operation string) *newrelic.DatastoreSegment {
	txn := newrelic.FromContext(ctx)
	if txn == nil {
		return nil
	}
	return &newrelic.DatastoreSegment{
		StartTime:  txn.StartSegmentNow(),
		Product:    newrelic.DatastoreRedis,
		Operation:  operation,
		Collection: "redis",
	}
}

func (redisTelemetryHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (redisTelemetryHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if segment := startRedisSegment(ctx, cmd.Name()); segment != nil {
			defer segment.End()
		}
		return next(ctx, cmd)
	}
}

func (redisTelemetryHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if segment := startRedisSegment(ctx, "pipeline"); segment != nil {
			defer segment.End()
		}
		return next(ctx, cmds)
	}
}
