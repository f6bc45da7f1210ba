package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "folioassist:ratelimit:"

// RedisLedger is a fixed-window ledger backed by Redis, for deployments with
// more than one process. Keys carry their own TTL, so no sweep is needed.
type RedisLedger struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLedger connects to Redis and verifies the connection.
func NewRedisLedger(ctx context.Context, cfg Config) (*RedisLedger, error) {
	cfg = cfg.withDefaults()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisLedger{client: client, limit: cfg.Limit, window: cfg.Window}, nil
}

// Allow increments the client's window counter. The window's TTL starts with
// the first request of the window, matching the in-memory semantics.
func (l *RedisLedger) Allow(ctx context.Context, clientID string) (Result, error) {
	key := redisKeyPrefix + clientID

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return Result{Allowed: true, Limit: l.limit}, fmt.Errorf("incr %s: %w", key, err)
	}
	if count == 1 {
		if err := l.client.PExpire(ctx, key, l.window).Err(); err != nil {
			return Result{Allowed: true, Limit: l.limit}, fmt.Errorf("expire %s: %w", key, err)
		}
	}

	if count > int64(l.limit) {
		ttl, err := l.client.PTTL(ctx, key).Result()
		if err != nil || ttl < 0 {
			ttl = l.window
		}
		return Result{Allowed: false, Limit: l.limit, Remaining: 0, RetryAfter: ttl}, nil
	}

	return Result{Allowed: true, Limit: l.limit, Remaining: l.limit - int(count)}, nil
}

// Close releases the Redis connection.
func (l *RedisLedger) Close() {
	_ = l.client.Close()
}
