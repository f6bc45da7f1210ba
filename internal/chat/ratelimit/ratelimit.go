// Package ratelimit implements the per-client admission ledger for the chat
// endpoint. The ledger is the only mutable shared state in the service.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Defaults match the window the public site has always enforced.
const (
	DefaultLimit         = 10
	DefaultWindow        = time.Minute
	DefaultSweepInterval = 2 * time.Minute
)

// Result reports an admission decision.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	// RetryAfter is how long the client should wait before retrying.
	// Zero when Allowed.
	RetryAfter time.Duration
}

// Ledger decides, per client identifier, whether a request is admitted.
// Implementations mutate their state on admission.
type Ledger interface {
	Allow(ctx context.Context, clientID string) (Result, error)
}

// Config selects and tunes a ledger implementation.
type Config struct {
	Store         string        `mapstructure:"store"`
	Limit         int           `mapstructure:"limit"`
	Window        time.Duration `mapstructure:"window"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

func (c Config) withDefaults() Config {
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = DefaultSweepInterval
	}
	return c
}

// New builds the ledger selected by cfg.Store ("memory" by default) and
// returns it with a stop function releasing any background work it owns.
//
// The in-memory ledger is correct only for a single-process deployment;
// multi-replica deployments must use the redis store so admissions share one
// ledger.
func New(ctx context.Context, cfg Config) (Ledger, func(), error) {
	store := strings.ToLower(strings.TrimSpace(cfg.Store))
	switch store {
	case "", "memory":
		ledger := NewMemoryLedger(cfg)
		ledger.Start()
		return ledger, ledger.Stop, nil
	case "redis":
		ledger, err := NewRedisLedger(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return ledger, ledger.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown rate limit store %q", cfg.Store)
	}
}
