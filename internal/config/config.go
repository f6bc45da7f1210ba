// Package config provides the typed application configuration, loaded from
// viper (defaults, optional YAML file, FOLIOASSIST_* environment variables).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ChristianNyamekye/folioassist/internal/chat/ratelimit"
)

// Config represents the complete application configuration.
type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	Provider  ProviderConfig   `mapstructure:"provider"`
	Persona   PersonaConfig    `mapstructure:"persona"`
	RateLimit ratelimit.Config `mapstructure:"rate_limit"`
	Logging   LoggingConfig    `mapstructure:"logging"`
	Metrics   MetricsConfig    `mapstructure:"metrics"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ProviderConfig contains language model provider configuration.
//
// APIKey is usually left empty in files and supplied via
// FOLIOASSIST_PROVIDER_API_KEY or OPENAI_API_KEY.
type ProviderConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Credential resolves the provider API key. It re-reads the environment on
// every call so the per-request availability check reflects the current
// deployment.
func (c ProviderConfig) Credential() string {
	if key := strings.TrimSpace(c.APIKey); key != "" {
		return key
	}
	if key := strings.TrimSpace(os.Getenv("FOLIOASSIST_PROVIDER_API_KEY")); key != "" {
		return key
	}
	return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
}

// PersonaConfig selects the persona document.
type PersonaConfig struct {
	// Slug names the persona to use; defaults to the embedded
	// portfolio assistant.
	Slug string `mapstructure:"slug"`
	// Dir, when set, loads persona documents from a directory instead of
	// the embedded set.
	Dir string `mapstructure:"dir"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SetDefaults installs defaults on v. Call before Load.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.timeout", "30s")

	v.SetDefault("persona.slug", "portfolio-assistant")
	v.SetDefault("persona.dir", "")

	v.SetDefault("rate_limit.store", "memory")
	v.SetDefault("rate_limit.limit", ratelimit.DefaultLimit)
	v.SetDefault("rate_limit.window", ratelimit.DefaultWindow.String())
	v.SetDefault("rate_limit.sweep_interval", ratelimit.DefaultSweepInterval.String())
	v.SetDefault("rate_limit.redis_addr", "localhost:6379")
	v.SetDefault("rate_limit.redis_password", "")
	v.SetDefault("rate_limit.redis_db", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("metrics.enabled", true)
}

// Load unmarshals the merged viper state into a typed Config.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
