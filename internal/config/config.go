// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultSessionTTL    = 2 * time.Hour
	defaultSweepInterval = time.Minute
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// GRPCAddr is the address the gRPC server listens on (e.g. :8080).
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// Env is the application environment; "production" rejects ephemeral signing keys.
	Env string `mapstructure:"APP_ENV"`
	// LogLevel is the zap level name.
	LogLevel string `mapstructure:"LOG_LEVEL"`

	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`

	// SessionPrivateKey is the PEM-encoded private key (RSA or ECDSA) or a path to one.
	// When both keys are empty the server signs with an ephemeral ECDSA key.
	SessionPrivateKey string `mapstructure:"SESSION_PRIVATE_KEY"`
	SessionPublicKey  string `mapstructure:"SESSION_PUBLIC_KEY"`
	SessionIssuer     string `mapstructure:"SESSION_ISSUER"`
	SessionAudience   string `mapstructure:"SESSION_AUDIENCE"`
	// SessionTTLRaw is a duration string such as "2h".
	SessionTTLRaw    string `mapstructure:"SESSION_TTL"`
	SweepIntervalRaw string `mapstructure:"SESSION_SWEEP_INTERVAL"`

	// PoolsPath is a YAML pools file; empty uses the embedded pools.
	PoolsPath   string `mapstructure:"POOLS_PATH"`
	DefaultPool string `mapstructure:"DEFAULT_POOL"`
	// HintPolicyPath is a Rego policy for hints; empty uses the built-in rules.
	HintPolicyPath string `mapstructure:"HINT_POLICY_PATH"`

	// MaxTarget caps numbers accepted by Factorize over the wire.
	MaxTarget int64 `mapstructure:"MAX_TARGET"`
	MaxBatch  int   `mapstructure:"MAX_BATCH"`

	// RateLimitRPS is the per-client request rate; 0 disables limiting.
	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored. Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore missing file

	v.AutomaticEnv()

	v.SetDefault("GRPC_ADDR", ":8080")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("SESSION_PRIVATE_KEY", "")
	v.SetDefault("SESSION_PUBLIC_KEY", "")
	v.SetDefault("SESSION_ISSUER", "frenzy-game")
	v.SetDefault("SESSION_AUDIENCE", "frenzy-api")
	v.SetDefault("SESSION_TTL", "2h")
	v.SetDefault("SESSION_SWEEP_INTERVAL", "1m")
	v.SetDefault("POOLS_PATH", "")
	v.SetDefault("DEFAULT_POOL", "classic")
	v.SetDefault("HINT_POLICY_PATH", "")
	v.SetDefault("MAX_TARGET", int64(1_000_000_000_000))
	v.SetDefault("MAX_BATCH", 64)
	v.SetDefault("RATE_LIMIT_RPS", 20.0)
	v.SetDefault("RATE_LIMIT_BURST", 40)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.GRPCAddr == "" {
		return errors.New("config: GRPC_ADDR must be set")
	}
	if c.DefaultPool == "" {
		return errors.New("config: DEFAULT_POOL must be set")
	}
	if c.MaxTarget < 2 {
		return errors.New("config: MAX_TARGET must be at least 2")
	}
	if c.MaxBatch < 1 {
		return errors.New("config: MAX_BATCH must be at least 1")
	}
	if c.RateLimitRPS < 0 {
		return errors.New("config: RATE_LIMIT_RPS must not be negative")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return errors.New("config: RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled")
	}
	if (c.SessionPrivateKey == "") != (c.SessionPublicKey == "") {
		return errors.New("config: SESSION_PRIVATE_KEY and SESSION_PUBLIC_KEY must be set together")
	}
	if c.IsProduction() && c.EphemeralKeys() {
		return errors.New("config: SESSION_PRIVATE_KEY and SESSION_PUBLIC_KEY are required when APP_ENV=production")
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// EphemeralKeys reports whether no signing key pair is configured.
func (c *Config) EphemeralKeys() bool {
	return c.SessionPrivateKey == "" && c.SessionPublicKey == ""
}

// SessionTTL parses SessionTTLRaw. Returns 2h if unset or invalid.
func (c *Config) SessionTTL() time.Duration {
	return parsePositive(c.SessionTTLRaw, defaultSessionTTL)
}

// SweepInterval parses SweepIntervalRaw. Returns 1m if unset or invalid.
func (c *Config) SweepInterval() time.Duration {
	return parsePositive(c.SweepIntervalRaw, defaultSweepInterval)
}

func parsePositive(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
