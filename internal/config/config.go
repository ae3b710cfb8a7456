package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "change-me-in-production"

// defaultDSN points at a local development database.
const defaultDSN = "foodie:foodie@tcp(localhost:3306)/foodie?charset=utf8mb4&parseTime=True&loc=UTC"

// databaseURLKeys are checked in order; the first non-empty value wins.
var databaseURLKeys = []string{"DATABASE_URL", "MYSQL_DSN", "DB_DSN"}

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Server    ServerConfig    `envconfig:"SERVER"`
	JWT       JWTConfig       `envconfig:"JWT"`
	Redis     RedisConfig     `envconfig:"REDIS"`
	RateLimit RateLimitConfig `envconfig:"RATE_LIMIT"`
	Cache     CacheConfig     `envconfig:"CACHE"`
	Log       LogConfig       `envconfig:"LOG"`
	Admin     AdminConfig     `envconfig:"ADMIN"`

	Version     string `envconfig:"APP_VERSION" default:"dev"`
	ResetDB     bool   `envconfig:"RESET_DB" default:"false"`
	DatabaseURL string `ignored:"true"`
}

// Nested fields are untagged or use split_words so envconfig never falls
// back to bare names like SECRET or TTL. PORT and ENVIRONMENT are the only
// unprefixed fallbacks and are applied in Load.
type ServerConfig struct {
	Port            string        `default:"3000"`
	Environment     string        `default:"development"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

type JWTConfig struct {
	Secret       string        `default:"change-me-in-production"`
	SessionTTL   time.Duration `split_words:"true" default:"1h"`
	ChallengeTTL time.Duration `split_words:"true" default:"60s"`
}

type RedisConfig struct {
	Addr     string `default:"localhost:6379"`
	Password string
	DB       int `default:"0"`
}

type RateLimitConfig struct {
	Requests       int           `default:"30"`
	Window         time.Duration `default:"60s"`
	StrictRequests int           `split_words:"true" default:"3"`
	StrictWindow   time.Duration `split_words:"true" default:"1h"`
	ExemptPaths    []string      `split_words:"true" default:"/healthz,/metrics,/swagger"`
}

type CacheConfig struct {
	Enabled bool          `default:"true"`
	TTL     time.Duration `default:"100s"`
}

type LogConfig struct {
	Level  string `default:"info"`
	Format string `default:"json"`
}

// AdminConfig is only consumed by the seed command.
type AdminConfig struct {
	Username string `default:"admin"`
	Password string
}

// IsProduction reports whether the deployment runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// Load builds Config from environment with sensible defaults.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if v := firstEnv("SERVER_PORT", "PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := firstEnv("SERVER_ENVIRONMENT", "ENVIRONMENT"); v != "" {
		cfg.Server.Environment = v
	}

	cfg.DatabaseURL = firstEnv(databaseURLKeys...)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDSN
	}

	// RATE_LIMIT is accepted as a shorthand for the global budget.
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT %q: %w", v, err)
		}
		cfg.RateLimit.Requests = parsed
	}

	for i := range cfg.RateLimit.ExemptPaths {
		cfg.RateLimit.ExemptPaths[i] = strings.TrimSpace(cfg.RateLimit.ExemptPaths[i])
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %s", cfg.Server.Port)
	}

	if cfg.RateLimit.Requests < 1 || cfg.RateLimit.Window <= 0 {
		return fmt.Errorf("invalid global rate limit: %d per %s", cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}
	if cfg.RateLimit.StrictRequests < 1 || cfg.RateLimit.StrictWindow <= 0 {
		return fmt.Errorf("invalid strict rate limit: %d per %s", cfg.RateLimit.StrictRequests, cfg.RateLimit.StrictWindow)
	}

	if cfg.JWT.SessionTTL <= 0 {
		return fmt.Errorf("invalid session ttl: %s", cfg.JWT.SessionTTL)
	}

	if cfg.IsProduction() {
		if cfg.JWT.Secret == DefaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if len(cfg.JWT.Secret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 bytes in production")
		}
	}

	return nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}
