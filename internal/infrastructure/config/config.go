package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	EnvDevelopment = "development"

	SessionBackendPostgres = "postgres"
	SessionBackendRedis    = "redis"
)

type Config struct {
	Host      string `env:"HOST,       default=0.0.0.0"`
	Port      string `env:"PORT,       default=5500"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	StaticDir string `env:"STATIC_DIR, default=public"`

	Auth     AuthConfig
	Postgres PostgresConfig
	Session  SessionConfig
	Redis    RedisConfig
}

type AuthConfig struct {
	AccessTokenSecret string        `env:"ACCESS_TOKEN_SECRET, required"`
	TokenTTL          time.Duration `env:"TOKEN_TTL,           default=1h"`
}

type PostgresConfig struct {
	URL        string `env:"DATABASE_URL, required"`
	Migrations bool   `env:"MIGRATIONS,   default=true"`
	MaxConns   int    `env:"DB_MAX_CONNS, default=10"`
}

type SessionConfig struct {
	Secret  string        `env:"SESSION_SECRET,  required"`
	TTL     time.Duration `env:"SESSION_TTL,     default=1h"`
	Backend string        `env:"SESSION_BACKEND, default=postgres"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// Development reports whether the app runs in development mode.
func (c *Config) Development() bool { return c.Env == EnvDevelopment }

// Address is the host:port the HTTP server listens on.
func (c *Config) Address() string { return c.Host + ":" + c.Port }

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Backend {
	case SessionBackendPostgres:
	case SessionBackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: REDIS_ADDR is required when SESSION_BACKEND=%s", SessionBackendRedis)
		}
	default:
		return fmt.Errorf("config: unknown SESSION_BACKEND %q", c.Session.Backend)
	}
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("config: SESSION_SECRET must be at least 32 bytes")
	}
	return nil
}
