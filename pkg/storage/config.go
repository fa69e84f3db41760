package storage

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config configures the PostgreSQL catalog store connection pool.
type Config struct {
	ConnectionString  string        `env:"CATALOG_PG_CONN_URL,required"`              // ConnectionString is the connection string to the database.
	MaxOpenConns      int32         `env:"CATALOG_PG_MAX_OPEN_CONNS" envDefault:"10"` // MaxOpenConns is the maximum number of open connections.
	MaxIdleConns      int32         `env:"CATALOG_PG_MAX_IDLE_CONNS" envDefault:"5"`  // MaxIdleConns is the maximum number of idle connections.
	HealthCheckPeriod time.Duration `env:"CATALOG_PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
	MaxConnIdleTime   time.Duration `env:"CATALOG_PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime   time.Duration `env:"CATALOG_PG_MAX_CONN_LIFETIME" envDefault:"30m"`

	RetryAttempts int           `env:"CATALOG_PG_RETRY_ATTEMPTS" envDefault:"3"` // RetryAttempts is the number of connection attempts.
	RetryInterval time.Duration `env:"CATALOG_PG_RETRY_INTERVAL" envDefault:"5s"`
}

// CacheConfig configures the Redis catalog document cache.
type CacheConfig struct {
	ConnectionURL string        `env:"CATALOG_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	TTL           time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"` // TTL bounds staleness after out-of-band catalog edits.
}

// ErrFailedToLoadConfig wraps environment parsing failures.
var ErrFailedToLoadConfig = errors.New("failed to load catalog storage config")

// LoadConfig reads the store configuration from the environment, loading a
// .env file first when one is present.
func LoadConfig() (Config, error) {
	_ = godotenv.Load() // missing .env is fine
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, errors.Join(ErrFailedToLoadConfig, err)
	}
	return cfg, nil
}

// LoadCacheConfig reads the cache configuration from the environment.
func LoadCacheConfig() (CacheConfig, error) {
	_ = godotenv.Load()
	cfg, err := env.ParseAs[CacheConfig]()
	if err != nil {
		return CacheConfig{}, errors.Join(ErrFailedToLoadConfig, err)
	}
	return cfg, nil
}
