package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Store driver names accepted by STORE_DRIVER.
const (
	DriverMongo = "mongo"
	DriverSQL   = "sql"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Store StoreConfig
	Redis RedisConfig
}

type StoreConfig struct {
	// Driver selects the backend: "mongo" (document store) or "sql"
	// (relational store with JSON payload columns).
	Driver string `env:"STORE_DRIVER, default=mongo"`

	Mongo MongoConfig
	SQL   SQLConfig
}

type MongoConfig struct {
	// URI is required in production; development falls back to a local
	// mongod.
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=roadmaster"`
}

type SQLConfig struct {
	// URL is the Postgres connection string, required in production;
	// development falls back to an embedded SQLite file.
	URL        string `env:"DATABASE_URL"`
	SQLitePath string `env:"SQLITE_PATH, default=roadmaster.db"`
}

type RedisConfig struct {
	// Addr is optional; empty disables the approval lock.
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
	// TLS must be on for managed instances that only accept encrypted
	// connections.
	TLS bool `env:"REDIS_TLS, default=false"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces the production contract: the selected store's cloud
// connection string must be present. Missing configuration is a startup
// fault, not a per-request one.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongo, DriverSQL:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if !c.IsProduction() {
		return nil
	}
	if c.Store.Driver == DriverMongo && c.Store.Mongo.URI == "" {
		return errors.New("config: MONGO_URI is required in production")
	}
	if c.Store.Driver == DriverSQL && c.Store.SQL.URL == "" {
		return errors.New("config: DATABASE_URL is required in production")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// MongoURI returns the configured URI, or the local development fallback.
func (c *Config) MongoURI() string {
	if c.Store.Mongo.URI != "" {
		return c.Store.Mongo.URI
	}
	return "mongodb://localhost:27017"
}
