package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/roadmasterpro/project-api/internal/api"
	"github.com/roadmasterpro/project-api/internal/core/ports"
	"github.com/roadmasterpro/project-api/internal/infrastructure/config"
	"github.com/roadmasterpro/project-api/internal/infrastructure/db/mongo"
	redisdb "github.com/roadmasterpro/project-api/internal/infrastructure/db/redis"
	"github.com/roadmasterpro/project-api/internal/infrastructure/db/sqldb"
	"github.com/roadmasterpro/project-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not up yet; panic keeps the cause visible.
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to connect to store")
	}
	defer store.Close(context.Background())
	log.Info().Str("database", store.Name()).Msg("store connected")

	var lock ports.ApprovalLocker
	if cfg.Redis.Addr != "" {
		client, err := redisdb.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		lock = redisdb.NewApprovalLock(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("approval lock enabled")
	}

	e := api.NewRouter(store, lock, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// openStore connects the configured backend. Production requires an explicit
// connection string (enforced by config.Load); development falls back to a
// local mongod or an embedded SQLite file.
func openStore(ctx context.Context, cfg *config.Config) (ports.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverSQL:
		if url := cfg.Store.SQL.URL; url != "" {
			return sqldb.NewStore(ctx, sqldb.Config{
				Driver:       "postgres",
				DSN:          url,
				MaxOpenConns: 25,
				MaxIdleConns: 5,
			})
		}
		return sqldb.NewStore(ctx, sqldb.Config{
			Driver: "sqlite3",
			DSN:    cfg.Store.SQL.SQLitePath,
		})
	default:
		return mongo.NewStore(ctx, mongo.Config{
			URI:      cfg.MongoURI(),
			Database: cfg.Store.Mongo.Database,
		})
	}
}
