// Package sqldb is the relational backend. Each entity is one row with a
// JSON payload column plus the few columns the store itself needs to query
// (primary key, unique email, registration status). All SQL is explicit —
// no ORM, no query builder.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roadmasterpro/project-api/internal/core/domain"
	"github.com/roadmasterpro/project-api/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Config holds the options for opening the connection pool.
type Config struct {
	// Driver is "postgres" or "sqlite3".
	Driver string
	// DSN is the driver-specific data-source name (a connection URL for
	// postgres, a file path for sqlite3).
	DSN string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// querier is satisfied by both *sql.DB and *sql.Tx so repositories can run
// inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the relational backend handle, created once at startup.
type Store struct {
	db     *sql.DB
	driver string
}

// NewStore opens the pool, verifies connectivity, and synchronizes the
// schema. Both steps run exactly once per process; a failed connection is
// returned to the caller without retrying.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sql ping: %w", err)
	}

	s := &Store{db: db, driver: cfg.Driver}
	if err := s.createSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sql schema: %w", err)
	}
	return s, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		payload    TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pending_registrations (
		id         TEXT PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		status     TEXT NOT NULL,
		payload    TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
}

func (s *Store) createSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Users() ports.UserRepository {
	return &UserRepository{q: s.db}
}

func (s *Store) Registrations() ports.RegistrationRepository {
	return &RegistrationRepository{q: s.db}
}

func (s *Store) Projects() ports.ProjectRepository {
	return &ProjectRepository{db: s.db}
}

// ApproveRegistration inserts the user and deletes the registration in one
// transaction — the pair commits or rolls back as a whole.
func (s *Store) ApproveRegistration(ctx context.Context, registrationID string, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin approve tx: %w", err)
	}
	defer tx.Rollback()

	users := &UserRepository{q: tx}
	if err := users.Insert(ctx, user); err != nil {
		return err
	}
	regs := &RegistrationRepository{q: tx}
	if err := regs.Delete(ctx, registrationID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit approve tx: %w", err)
	}
	return nil
}

func (s *Store) Name() string {
	if s.driver == "sqlite3" {
		return "sqlite"
	}
	return s.driver
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}
