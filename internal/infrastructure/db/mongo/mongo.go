package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roadmasterpro/project-api/internal/core/domain"
	"github.com/roadmasterpro/project-api/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB
// connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Store is the document-oriented backend. One Store is created at startup
// and shared for the life of the process.
type Store struct {
	client        *mongo.Client
	db            *mongo.Database
	users         *UserRepository
	registrations *RegistrationRepository
	projects      *ProjectRepository
}

// NewStore connects, verifies connectivity with a ping, and prepares the
// three repositories including their unique indexes. A failed connection is
// returned to the caller — the process makes one attempt and gives up.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client:        client,
		db:            db,
		users:         NewUserRepository(db),
		registrations: NewRegistrationRepository(db),
		projects:      NewProjectRepository(db),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.users.EnsureIndexes(ctx); err != nil {
		return err
	}
	return s.registrations.EnsureIndexes(ctx)
}

func (s *Store) Users() ports.UserRepository                 { return s.users }
func (s *Store) Registrations() ports.RegistrationRepository { return s.registrations }
func (s *Store) Projects() ports.ProjectRepository           { return s.projects }

func (s *Store) Name() string { return "mongodb" }

// ApproveRegistration persists the approval pair. A standalone mongod has no
// multi-document transactions, so the sequence is made idempotent instead:
// the user id is deterministic per registration, an insert that collides on
// it means an earlier attempt already created the user, and a registration
// already gone means an earlier attempt already cleaned up.
func (s *Store) ApproveRegistration(ctx context.Context, registrationID string, user *domain.User) error {
	return approveRegistration(ctx, s.users, s.registrations, registrationID, user)
}

// approveRegistration runs the insert-then-delete pair. An insert collision
// is only tolerated when the stored user is this registration's own — an
// email claimed by someone else since the service's pre-check must abort
// before the registration is deleted, or the signup would vanish without a
// user to show for it.
func approveRegistration(ctx context.Context, users ports.UserRepository, registrations ports.RegistrationRepository, registrationID string, user *domain.User) error {
	switch err := users.Insert(ctx, user); {
	case err == nil:
	case errors.Is(err, domain.ErrUserExists):
		// The deterministic id already exists: an earlier attempt at this
		// same approval created the user. Continue to the cleanup.
	case errors.Is(err, domain.ErrEmailTaken):
		existing, ferr := users.FindByEmail(ctx, user.Email)
		if ferr != nil {
			return ferr
		}
		if existing.ID != user.ID {
			return domain.ErrEmailTaken
		}
	default:
		return err
	}

	if err := registrations.Delete(ctx, registrationID); err != nil && !errors.Is(err, domain.ErrRegistrationNotFound) {
		return err
	}
	return nil
}

// Ping verifies connectivity for the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
