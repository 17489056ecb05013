package ports

import (
	"context"

	"github.com/roadmasterpro/project-api/internal/core/domain"
)

// Store is the process-wide handle to the configured backing store. It is
// established once at startup and shared by every request; both backends
// (document and relational) expose the same three repositories so handlers
// and services stay backend-agnostic.
type Store interface {
	Users() UserRepository
	Registrations() RegistrationRepository
	Projects() ProjectRepository

	// ApproveRegistration persists the approval transition: insert the
	// materialized user and delete the source registration. The relational
	// backend runs both steps in one transaction; the document backend makes
	// the pair idempotent via the user's deterministic id so a crashed
	// approval can be retried safely.
	ApproveRegistration(ctx context.Context, registrationID string, user *domain.User) error

	// Ping verifies connectivity for health reporting.
	Ping(ctx context.Context) error
	// Name identifies the backend ("mongodb", "postgres", "sqlite").
	Name() string
	Close(ctx context.Context) error
}
