package ports

import (
	"context"

	"github.com/roadmasterpro/project-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	FindAll(ctx context.Context) ([]*domain.User, error)
	// FindByID returns domain.ErrUserNotFound when no record matches.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail expects a normalized (lowercased) email and returns
	// domain.ErrUserNotFound when no record matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Insert returns domain.ErrEmailTaken on a duplicate email.
	Insert(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

// RegistrationRepository defines persistence operations for pending
// registrations.
type RegistrationRepository interface {
	// FindAll lists registrations; onlyPending filters to status == "pending".
	FindAll(ctx context.Context, onlyPending bool) ([]*domain.Registration, error)
	FindByID(ctx context.Context, id string) (*domain.Registration, error)
	FindByEmail(ctx context.Context, email string) (*domain.Registration, error)
	Insert(ctx context.Context, r *domain.Registration) error
	// Delete returns domain.ErrRegistrationNotFound when no record matches.
	Delete(ctx context.Context, id string) error
}

// ProjectRepository defines persistence operations for the project aggregate.
type ProjectRepository interface {
	FindAll(ctx context.Context) ([]*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	Insert(ctx context.Context, p *domain.Project) error
	// Update merges the supplied top-level fields into the stored record:
	// present fields overwrite (sections whole-value), omitted fields are
	// preserved. Returns the post-update record, or
	// domain.ErrProjectNotFound.
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}
