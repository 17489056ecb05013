package ports

import (
	"context"

	"github.com/roadmasterpro/project-api/internal/core/domain"
)

// CreateUserInput carries the fields accepted by POST /users. ID is optional:
// the frontend generates user-<timestamp> ids; absent ids are generated
// server-side in the same format.
type CreateUserInput struct {
	ID       string
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
	Avatar   string
}

// UserService exposes the user collection.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
}

// CreateRegistrationInput carries the fields of a public signup submission.
type CreateRegistrationInput struct {
	Name          string
	Email         string
	Phone         string
	RequestedRole string
}

// RegistrationService drives the two-step signup workflow:
// pending -> approved (user materialized) or pending -> deleted.
type RegistrationService interface {
	List(ctx context.Context) ([]*domain.Registration, error)
	Create(ctx context.Context, input CreateRegistrationInput) (*domain.Registration, error)
	Delete(ctx context.Context, id string) error
	// Approve converts the pending registration into a user. The source
	// registration is removed; a second approval of the same id reports
	// domain.ErrRegistrationNotFound.
	Approve(ctx context.Context, id string) (*domain.User, error)
}

// ProjectService exposes the project aggregate.
type ProjectService interface {
	List(ctx context.Context) ([]*domain.Project, error)
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	// Update merge-updates top-level fields; sub-collection fields are
	// replaced whole.
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

// ApprovalLocker serializes concurrent approvals of the same registration.
// Acquire reports false when another request already holds the lock.
type ApprovalLocker interface {
	Acquire(ctx context.Context, registrationID string) (bool, error)
	Release(ctx context.Context, registrationID string) error
}
