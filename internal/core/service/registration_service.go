package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/roadmasterpro/project-api/internal/core/domain"
	"github.com/roadmasterpro/project-api/internal/core/ports"
)

// approvalNamespace seeds the deterministic user id minted during approval.
// Retrying an interrupted approval of the same registration produces the
// same user id, which is what makes the mongo path retry-safe.
var approvalNamespace = uuid.MustParse("8f7dca6e-2c1b-4f14-9a66-31d0c1e5b2a7")

type RegistrationService struct {
	store  ports.Store
	lock   ports.ApprovalLocker
	logger zerolog.Logger
}

// NewRegistrationService wires the workflow. lock may be nil; approvals then
// rely solely on the store's idempotency guarantees.
func NewRegistrationService(store ports.Store, lock ports.ApprovalLocker, logger zerolog.Logger) *RegistrationService {
	return &RegistrationService{store: store, lock: lock, logger: logger}
}

// List returns pending registrations only. Records in any other state are
// not actionable by the review UI.
func (s *RegistrationService) List(ctx context.Context) ([]*domain.Registration, error) {
	return s.store.Registrations().FindAll(ctx, true)
}

// Create records a signup request. The email must be free among both pending
// registrations and existing users.
func (s *RegistrationService) Create(ctx context.Context, input ports.CreateRegistrationInput) (*domain.Registration, error) {
	if input.Name == "" || input.Email == "" || input.RequestedRole == "" {
		return nil, domain.ErrInvalidInput
	}

	email := domain.NormalizeEmail(input.Email)
	if _, err := s.store.Registrations().FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrRegistrationNotFound) {
		return nil, err
	}
	if _, err := s.store.Users().FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	reg := &domain.Registration{
		ID:            domain.NewRegistrationID(),
		Name:          input.Name,
		Email:         email,
		Phone:         input.Phone,
		RequestedRole: input.RequestedRole,
		Status:        domain.RegistrationPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.Registrations().Insert(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("email", email).Msg("failed to insert registration")
		return nil, err
	}

	s.logger.Info().Str("registration_id", reg.ID).Str("requested_role", reg.RequestedRole).Msg("registration submitted")
	return reg, nil
}

// Delete rejects a pending registration. Not-found is reported, never
// silently ignored.
func (s *RegistrationService) Delete(ctx context.Context, id string) error {
	if err := s.store.Registrations().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("registration_id", id).Msg("registration deleted")
	return nil
}

// Approve runs the pending -> approved transition:
//
//  1. Look up the registration; gone means a prior approval or rejection won.
//  2. Refuse when a user already holds the email (the registration stays
//     pending for the admin to resolve).
//  3. Materialize the user with a deterministic id and persist user creation
//     plus registration deletion through the store's atomic/idempotent path.
func (s *RegistrationService) Approve(ctx context.Context, id string) (*domain.User, error) {
	if s.lock != nil {
		ok, err := s.lock.Acquire(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Str("registration_id", id).Msg("approval lock unavailable, proceeding unguarded")
		} else if !ok {
			return nil, domain.ErrApprovalInProgress
		} else {
			defer func() {
				if err := s.lock.Release(context.WithoutCancel(ctx), id); err != nil {
					s.logger.Warn().Err(err).Str("registration_id", id).Msg("failed to release approval lock")
				}
			}()
		}
	}

	reg, err := s.store.Registrations().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(reg.Email)
	if existing, err := s.store.Users().FindByEmail(ctx, email); err == nil {
		// A user created by a crashed earlier approval of this same
		// registration is a retry, not a conflict: finish the cleanup.
		if existing.ID == approvedUserID(reg.ID) {
			if err := s.store.Registrations().Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrRegistrationNotFound) {
				return nil, err
			}
			s.logger.Info().Str("registration_id", id).Str("user_id", existing.ID).Msg("approval retry completed")
			return existing, nil
		}
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        approvedUserID(reg.ID),
		Name:      reg.Name,
		Email:     email,
		Phone:     reg.Phone,
		Role:      reg.RequestedRole,
		Avatar:    domain.AvatarURL(reg.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if user.Role == "" {
		user.Role = domain.DefaultRole
	}

	if err := s.store.ApproveRegistration(ctx, reg.ID, user); err != nil {
		s.logger.Error().Err(err).Str("registration_id", id).Msg("approval failed")
		return nil, err
	}

	s.logger.Info().Str("registration_id", id).Str("user_id", user.ID).Str("role", user.Role).Msg("registration approved")
	return user, nil
}

// approvedUserID derives the stable user id for an approved registration.
func approvedUserID(registrationID string) string {
	return "user-" + uuid.NewSHA1(approvalNamespace, []byte(registrationID)).String()
}
