package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/roadmasterpro/project-api/internal/core/domain"
	"github.com/roadmasterpro/project-api/internal/core/ports"
)

type UserService struct {
	store  ports.Store
	logger zerolog.Logger
}

func NewUserService(store ports.Store, logger zerolog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// List returns every user. No pagination: the admin UI renders the full set.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.store.Users().FindAll(ctx)
}

// Create adds a user directly (admin path, not the registration workflow).
// The email is case-folded before the uniqueness check, so JANE@X.COM and
// jane@x.com are the same account.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if input.Name == "" || input.Email == "" {
		return nil, domain.ErrInvalidInput
	}

	email := domain.NormalizeEmail(input.Email)
	if _, err := s.store.Users().FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	user := &domain.User{
		ID:     input.ID,
		Name:   input.Name,
		Email:  email,
		Phone:  input.Phone,
		Role:   input.Role,
		Avatar: input.Avatar,
	}
	if user.ID == "" {
		user.ID = domain.NewUserID()
	}
	if user.Role == "" {
		user.Role = domain.DefaultRole
	}
	if user.Avatar == "" {
		user.Avatar = domain.AvatarURL(user.Name)
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.store.Users().Insert(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) || errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("email", email).Msg("failed to insert user")
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user created")
	return user, nil
}
