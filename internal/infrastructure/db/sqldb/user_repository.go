package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roadmasterpro/project-api/internal/core/domain"
)

type UserRepository struct {
	q querier
}

// userPayload is the JSON stored in the payload column. It differs from the
// wire shape only in carrying the password hash.
type userPayload struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Role         string    `json:"role"`
	Avatar       string    `json:"avatar"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func marshalUser(u *domain.User) ([]byte, error) {
	return json.Marshal(userPayload{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Avatar:       u.Avatar,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	})
}

func unmarshalUser(data []byte) (*domain.User, error) {
	var p userPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("sqldb: decode user payload: %w", err)
	}
	return &domain.User{
		ID:           p.ID,
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		PasswordHash: p.PasswordHash,
		Role:         p.Role,
		Avatar:       p.Avatar,
		CreatedAt:    p.CreatedAt.UTC(),
		UpdatedAt:    p.UpdatedAt.UTC(),
	}, nil
}

const (
	sqlInsertUser = `
		INSERT INTO users (id, email, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	sqlFindAllUsers = `
		SELECT payload FROM users ORDER BY created_at`

	sqlFindUserByID = `
		SELECT payload FROM users WHERE id = $1`

	sqlFindUserByEmail = `
		SELECT payload FROM users WHERE email = $1`

	sqlDeleteUser = `
		DELETE FROM users WHERE id = $1`
)

func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.q.QueryContext(ctx, sqlFindAllUsers)
	if err != nil {
		return nil, fmt.Errorf("sqldb: list users: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("sqldb: scan user: %w", err)
		}
		u, err := unmarshalUser(payload)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, sqlFindUserByID, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, sqlFindUserByEmail, email)
}

func (r *UserRepository) findOne(ctx context.Context, query, arg string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var payload []byte
	if err := r.q.QueryRowContext(ctx, query, arg).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("sqldb: find user: %w", err)
	}
	return unmarshalUser(payload)
}

func (r *UserRepository) Insert(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	payload, err := marshalUser(u)
	if err != nil {
		return fmt.Errorf("sqldb: encode user payload: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, sqlInsertUser, u.ID, u.Email, payload, u.CreatedAt, u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			// The table has two unique constraints; a primary-key hit is an
			// id conflict, not an email one.
			if violatesColumn(err, "email") {
				return domain.ErrEmailTaken
			}
			return domain.ErrUserExists
		}
		return fmt.Errorf("sqldb: insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.q.ExecContext(ctx, sqlDeleteUser, id)
	if err != nil {
		return fmt.Errorf("sqldb: delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqldb: delete user: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
