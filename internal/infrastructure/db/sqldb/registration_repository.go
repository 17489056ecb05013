package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roadmasterpro/project-api/internal/core/domain"
)

type RegistrationRepository struct {
	q querier
}

const (
	sqlInsertRegistration = `
		INSERT INTO pending_registrations (id, email, status, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	sqlFindAllRegistrations = `
		SELECT payload FROM pending_registrations ORDER BY created_at`

	sqlFindPendingRegistrations = `
		SELECT payload FROM pending_registrations WHERE status = $1 ORDER BY created_at`

	sqlFindRegistrationByID = `
		SELECT payload FROM pending_registrations WHERE id = $1`

	sqlFindRegistrationByEmail = `
		SELECT payload FROM pending_registrations WHERE email = $1`

	sqlDeleteRegistration = `
		DELETE FROM pending_registrations WHERE id = $1`
)

func (r *RegistrationRepository) FindAll(ctx context.Context, onlyPending bool) ([]*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		rows *sql.Rows
		err  error
	)
	if onlyPending {
		rows, err = r.q.QueryContext(ctx, sqlFindPendingRegistrations, domain.RegistrationPending)
	} else {
		rows, err = r.q.QueryContext(ctx, sqlFindAllRegistrations)
	}
	if err != nil {
		return nil, fmt.Errorf("sqldb: list registrations: %w", err)
	}
	defer rows.Close()

	regs := []*domain.Registration{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("sqldb: scan registration: %w", err)
		}
		var reg domain.Registration
		if err := json.Unmarshal(payload, &reg); err != nil {
			return nil, fmt.Errorf("sqldb: decode registration payload: %w", err)
		}
		regs = append(regs, &reg)
	}
	return regs, rows.Err()
}

func (r *RegistrationRepository) FindByID(ctx context.Context, id string) (*domain.Registration, error) {
	return r.findOne(ctx, sqlFindRegistrationByID, id)
}

func (r *RegistrationRepository) FindByEmail(ctx context.Context, email string) (*domain.Registration, error) {
	return r.findOne(ctx, sqlFindRegistrationByEmail, email)
}

func (r *RegistrationRepository) findOne(ctx context.Context, query, arg string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var payload []byte
	if err := r.q.QueryRowContext(ctx, query, arg).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("sqldb: find registration: %w", err)
	}
	var reg domain.Registration
	if err := json.Unmarshal(payload, &reg); err != nil {
		return nil, fmt.Errorf("sqldb: decode registration payload: %w", err)
	}
	return &reg, nil
}

func (r *RegistrationRepository) Insert(ctx context.Context, reg *domain.Registration) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	payload, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("sqldb: encode registration payload: %w", err)
	}
	_, err = r.q.ExecContext(ctx, sqlInsertRegistration,
		reg.ID, reg.Email, reg.Status, payload, reg.CreatedAt, reg.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("sqldb: insert registration: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.q.ExecContext(ctx, sqlDeleteRegistration, id)
	if err != nil {
		return fmt.Errorf("sqldb: delete registration: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqldb: delete registration: %w", err)
	}
	if n == 0 {
		return domain.ErrRegistrationNotFound
	}
	return nil
}
