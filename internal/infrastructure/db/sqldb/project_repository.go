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

// ProjectRepository stores each project as a single JSON payload row. The
// relational store does no normalization of sub-collections: they live and
// die with the parent row, exactly like embedded documents.
type ProjectRepository struct {
	db *sql.DB
}

const (
	sqlInsertProject = `
		INSERT INTO projects (id, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`

	sqlFindAllProjects = `
		SELECT payload FROM projects ORDER BY created_at`

	sqlFindProjectByID = `
		SELECT payload FROM projects WHERE id = $1`

	sqlUpdateProject = `
		UPDATE projects SET payload = $1, updated_at = $2 WHERE id = $3`

	sqlDeleteProject = `
		DELETE FROM projects WHERE id = $1`
)

func (r *ProjectRepository) FindAll(ctx context.Context) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, sqlFindAllProjects)
	if err != nil {
		return nil, fmt.Errorf("sqldb: list projects: %w", err)
	}
	defer rows.Close()

	projects := []*domain.Project{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("sqldb: scan project: %w", err)
		}
		var p domain.Project
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("sqldb: decode project payload: %w", err)
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var payload []byte
	if err := r.db.QueryRowContext(ctx, sqlFindProjectByID, id).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("sqldb: find project: %w", err)
	}
	var p domain.Project
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("sqldb: decode project payload: %w", err)
	}
	return &p, nil
}

func (r *ProjectRepository) Insert(ctx context.Context, p *domain.Project) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("sqldb: encode project payload: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, sqlInsertProject, p.ID, payload, p.CreatedAt, p.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrProjectExists
		}
		return fmt.Errorf("sqldb: insert project: %w", err)
	}
	return nil
}

// Update is a read-modify-write under one transaction: load the payload,
// merge the supplied top-level fields, write it back. Sub-collection values
// replace the stored value whole.
func (r *ProjectRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqldb: begin update tx: %w", err)
	}
	defer tx.Rollback()

	var payload []byte
	if err := tx.QueryRowContext(ctx, sqlFindProjectByID, id).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("sqldb: find project: %w", err)
	}

	var p domain.Project
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("sqldb: decode project payload: %w", err)
	}

	p.MergeFields(fields)
	p.UpdatedAt = time.Now().UTC()

	merged, err := json.Marshal(&p)
	if err != nil {
		return nil, fmt.Errorf("sqldb: encode project payload: %w", err)
	}
	if _, err := tx.ExecContext(ctx, sqlUpdateProject, merged, p.UpdatedAt, id); err != nil {
		return nil, fmt.Errorf("sqldb: update project: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqldb: commit update tx: %w", err)
	}
	return &p, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, sqlDeleteProject, id)
	if err != nil {
		return fmt.Errorf("sqldb: delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqldb: delete project: %w", err)
	}
	if n == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}
