package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/roadmasterpro/project-api/internal/core/domain"
	"github.com/roadmasterpro/project-api/internal/core/ports"
)

type ProjectService struct {
	store  ports.Store
	logger zerolog.Logger
}

func NewProjectService(store ports.Store, logger zerolog.Logger) *ProjectService {
	return &ProjectService{store: store, logger: logger}
}

func (s *ProjectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.store.Projects().FindAll(ctx)
}

// Create stores a new project. Every sub-collection missing from the payload
// is defaulted to its empty shape before persisting, so readers never see a
// null section.
func (s *ProjectService) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	if p.ID == "" {
		p.ID = "project-" + time.Now().UTC().Format("20060102150405")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.ApplyDefaults()

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.store.Projects().Insert(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("project_id", p.ID).Msg("failed to insert project")
		return nil, err
	}

	s.logger.Info().Str("project_id", p.ID).Str("client", p.Client).Msg("project created")
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.store.Projects().FindByID(ctx, id)
}

// Update merge-updates the project: supplied top-level fields overwrite,
// omitted fields are preserved. Sub-collection fields are replaced whole —
// the payload is opaque below the top level.
func (s *ProjectService) Update(ctx context.Context, id string, fields map[string]any) (*domain.Project, error) {
	delete(fields, "id")
	delete(fields, "createdAt")
	fields["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

	updated, err := s.store.Projects().Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("project_id", id).Int("fields", len(fields)).Msg("project updated")
	return updated, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.store.Projects().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("project_id", id).Msg("project deleted")
	return nil
}
