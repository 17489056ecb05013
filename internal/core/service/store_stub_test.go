package service

import (
	"context"
	"errors"
	"time"

	"github.com/roadmasterpro/project-api/internal/core/domain"
	"github.com/roadmasterpro/project-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub store shared by the service tests
// ---------------------------------------------------------------------------

type stubStore struct {
	users    map[string]*domain.User
	regs     map[string]*domain.Registration
	projects map[string]*domain.Project
}

func newStubStore() *stubStore {
	return &stubStore{
		users:    make(map[string]*domain.User),
		regs:     make(map[string]*domain.Registration),
		projects: make(map[string]*domain.Project),
	}
}

func (s *stubStore) Users() ports.UserRepository                 { return &stubUserRepo{s} }
func (s *stubStore) Registrations() ports.RegistrationRepository { return &stubRegRepo{s} }
func (s *stubStore) Projects() ports.ProjectRepository           { return &stubProjectRepo{s} }
func (s *stubStore) Ping(context.Context) error                  { return nil }
func (s *stubStore) Name() string                                { return "stub" }
func (s *stubStore) Close(context.Context) error                 { return nil }

// ApproveRegistration mirrors the real backends: insert then delete, with the
// insert treated as idempotent on the deterministic user id.
func (s *stubStore) ApproveRegistration(_ context.Context, registrationID string, user *domain.User) error {
	if _, exists := s.users[user.ID]; !exists {
		clone := *user
		s.users[user.ID] = &clone
	}
	delete(s.regs, registrationID)
	return nil
}

type stubUserRepo struct{ s *stubStore }

func (r *stubUserRepo) FindAll(context.Context) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		clone := *u
		users = append(users, &clone)
	}
	return users, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Insert(_ context.Context, u *domain.User) error {
	if _, ok := r.s.users[u.ID]; ok {
		return domain.ErrUserExists
	}
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	clone := *u
	r.s.users[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	return nil
}

type stubRegRepo struct{ s *stubStore }

func (r *stubRegRepo) FindAll(_ context.Context, onlyPending bool) ([]*domain.Registration, error) {
	regs := make([]*domain.Registration, 0, len(r.s.regs))
	for _, reg := range r.s.regs {
		if onlyPending && reg.Status != domain.RegistrationPending {
			continue
		}
		clone := *reg
		regs = append(regs, &clone)
	}
	return regs, nil
}

func (r *stubRegRepo) FindByID(_ context.Context, id string) (*domain.Registration, error) {
	reg, ok := r.s.regs[id]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	clone := *reg
	return &clone, nil
}

func (r *stubRegRepo) FindByEmail(_ context.Context, email string) (*domain.Registration, error) {
	for _, reg := range r.s.regs {
		if reg.Email == email {
			clone := *reg
			return &clone, nil
		}
	}
	return nil, domain.ErrRegistrationNotFound
}

func (r *stubRegRepo) Insert(_ context.Context, reg *domain.Registration) error {
	clone := *reg
	r.s.regs[reg.ID] = &clone
	return nil
}

func (r *stubRegRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.regs[id]; !ok {
		return domain.ErrRegistrationNotFound
	}
	delete(r.s.regs, id)
	return nil
}

type stubProjectRepo struct{ s *stubStore }

func (r *stubProjectRepo) FindAll(context.Context) ([]*domain.Project, error) {
	projects := make([]*domain.Project, 0, len(r.s.projects))
	for _, p := range r.s.projects {
		projects = append(projects, cloneProject(p))
	}
	return projects, nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	p, ok := r.s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return cloneProject(p), nil
}

func (r *stubProjectRepo) Insert(_ context.Context, p *domain.Project) error {
	if _, ok := r.s.projects[p.ID]; ok {
		return domain.ErrProjectExists
	}
	r.s.projects[p.ID] = cloneProject(p)
	return nil
}

// Update applies the same merge semantics the real backends implement.
func (r *stubProjectRepo) Update(_ context.Context, id string, fields map[string]any) (*domain.Project, error) {
	p, ok := r.s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	p.MergeFields(fields)
	p.UpdatedAt = time.Now().UTC()
	return cloneProject(p), nil
}

func (r *stubProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.projects[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(r.s.projects, id)
	return nil
}

func cloneProject(p *domain.Project) *domain.Project {
	clone := *p
	clone.Sections = make(map[string]any, len(p.Sections))
	for k, v := range p.Sections {
		clone.Sections[k] = v
	}
	return &clone
}

// stubLocker is a scriptable ports.ApprovalLocker.
type stubLocker struct {
	held     bool
	acquires int
	releases int
	err      error
}

func (l *stubLocker) Acquire(context.Context, string) (bool, error) {
	l.acquires++
	if l.err != nil {
		return false, l.err
	}
	return !l.held, nil
}

func (l *stubLocker) Release(context.Context, string) error {
	l.releases++
	return nil
}

var errStoreDown = errors.New("store unavailable")
