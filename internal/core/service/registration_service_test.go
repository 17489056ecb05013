package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/roadmasterpro/project-api/internal/core/domain"
	"github.com/roadmasterpro/project-api/internal/core/ports"
)

func submitRegistration(t *testing.T, svc *RegistrationService, email string) *domain.Registration {
	t.Helper()
	reg, err := svc.Create(context.Background(), ports.CreateRegistrationInput{
		Name:          "Pending Person",
		Email:         email,
		Phone:         "+254700000002",
		RequestedRole: domain.RoleProjectManager,
	})
	if err != nil {
		t.Fatalf("Create registration: %v", err)
	}
	return reg
}

func TestRegistrationService_Create(t *testing.T) {
	store := newStubStore()
	svc := NewRegistrationService(store, nil, zerolog.Nop())

	reg := submitRegistration(t, svc, "New@Example.com")
	if reg.Email != "new@example.com" {
		t.Errorf("email not normalized: %q", reg.Email)
	}
	if reg.Status != domain.RegistrationPending {
		t.Errorf("expected status %q, got %q", domain.RegistrationPending, reg.Status)
	}
	if reg.RequestedRole != domain.RoleProjectManager {
		t.Errorf("requested role lost: %q", reg.RequestedRole)
	}

	listed, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != reg.ID {
		t.Fatalf("expected the new registration in the pending list, got %+v", listed)
	}
}

func TestRegistrationService_Create_MissingFields(t *testing.T) {
	svc := NewRegistrationService(newStubStore(), nil, zerolog.Nop())

	for _, input := range []ports.CreateRegistrationInput{
		{Email: "x@example.com", RequestedRole: domain.RoleAdmin},
		{Name: "X", RequestedRole: domain.RoleAdmin},
		{Name: "X", Email: "x@example.com"},
	} {
		if _, err := svc.Create(context.Background(), input); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("input %+v: expected ErrInvalidInput, got %v", input, err)
		}
	}
}

func TestRegistrationService_Create_DuplicateAgainstPending(t *testing.T) {
	svc := NewRegistrationService(newStubStore(), nil, zerolog.Nop())

	submitRegistration(t, svc, "dup@example.com")
	_, err := svc.Create(context.Background(), ports.CreateRegistrationInput{
		Name: "Other", Email: "DUP@example.com", RequestedRole: domain.RoleAdmin,
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegistrationService_Create_DuplicateAgainstUsers(t *testing.T) {
	store := newStubStore()
	store.users["user-1"] = &domain.User{ID: "user-1", Name: "Existing", Email: "taken@example.com"}
	svc := NewRegistrationService(store, nil, zerolog.Nop())

	_, err := svc.Create(context.Background(), ports.CreateRegistrationInput{
		Name: "New", Email: "taken@example.com", RequestedRole: domain.RoleAdmin,
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegistrationService_Delete(t *testing.T) {
	store := newStubStore()
	svc := NewRegistrationService(store, nil, zerolog.Nop())

	reg := submitRegistration(t, svc, "gone@example.com")
	if err := svc.Delete(context.Background(), reg.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), reg.ID); !errors.Is(err, domain.ErrRegistrationNotFound) {
		t.Fatalf("second Delete: expected ErrRegistrationNotFound, got %v", err)
	}
}

func TestRegistrationService_Approve(t *testing.T) {
	store := newStubStore()
	svc := NewRegistrationService(store, nil, zerolog.Nop())

	reg := submitRegistration(t, svc, "approve@example.com")

	user, err := svc.Approve(context.Background(), reg.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if user.Email != "approve@example.com" {
		t.Errorf("unexpected email %q", user.Email)
	}
	if user.Role != domain.RoleProjectManager {
		t.Errorf("requested role not carried over: %q", user.Role)
	}
	if user.ID != approvedUserID(reg.ID) {
		t.Errorf("user id %q not derived from registration id", user.ID)
	}
	if user.Avatar == "" {
		t.Error("expected a generated avatar URL")
	}

	// The registration is consumed.
	if _, err := store.Registrations().FindByID(context.Background(), reg.ID); !errors.Is(err, domain.ErrRegistrationNotFound) {
		t.Fatalf("registration should be gone, got %v", err)
	}

	// Approving again reports not-found.
	if _, err := svc.Approve(context.Background(), reg.ID); !errors.Is(err, domain.ErrRegistrationNotFound) {
		t.Fatalf("second Approve: expected ErrRegistrationNotFound, got %v", err)
	}
}

func TestRegistrationService_Approve_DefaultRole(t *testing.T) {
	store := newStubStore()
	store.regs["reg-1"] = &domain.Registration{
		ID: "reg-1", Name: "Blank Role", Email: "blank@example.com",
		Status: domain.RegistrationPending,
	}
	svc := NewRegistrationService(store, nil, zerolog.Nop())

	user, err := svc.Approve(context.Background(), "reg-1")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if user.Role != domain.DefaultRole {
		t.Errorf("expected default role %q, got %q", domain.DefaultRole, user.Role)
	}
}

func TestRegistrationService_Approve_EmailCollision(t *testing.T) {
	store := newStubStore()
	store.users["user-unrelated"] = &domain.User{ID: "user-unrelated", Email: "clash@example.com"}
	svc := NewRegistrationService(store, nil, zerolog.Nop())

	reg := &domain.Registration{ID: "reg-clash", Name: "Clash", Email: "clash@example.com", Status: domain.RegistrationPending}
	store.regs[reg.ID] = reg

	_, err := svc.Approve(context.Background(), reg.ID)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// The registration stays pending for the admin to resolve.
	if _, err := store.Registrations().FindByID(context.Background(), reg.ID); err != nil {
		t.Fatalf("registration should still exist: %v", err)
	}
}

func TestRegistrationService_Approve_RetryCompletesCleanup(t *testing.T) {
	store := newStubStore()
	svc := NewRegistrationService(store, nil, zerolog.Nop())

	// Simulate a crash after user creation but before registration removal.
	reg := &domain.Registration{ID: "reg-retry", Name: "Retry", Email: "retry@example.com", Status: domain.RegistrationPending}
	store.regs[reg.ID] = reg
	orphan := &domain.User{ID: approvedUserID(reg.ID), Name: reg.Name, Email: reg.Email}
	store.users[orphan.ID] = orphan

	user, err := svc.Approve(context.Background(), reg.ID)
	if err != nil {
		t.Fatalf("Approve retry: %v", err)
	}
	if user.ID != orphan.ID {
		t.Errorf("retry minted a new user: %q", user.ID)
	}
	if _, err := store.Registrations().FindByID(context.Background(), reg.ID); !errors.Is(err, domain.ErrRegistrationNotFound) {
		t.Fatalf("retry should remove the registration, got %v", err)
	}
}

func TestRegistrationService_Approve_LockHeld(t *testing.T) {
	store := newStubStore()
	lock := &stubLocker{held: true}
	svc := NewRegistrationService(store, lock, zerolog.Nop())

	reg := &domain.Registration{ID: "reg-locked", Name: "Locked", Email: "locked@example.com", Status: domain.RegistrationPending}
	store.regs[reg.ID] = reg

	_, err := svc.Approve(context.Background(), reg.ID)
	if !errors.Is(err, domain.ErrApprovalInProgress) {
		t.Fatalf("expected ErrApprovalInProgress, got %v", err)
	}
	if lock.releases != 0 {
		t.Error("a lock we never held must not be released")
	}
}

func TestRegistrationService_Approve_LockErrorProceeds(t *testing.T) {
	store := newStubStore()
	lock := &stubLocker{err: errStoreDown}
	svc := NewRegistrationService(store, lock, zerolog.Nop())

	reg := &domain.Registration{ID: "reg-unlocked", Name: "Unlocked", Email: "unlocked@example.com", Status: domain.RegistrationPending}
	store.regs[reg.ID] = reg

	// A broken lock backend degrades to unguarded approval rather than
	// blocking the workflow.
	if _, err := svc.Approve(context.Background(), reg.ID); err != nil {
		t.Fatalf("Approve with failing lock: %v", err)
	}
}

func TestRegistrationService_Approve_ReleasesLock(t *testing.T) {
	store := newStubStore()
	lock := &stubLocker{}
	svc := NewRegistrationService(store, lock, zerolog.Nop())

	reg := &domain.Registration{ID: "reg-release", Name: "Release", Email: "release@example.com", Status: domain.RegistrationPending}
	store.regs[reg.ID] = reg

	if _, err := svc.Approve(context.Background(), reg.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if lock.acquires != 1 || lock.releases != 1 {
		t.Errorf("expected one acquire/release pair, got %d/%d", lock.acquires, lock.releases)
	}
}
