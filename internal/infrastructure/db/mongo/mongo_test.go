package mongo

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roadmasterpro/project-api/internal/core/domain"
)

// scriptedUserRepo returns canned results so the approval sequence can be
// exercised without a mongod.
type scriptedUserRepo struct {
	insertErr error
	byEmail   *domain.User
	inserted  []*domain.User
}

func (r *scriptedUserRepo) FindAll(context.Context) ([]*domain.User, error) { return nil, nil }

func (r *scriptedUserRepo) FindByID(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *scriptedUserRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	if r.byEmail == nil {
		return nil, domain.ErrUserNotFound
	}
	return r.byEmail, nil
}

func (r *scriptedUserRepo) Insert(_ context.Context, u *domain.User) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, u)
	return nil
}

func (r *scriptedUserRepo) Delete(context.Context, string) error { return nil }

type scriptedRegRepo struct {
	deleteErr error
	deleted   []string
}

func (r *scriptedRegRepo) FindAll(context.Context, bool) ([]*domain.Registration, error) {
	return nil, nil
}

func (r *scriptedRegRepo) FindByID(context.Context, string) (*domain.Registration, error) {
	return nil, domain.ErrRegistrationNotFound
}

func (r *scriptedRegRepo) FindByEmail(context.Context, string) (*domain.Registration, error) {
	return nil, domain.ErrRegistrationNotFound
}

func (r *scriptedRegRepo) Insert(context.Context, *domain.Registration) error { return nil }

func (r *scriptedRegRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func approvedUser() *domain.User {
	return &domain.User{ID: "user-det", Name: "Applicant", Email: "applicant@example.com"}
}

func TestApproveRegistration_InsertsAndDeletes(t *testing.T) {
	users := &scriptedUserRepo{}
	regs := &scriptedRegRepo{}

	if err := approveRegistration(context.Background(), users, regs, "reg-1", approvedUser()); err != nil {
		t.Fatalf("approveRegistration: %v", err)
	}
	if len(users.inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(users.inserted))
	}
	if len(regs.deleted) != 1 || regs.deleted[0] != "reg-1" {
		t.Fatalf("registration not deleted: %v", regs.deleted)
	}
}

func TestApproveRegistration_EmailClaimedByAnotherUser(t *testing.T) {
	// The email was free at the service's pre-check but a direct POST /users
	// claimed it before the insert landed.
	users := &scriptedUserRepo{
		insertErr: domain.ErrEmailTaken,
		byEmail:   &domain.User{ID: "user-other", Email: "applicant@example.com"},
	}
	regs := &scriptedRegRepo{}

	err := approveRegistration(context.Background(), users, regs, "reg-1", approvedUser())
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(regs.deleted) != 0 {
		t.Fatal("registration must survive a lost email race")
	}
}

func TestApproveRegistration_RetryAfterCrash(t *testing.T) {
	// An earlier attempt created the user (same deterministic id) but died
	// before removing the registration.
	own := approvedUser()
	users := &scriptedUserRepo{insertErr: domain.ErrEmailTaken, byEmail: own}
	regs := &scriptedRegRepo{}

	if err := approveRegistration(context.Background(), users, regs, "reg-1", own); err != nil {
		t.Fatalf("retry should complete the cleanup: %v", err)
	}
	if len(regs.deleted) != 1 {
		t.Fatal("retry did not delete the registration")
	}
}

func TestApproveRegistration_DuplicateIDTolerated(t *testing.T) {
	users := &scriptedUserRepo{insertErr: domain.ErrUserExists}
	regs := &scriptedRegRepo{}

	if err := approveRegistration(context.Background(), users, regs, "reg-1", approvedUser()); err != nil {
		t.Fatalf("duplicate deterministic id should be tolerated: %v", err)
	}
	if len(regs.deleted) != 1 {
		t.Fatal("registration not deleted")
	}
}

func TestApproveRegistration_RegistrationAlreadyGone(t *testing.T) {
	users := &scriptedUserRepo{}
	regs := &scriptedRegRepo{deleteErr: domain.ErrRegistrationNotFound}

	if err := approveRegistration(context.Background(), users, regs, "reg-1", approvedUser()); err != nil {
		t.Fatalf("missing registration should not fail the approval: %v", err)
	}
}

func TestDuplicateUserErr(t *testing.T) {
	emailDup := mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: roadmaster.users index: email_1 dup key: { email: "jane@example.com" }`,
	}}}
	if err := duplicateUserErr(emailDup); !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("email index collision: got %v", err)
	}

	idDup := mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: roadmaster.users index: _id_ dup key: { _id: "user-1756500000000" }`,
	}}}
	if err := duplicateUserErr(idDup); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("_id collision: got %v", err)
	}
}
