package domain

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user id already in use")
	ErrEmailTaken           = errors.New("email already registered")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectExists        = errors.New("project already exists")
	ErrInvalidInput         = errors.New("invalid input")
	// ErrApprovalInProgress signals that another request holds the approval
	// lock for the same registration.
	ErrApprovalInProgress = errors.New("approval already in progress")
)
