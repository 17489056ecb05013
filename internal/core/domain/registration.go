package domain

import (
	"fmt"
	"time"
)

// Registration statuses. A registration is only ever stored as pending;
// approval and rejection both remove the record.
const (
	RegistrationPending = "pending"
)

// Registration is an unapproved signup request awaiting admin review.
type Registration struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	RequestedRole string    `json:"requestedRole"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewRegistrationID returns a registration id in the reg-<timestamp> format.
func NewRegistrationID() string {
	return fmt.Sprintf("reg-%d", time.Now().UnixMilli())
}
