package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Roles offered by the frontend role picker. Role is free text at the
// storage layer; these are the values the UI knows about.
const (
	RoleAdmin          = "Admin"
	RoleProjectManager = "Project Manager"
	RoleSiteEngineer   = "Site Engineer"
)

// DefaultRole is assigned when a user is created without an explicit role.
const DefaultRole = RoleSiteEngineer

// User models an application member.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Avatar       string    `json:"avatar"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUserID returns an externally visible user id in the user-<timestamp>
// format the frontend generates.
func NewUserID() string {
	return fmt.Sprintf("user-%d", time.Now().UnixMilli())
}

// AvatarURL builds the generated-avatar URL used when no avatar is supplied.
func AvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}

// NormalizeEmail case-folds an email address for storage and comparison.
// Email uniqueness is case-insensitive across the whole system.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
