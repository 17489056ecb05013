package handler

import "time"

// errorSchema documents the error envelope rendered by the central error
// handler; it exists for the swagger annotations only.
type errorSchema struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// --- Users ---

type createUserRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// --- Pending registrations ---

type createRegistrationRequest struct {
	Name          string `json:"name"          validate:"required"`
	Email         string `json:"email"         validate:"required,email"`
	Phone         string `json:"phone"`
	RequestedRole string `json:"requestedRole" validate:"required"`
}

type registrationResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	RequestedRole string    `json:"requestedRole"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Health ---

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
}
