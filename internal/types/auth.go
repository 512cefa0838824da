// Package types provides the request and response shapes of the HTTP API.
package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateUserRequest is the body of POST /api/auth/register.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User is the account as returned by the API. The password hash never leaves the db package.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse answers register and login with the account and a bearer token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UpdatePasswordRequest is the body of PUT /api/auth/password. The new password must differ
// from the current one.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,nefield=CurrentPassword"`
}

func (r *CreateUserRequest) Validate() error { return Validate(r) }

func (r *LoginRequest) Validate() error { return Validate(r) }

func (r *UpdatePasswordRequest) Validate() error { return Validate(r) }

// NormalizedEmail is the lookup form of an email address.
func NormalizedEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
