// Package domain defines the core entities and request/response types for
// the assistant service.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. RefreshToken holds the single active session
// token for the user; a nil value means no session is active.
type User struct {
	ID           uuid.UUID `json:"id"`
	Handle       string    `json:"handle"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RefreshToken *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest carries the fields required to create an account.
type RegisterRequest struct {
	Handle        string `json:"handle" validate:"required,min=3,max=20"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8,max=72"`
	InitialPrompt string `json:"initial_prompt" validate:"required"`
	ContextData   string `json:"context_data,omitempty"`
}

// LoginRequest identifies an account by handle and/or email. Either field
// may carry either identifier; matching is tolerant of swapped inputs.
type LoginRequest struct {
	Handle   string `json:"handle"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest carries a partial account update. At least one field
// must be present. Changing the password requires the current one.
type UpdateUserRequest struct {
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	NewPassword   *string `json:"new_password,omitempty" validate:"omitempty,min=8,max=72"`
	OldPassword   *string `json:"old_password,omitempty"`
	InitialPrompt *string `json:"initial_prompt,omitempty"`
	ContextData   *string `json:"context_data,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (r UpdateUserRequest) IsEmpty() bool {
	return r.Email == nil && r.NewPassword == nil && r.InitialPrompt == nil && r.ContextData == nil
}

// TokenPair is an access/refresh token pair issued on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse is returned from login and token refresh.
type AuthResponse struct {
	User   *User     `json:"user,omitempty"`
	Tokens TokenPair `json:"tokens"`
}
