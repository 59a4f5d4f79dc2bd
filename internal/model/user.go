package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a local user account in the database.
// Password holds the encoded password hash, never the plain text.
type User struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Password    string
	ProfileInfo string
	Role        string
	CreatedAt   time.Time
}

// RegistrationRequest represents a user registration request.
type RegistrationRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	ProfileInfo string `json:"profile_info"`
	Role        string `json:"role"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the authenticated user and its bearer token.
// A failed login is signalled by a nil User and an empty Token.
type LoginResponse struct {
	User  *UserDTO `json:"user"`
	Token string   `json:"token"`
}

// UserDTO represents user data safe for API responses (no password hash).
type UserDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	ProfileInfo string    `json:"profile_info,omitempty"`
	Role        string    `json:"role"`
}

func (u User) ToDTO() UserDTO {
	return UserDTO{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		ProfileInfo: u.ProfileInfo,
		Role:        u.Role,
	}
}
