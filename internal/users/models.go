package users

import (
	"time"

	"github.com/DaManu123/Mizu-Sushi/internal/auth"
)

// User is an account that can sign in to the till.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Role         auth.Role `json:"role"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	LastLogin    time.Time `json:"last_login"`
	Active       bool      `json:"active"`
	passwordHash string
}

// NewUser is the signup payload.
type NewUser struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=admin cashier customer"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// UpdateUser carries a partial profile edit; nil fields are untouched.
type UpdateUser struct {
	FullName *string `json:"full_name"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin cashier customer"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Active   *bool   `json:"active"`
}
