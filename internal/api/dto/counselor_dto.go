package dto

import (
	"time"

	"github.com/spec-kit/peer-support/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse returns issued tokens.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateCounselorRequest payload.
type CreateCounselorRequest struct {
	Name     string               `json:"name"`
	Email    string               `json:"email"`
	Password string               `json:"password"`
	Role     domain.CounselorRole `json:"role"`
}

// CounselorResponse is the public shape of a counselor account.
type CounselorResponse struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Email     string               `json:"email"`
	Role      domain.CounselorRole `json:"role"`
	Active    bool                 `json:"active"`
	CreatedAt time.Time            `json:"created_at"`
}
