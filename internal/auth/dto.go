package auth

import (
	"time"

	"github.com/artemisia-corp/storefront/pkg/enums"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=255"`
}

// SessionUser describes the account bound to a session.
type SessionUser struct {
	ID         int64          `json:"id"`
	Username   string         `json:"username"`
	Role       enums.UserRole `json:"role"`
	FirstLogin bool           `json:"first_login"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	SessionID string      `json:"session_id"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      SessionUser `json:"user"`
}
