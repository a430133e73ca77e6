package session

import (
	"time"

	"github.com/artemisia-corp/storefront/pkg/enums"
)

// Session is the explicit login context threaded through every storefront call.
// It is created on login and removed on logout.
type Session struct {
	ID         string         `json:"id"`
	Token      string         `json:"token"`
	UserID     int64          `json:"user_id"`
	Username   string         `json:"username"`
	Role       enums.UserRole `json:"role"`
	FirstLogin bool           `json:"first_login"`
	CreatedAt  time.Time      `json:"created_at"`
	ExpiresAt  time.Time      `json:"expires_at"`
}

// BearerToken returns the upstream token forwarded as Authorization header.
func (s *Session) BearerToken() string {
	if s == nil {
		return ""
	}
	return s.Token
}

// IsSeller reports whether the session may manage listings.
func (s *Session) IsSeller() bool {
	return s != nil && (s.Role == enums.UserRoleSeller || s.Role == enums.UserRoleAdmin)
}
