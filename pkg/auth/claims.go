package auth

import (
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"
)

// UpstreamClaims is the claim set the marketplace backend puts in its id_token.
type UpstreamClaims struct {
	UserID    json.Number `json:"user_id,omitempty"`
	UserRole  string      `json:"user_role,omitempty"`
	UserEmail string      `json:"user_email,omitempty"`
	jwt.RegisteredClaims
}
