package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// InspectUpstreamToken decodes the backend id_token without checking its signature.
// The storefront never holds the backend signing key; the token is only read to
// size the local session and is forwarded verbatim on every upstream call.
func InspectUpstreamToken(raw string) (*UpstreamClaims, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return nil, fmt.Errorf("id token is required")
	}
	claims := &UpstreamClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decoding id token: %w", err)
	}
	return claims, nil
}

// RemainingTTL reports how long the token stays valid from now. Zero means the
// token carries no expiry or is already expired.
func (c *UpstreamClaims) RemainingTTL(now time.Time) time.Duration {
	if c == nil || c.ExpiresAt == nil {
		return 0
	}
	ttl := c.ExpiresAt.Time.Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// Expired reports whether the token has an expiry in the past.
func (c *UpstreamClaims) Expired(now time.Time) bool {
	return c != nil && c.ExpiresAt != nil && !c.ExpiresAt.Time.After(now)
}
