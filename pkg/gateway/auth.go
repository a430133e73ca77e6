package gateway

import (
	"context"
	"net/http"
)

// Login exchanges credentials for an id_token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, request{
		endpoint: "auth.token",
		method:   http.MethodPost,
		path:     "/auth/token",
		body:     req,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}
