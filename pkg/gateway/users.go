package gateway

import (
	"context"
	"net/http"
)

// CreateUser registers an account. The endpoint is public.
func (c *Client) CreateUser(ctx context.Context, req UserRequest) (*User, error) {
	var out User
	if err := c.do(ctx, request{
		endpoint: "users.create",
		method:   http.MethodPost,
		path:     "/users",
		body:     req,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUser fetches an account by id.
func (c *Client) GetUser(ctx context.Context, token string, userID int64) (*User, error) {
	var out User
	if err := c.do(ctx, request{
		endpoint: "users.get",
		method:   http.MethodGet,
		path:     idPath("/users/%d", userID),
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}
