package gateway

import (
	"context"
	"net/http"
)

// ListAddresses returns every address registered by the user.
func (c *Client) ListAddresses(ctx context.Context, token string, userID int64) ([]Address, error) {
	var out []Address
	if err := c.do(ctx, request{
		endpoint: "addresses.user",
		method:   http.MethodGet,
		path:     idPath("/addresses/user/%d", userID),
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Address{}
	}
	return out, nil
}

// CreateAddress registers a new shipping address.
func (c *Client) CreateAddress(ctx context.Context, token string, req AddressRequest) (*Address, error) {
	var out Address
	if err := c.do(ctx, request{
		endpoint: "addresses.create",
		method:   http.MethodPost,
		path:     "/addresses",
		token:    token,
		body:     req,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}
