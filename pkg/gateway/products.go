package gateway

import (
	"context"
	"net/http"

	"github.com/artemisia-corp/storefront/pkg/pagination"
)

// ListProducts pages the catalog. Filters are forwarded as extra query parameters.
func (c *Client) ListProducts(ctx context.Context, token string, params pagination.Params, filters map[string]string) (*pagination.Page[Product], error) {
	query := pageQuery(params)
	for key, value := range filters {
		if key == "" || value == "" {
			continue
		}
		query.Set(key, value)
	}
	var out pagination.Page[Product]
	if err := c.do(ctx, request{
		endpoint: "products.list",
		method:   http.MethodGet,
		path:     "/products",
		query:    query,
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProduct fetches one listing.
func (c *Client) GetProduct(ctx context.Context, token string, productID int64) (*Product, error) {
	var out Product
	if err := c.do(ctx, request{
		endpoint: "products.get",
		method:   http.MethodGet,
		path:     idPath("/products/%d", productID),
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrackView records a product page view.
func (c *Client) TrackView(ctx context.Context, token string, productID int64) error {
	return c.do(ctx, request{
		endpoint: "products.track_view",
		method:   http.MethodPost,
		path:     idPath("/products/%d/track-view", productID),
		token:    token,
	})
}

// SearchProducts filters the catalog by categories, techniques and price range.
func (c *Client) SearchProducts(ctx context.Context, token string, criteria ProductSearch, params pagination.Params) (*pagination.Page[Product], error) {
	query := pageQuery(params)
	query.Del("sortBy")
	query.Del("sortDir")
	var out pagination.Page[Product]
	if err := c.do(ctx, request{
		endpoint: "products.search",
		method:   http.MethodPost,
		path:     "/products/search",
		query:    query,
		token:    token,
		body:     criteria,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSellerProducts pages the listings owned by a seller.
func (c *Client) ListSellerProducts(ctx context.Context, token string, sellerID int64, params pagination.Params) (*pagination.Page[Product], error) {
	var out pagination.Page[Product]
	if err := c.do(ctx, request{
		endpoint: "products.seller",
		method:   http.MethodGet,
		path:     idPath("/products/seller/%d", sellerID),
		query:    pageQuery(params),
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct publishes a new listing.
func (c *Client) CreateProduct(ctx context.Context, token string, req ProductRequest) (*Product, error) {
	var out Product
	if err := c.do(ctx, request{
		endpoint: "products.create",
		method:   http.MethodPost,
		path:     "/products",
		token:    token,
		body:     req,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct replaces a listing.
func (c *Client) UpdateProduct(ctx context.Context, token string, productID int64, req ProductRequest) (*Product, error) {
	var out Product
	if err := c.do(ctx, request{
		endpoint: "products.update",
		method:   http.MethodPut,
		path:     idPath("/products/%d", productID),
		token:    token,
		body:     req,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}
