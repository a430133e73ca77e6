package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/artemisia-corp/storefront/pkg/pagination"
)

// GetCart returns the user's draft sale record.
func (c *Client) GetCart(ctx context.Context, token string, userID int64) (*NotaVenta, error) {
	var out NotaVenta
	if err := c.do(ctx, request{
		endpoint: "notas_venta.user",
		method:   http.MethodGet,
		path:     idPath("/notas-venta/user/%d", userID),
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddToCart adds quantity units of the product and returns the updated cart.
func (c *Client) AddToCart(ctx context.Context, token string, userID, productID int64, quantity int) (*NotaVenta, error) {
	var out NotaVenta
	if err := c.do(ctx, request{
		endpoint: "notas_venta.add",
		method:   http.MethodPost,
		path:     "/notas-venta/add",
		token:    token,
		body:     addToCartRequest{UserID: userID, ProductID: productID, Quantity: quantity},
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStock sets the line quantity; quantity 0 removes the line.
func (c *Client) UpdateStock(ctx context.Context, token string, userID, productID int64, quantity int) (*NotaVenta, error) {
	var out NotaVenta
	if err := c.do(ctx, request{
		endpoint: "notas_venta.update_stock",
		method:   http.MethodPut,
		path:     "/notas-venta/order_detail/update_stock",
		token:    token,
		body:     updateStockRequest{UserID: userID, ProductID: productID, Quantity: quantity},
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetAddress assigns the shipping address of the user's cart. The backend returns no body.
func (c *Client) SetAddress(ctx context.Context, token string, userID, addressID int64) error {
	return c.do(ctx, request{
		endpoint: "notas_venta.set_address",
		method:   http.MethodPut,
		path:     "/notas-venta/set_address",
		token:    token,
		body:     setAddressRequest{UserID: userID, AddressID: addressID},
	})
}

// GetSale fetches a single sale record.
func (c *Client) GetSale(ctx context.Context, token string, saleID int64) (*NotaVenta, error) {
	var out NotaVenta
	if err := c.do(ctx, request{
		endpoint: "notas_venta.get",
		method:   http.MethodGet,
		path:     idPath("/notas-venta/%d", saleID),
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaleHistory pages through the user's sale records.
func (c *Client) SaleHistory(ctx context.Context, token string, userID int64, params pagination.Params) (*pagination.Page[NotaVenta], error) {
	var out pagination.Page[NotaVenta]
	if err := c.do(ctx, request{
		endpoint: "notas_venta.history",
		method:   http.MethodGet,
		path:     idPath("/notas-venta/historial-usuario/%d", userID),
		query:    pageQuery(params),
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func pageQuery(params pagination.Params) url.Values {
	params = params.Normalize()
	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("size", strconv.Itoa(params.Size))
	if params.SortBy != "" {
		query.Set("sortBy", params.SortBy)
	}
	if params.SortDir != "" {
		query.Set("sortDir", params.SortDir)
	}
	return query
}
