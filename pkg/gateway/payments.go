package gateway

import (
	"context"
	"net/http"
)

// CreateTransaction requests a payment transaction for the user's cart.
func (c *Client) CreateTransaction(ctx context.Context, token string, req TransactionRequest) (*PaymentTransaction, error) {
	var out PaymentTransaction
	if err := c.do(ctx, request{
		endpoint: "notas_venta.create_transaction",
		method:   http.MethodPost,
		path:     "/notas-venta/create_transaction",
		token:    token,
		body:     req,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyTransaction polls the payment state of the user's latest transaction.
func (c *Client) VerifyTransaction(ctx context.Context, token string, userID int64) (*VerificationResponse, error) {
	var out VerificationResponse
	if err := c.do(ctx, request{
		endpoint: "notas_venta.verify_transaction",
		method:   http.MethodGet,
		path:     idPath("/notas-venta/verify_transaction/%d", userID),
		token:    token,
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConvertCart reprices the user's cart from one currency into another.
func (c *Client) ConvertCart(ctx context.Context, token string, userID int64, from, to string) (*NotaVenta, error) {
	var out NotaVenta
	if err := c.do(ctx, request{
		endpoint: "stereum_pay.conversion",
		method:   http.MethodPost,
		path:     "/stereum-pay/conversion_moneda",
		token:    token,
		body:     conversionRequest{UserID: userID, OriginCurrency: from, TargetCurrency: to},
		out:      &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}
