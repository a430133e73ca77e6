package currency

import (
	"context"
	"fmt"

	"github.com/artemisia-corp/storefront/internal/cart"
	"github.com/artemisia-corp/storefront/pkg/auth/session"
	"github.com/artemisia-corp/storefront/pkg/enums"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/gateway"
)

// Gateway reprices the backend cart.
type Gateway interface {
	ConvertCart(ctx context.Context, token string, userID int64, from, to string) (*gateway.NotaVenta, error)
}

// Converter asks the backend to reprice the cart in another settlement currency.
type Converter struct {
	gw     Gateway
	token  string
	userID int64
}

// NewConverter builds a converter bound to the session user.
func NewConverter(gw Gateway, sess session.Session) (*Converter, error) {
	if gw == nil {
		return nil, fmt.Errorf("conversion gateway is required")
	}
	return &Converter{gw: gw, token: sess.BearerToken(), userID: sess.UserID}, nil
}

// Convert returns the repriced cart. On failure the input cart is returned
// untouched together with a CONVERSION_ERROR.
func (c *Converter) Convert(ctx context.Context, current cart.Cart, from, to enums.Currency) (cart.Cart, error) {
	if !from.IsValid() || !to.IsValid() {
		return current, pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency").
			WithDetails(map[string]any{"from": from, "to": to})
	}
	if from == to {
		return current, nil
	}

	nv, err := c.gw.ConvertCart(ctx, c.token, c.userID, from.String(), to.String())
	if err != nil {
		message := "currency conversion failed"
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeUpstream {
			message = typed.Message()
		}
		details := map[string]any{"from": from, "to": to}
		if status := gateway.StatusOf(err); status != 0 {
			details["status"] = status
		}
		return current, pkgerrors.Wrap(pkgerrors.CodeConversion, err, message).WithDetails(details)
	}

	converted := cart.FromNotaVenta(nv, to)
	if converted.BuyerAddressID == nil && current.BuyerAddressID != nil {
		id := *current.BuyerAddressID
		converted.BuyerAddressID = &id
	}
	return converted, nil
}
