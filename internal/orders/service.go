package orders

import (
	"context"
	"fmt"
	"net/http"

	"github.com/artemisia-corp/storefront/internal/cart"
	"github.com/artemisia-corp/storefront/pkg/auth/session"
	"github.com/artemisia-corp/storefront/pkg/enums"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/gateway"
	"github.com/artemisia-corp/storefront/pkg/pagination"
)

type salesGateway interface {
	SaleHistory(ctx context.Context, token string, userID int64, params pagination.Params) (*pagination.Page[gateway.NotaVenta], error)
	GetSale(ctx context.Context, token string, saleID int64) (*gateway.NotaVenta, error)
}

// Service reads the signed-in buyer's past sales.
type Service interface {
	History(ctx context.Context, sess *session.Session, params pagination.Params) (*pagination.Page[OrderSummary], error)
	Receipt(ctx context.Context, sess *session.Session, orderID int64) (*Receipt, error)
}

type service struct {
	gw salesGateway
}

// NewService builds the order history service.
func NewService(gw salesGateway) (Service, error) {
	if gw == nil {
		return nil, fmt.Errorf("sales gateway is required")
	}
	return &service{gw: gw}, nil
}

func (s *service) History(ctx context.Context, sess *session.Session, params pagination.Params) (*pagination.Page[OrderSummary], error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	page, err := s.gw.SaleHistory(ctx, sess.BearerToken(), sess.UserID, params.Normalize())
	if err != nil {
		return nil, err
	}
	out := pagination.Map(*page, summaryFromGateway)
	return &out, nil
}

// Receipt returns one sale. Sales owned by another user are reported as missing.
func (s *service) Receipt(ctx context.Context, sess *session.Session, orderID int64) (*Receipt, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	nv, err := s.gw.GetSale(ctx, sess.BearerToken(), orderID)
	if err != nil {
		if gateway.StatusOf(err) == http.StatusNotFound {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, err
	}
	if nv == nil || nv.UserID != sess.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return &Receipt{Cart: cart.FromNotaVenta(nv, enums.DefaultCurrency)}, nil
}
