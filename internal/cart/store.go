package cart

import (
	"context"
	"fmt"

	"github.com/artemisia-corp/storefront/pkg/auth/session"
	"github.com/artemisia-corp/storefront/pkg/enums"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/gateway"
)

// Gateway is the slice of the backend client the cart needs.
type Gateway interface {
	GetCart(ctx context.Context, token string, userID int64) (*gateway.NotaVenta, error)
	AddToCart(ctx context.Context, token string, userID, productID int64, quantity int) (*gateway.NotaVenta, error)
	UpdateStock(ctx context.Context, token string, userID, productID int64, quantity int) (*gateway.NotaVenta, error)
}

// Store keeps the cart snapshot of one session. Every mutation goes to the
// backend and the returned record replaces the snapshot wholesale.
// Store is not safe for concurrent use; the owning workspace serializes calls.
type Store struct {
	gw       Gateway
	token    string
	userID   int64
	currency enums.Currency
	current  Cart
	loaded   bool
}

// NewStore builds an empty store bound to the session user.
func NewStore(gw Gateway, sess session.Session) (*Store, error) {
	if gw == nil {
		return nil, fmt.Errorf("cart gateway is required")
	}
	if sess.UserID <= 0 {
		return nil, fmt.Errorf("session user is required")
	}
	return &Store{
		gw:       gw,
		token:    sess.BearerToken(),
		userID:   sess.UserID,
		currency: enums.DefaultCurrency,
		current:  Cart{Currency: enums.DefaultCurrency, Lines: []Line{}},
	}, nil
}

// Load fetches the cart and replaces the snapshot.
func (s *Store) Load(ctx context.Context) (Cart, error) {
	nv, err := s.gw.GetCart(ctx, s.token, s.userID)
	if err != nil {
		return s.Current(), err
	}
	s.replace(nv)
	return s.Current(), nil
}

// Decrement lowers the line quantity by one. A line at 1 is removed.
func (s *Store) Decrement(ctx context.Context, productID int64) (Cart, error) {
	line, ok := s.current.Line(productID)
	if !ok {
		return s.Current(), pkgerrors.New(pkgerrors.CodeValidation, "product is not in the cart").
			WithDetails(map[string]any{"product_id": productID})
	}
	next := line.Quantity - 1
	if next < 0 {
		next = 0
	}
	nv, err := s.gw.UpdateStock(ctx, s.token, s.userID, productID, next)
	if err != nil {
		return s.Current(), err
	}
	s.replace(nv)
	return s.Current(), nil
}

// Add puts quantity units of productID in the cart.
func (s *Store) Add(ctx context.Context, productID int64, quantity int) (Cart, error) {
	if productID <= 0 {
		return s.Current(), pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return s.Current(), pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	nv, err := s.gw.AddToCart(ctx, s.token, s.userID, productID, quantity)
	if err != nil {
		return s.Current(), err
	}
	s.replace(nv)
	return s.Current(), nil
}

// Current returns a copy of the snapshot.
func (s *Store) Current() Cart {
	return s.current.Clone()
}

// Loaded reports whether the snapshot came from the backend at least once.
func (s *Store) Loaded() bool {
	return s.loaded
}

// Currency returns the currency the cart is priced in.
func (s *Store) Currency() enums.Currency {
	return s.currency
}

// Replace installs a server-returned cart priced in currency.
func (s *Store) Replace(c Cart, currency enums.Currency) {
	if currency.IsValid() {
		s.currency = currency
	}
	c.Currency = s.currency
	s.current = c.Clone()
	s.loaded = true
}

// Reset drops the snapshot and returns to the default currency. A paid cart
// becomes a sale and the backend opens the next one in the default currency.
func (s *Store) Reset() {
	s.currency = enums.DefaultCurrency
	s.current = Cart{Currency: enums.DefaultCurrency, Lines: []Line{}}
	s.loaded = false
}

func (s *Store) replace(nv *gateway.NotaVenta) {
	s.current = FromNotaVenta(nv, s.currency)
	s.loaded = true
}
