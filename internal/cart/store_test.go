package cart

import (
	"context"
	"testing"

	"github.com/artemisia-corp/storefront/pkg/auth/session"
	"github.com/artemisia-corp/storefront/pkg/enums"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/gateway"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockCall struct {
	productID int64
	quantity  int
}

type stubGateway struct {
	cart        *gateway.NotaVenta
	next        *gateway.NotaVenta
	err         error
	stockCalls  []stockCall
	addCalls    []stockCall
	lastToken   string
	lastUserID  int64
	getCartHits int
}

func (s *stubGateway) GetCart(ctx context.Context, token string, userID int64) (*gateway.NotaVenta, error) {
	s.getCartHits++
	s.lastToken, s.lastUserID = token, userID
	if s.err != nil {
		return nil, s.err
	}
	return s.cart, nil
}

func (s *stubGateway) AddToCart(ctx context.Context, token string, userID, productID int64, quantity int) (*gateway.NotaVenta, error) {
	s.addCalls = append(s.addCalls, stockCall{productID, quantity})
	if s.err != nil {
		return nil, s.err
	}
	return s.next, nil
}

func (s *stubGateway) UpdateStock(ctx context.Context, token string, userID, productID int64, quantity int) (*gateway.NotaVenta, error) {
	s.stockCalls = append(s.stockCalls, stockCall{productID, quantity})
	if s.err != nil {
		return nil, s.err
	}
	return s.next, nil
}

func nota(total string, lines ...gateway.OrderDetail) *gateway.NotaVenta {
	return &gateway.NotaVenta{
		ID:          7,
		UserID:      3,
		EstadoVenta: "ON_CART",
		TotalGlobal: decimal.RequireFromString(total),
		Detalles:    lines,
	}
}

func detail(productID int64, quantity int, total string) gateway.OrderDetail {
	return gateway.OrderDetail{ID: productID * 10, ProductID: productID, ProductName: "Obra", Quantity: quantity, Total: decimal.RequireFromString(total)}
}

func newLoadedStore(t *testing.T, gw *stubGateway) *Store {
	t.Helper()
	store, err := NewStore(gw, session.Session{ID: "s", Token: "tok", UserID: 3})
	require.NoError(t, err)
	_, err = store.Load(context.Background())
	require.NoError(t, err)
	return store
}

func TestStoreLoadUsesSessionAndServerTotals(t *testing.T) {
	gw := &stubGateway{cart: nota("999.99", detail(5, 2, "300.00"))}
	store := newLoadedStore(t, gw)

	cart := store.Current()
	assert.Equal(t, "tok", gw.lastToken)
	assert.Equal(t, int64(3), gw.lastUserID)
	assert.Equal(t, "999.99", cart.TotalGlobal.StringFixed(2))
	assert.Equal(t, "150.00", cart.Lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, enums.CurrencyBOB, cart.Currency)
	assert.True(t, store.Loaded())
}

func TestStoreDecrementSendsQuantityMinusOne(t *testing.T) {
	gw := &stubGateway{
		cart: nota("300", detail(5, 3, "300")),
		next: nota("200", detail(5, 2, "200")),
	}
	store := newLoadedStore(t, gw)

	cart, err := store.Decrement(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, []stockCall{{5, 2}}, gw.stockCalls)
	line, ok := cart.Line(5)
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "200", cart.TotalGlobal.String())
}

func TestStoreDecrementLastUnitRemovesLine(t *testing.T) {
	gw := &stubGateway{
		cart: nota("100", detail(5, 1, "100")),
		next: nota("0"),
	}
	store := newLoadedStore(t, gw)

	cart, err := store.Decrement(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, []stockCall{{5, 0}}, gw.stockCalls)
	_, ok := cart.Line(5)
	assert.False(t, ok)
	assert.True(t, cart.IsEmpty())
}

func TestStoreDecrementClampsAtZero(t *testing.T) {
	gw := &stubGateway{
		cart: nota("0", detail(5, 0, "0")),
		next: nota("0"),
	}
	store := newLoadedStore(t, gw)

	_, err := store.Decrement(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []stockCall{{5, 0}}, gw.stockCalls)
}

func TestStoreDecrementUnknownProduct(t *testing.T) {
	gw := &stubGateway{cart: nota("100", detail(5, 1, "100"))}
	store := newLoadedStore(t, gw)

	_, err := store.Decrement(context.Background(), 99)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.Empty(t, gw.stockCalls)
}

func TestStoreFailedMutationKeepsSnapshot(t *testing.T) {
	gw := &stubGateway{cart: nota("300", detail(5, 3, "300"))}
	store := newLoadedStore(t, gw)
	before := store.Current()

	gw.err = pkgerrors.New(pkgerrors.CodeUpstream, "upstream request failed with status 500")
	cart, err := store.Decrement(context.Background(), 5)
	require.Error(t, err)
	assert.Equal(t, before, cart)
	assert.Equal(t, before, store.Current())
}

func TestStoreAddValidatesQuantity(t *testing.T) {
	gw := &stubGateway{cart: nota("0"), next: nota("150", detail(8, 1, "150"))}
	store := newLoadedStore(t, gw)

	_, err := store.Add(context.Background(), 8, 0)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.Empty(t, gw.addCalls)

	cart, err := store.Add(context.Background(), 8, 1)
	require.NoError(t, err)
	assert.Equal(t, []stockCall{{8, 1}}, gw.addCalls)
	assert.Len(t, cart.Lines, 1)
}

func TestStoreReplaceKeepsCurrencyAcrossReloads(t *testing.T) {
	gw := &stubGateway{cart: nota("300", detail(5, 3, "300"))}
	store := newLoadedStore(t, gw)

	converted := FromNotaVenta(nota("43.10", detail(5, 3, "43.10")), enums.CurrencyUSDT)
	store.Replace(converted, enums.CurrencyUSDT)
	assert.Equal(t, enums.CurrencyUSDT, store.Currency())
	assert.Equal(t, "43.1", store.Current().TotalGlobal.String())

	_, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, enums.CurrencyUSDT, store.Current().Currency)
}

func TestStoreResetReturnsToDefaultCurrency(t *testing.T) {
	gw := &stubGateway{cart: nota("300", detail(5, 3, "300"))}
	store := newLoadedStore(t, gw)
	store.Replace(FromNotaVenta(nota("43.10", detail(5, 3, "43.10")), enums.CurrencyUSDT), enums.CurrencyUSDT)

	store.Reset()
	assert.False(t, store.Loaded())
	assert.Equal(t, enums.DefaultCurrency, store.Currency())
	assert.Empty(t, store.Current().Lines)

	gw.cart = nota("50", detail(9, 1, "50"))
	cart, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, enums.DefaultCurrency, cart.Currency)
	assert.Equal(t, "50", cart.TotalGlobal.String())
}

func TestUnitPriceZeroQuantity(t *testing.T) {
	assert.True(t, UnitPrice(decimal.NewFromInt(10), 0).IsZero())
	assert.Equal(t, "3.33", UnitPrice(decimal.NewFromInt(10), 3).String())
}
