package orders

import (
	"context"
	"testing"

	"github.com/artemisia-corp/storefront/pkg/auth/session"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/gateway"
	"github.com/artemisia-corp/storefront/pkg/pagination"
	"github.com/shopspring/decimal"
)

type stubSales struct {
	history    []gateway.NotaVenta
	params     pagination.Params
	historyFor int64
	sale       *gateway.NotaVenta
	saleErr    error
}

func (s *stubSales) SaleHistory(_ context.Context, _ string, userID int64, params pagination.Params) (*pagination.Page[gateway.NotaVenta], error) {
	s.historyFor = userID
	s.params = params
	return &pagination.Page[gateway.NotaVenta]{Content: s.history, TotalElements: int64(len(s.history)), TotalPages: 1, Size: params.Size}, nil
}

func (s *stubSales) GetSale(_ context.Context, _ string, _ int64) (*gateway.NotaVenta, error) {
	return s.sale, s.saleErr
}

func buyerSession() *session.Session {
	return &session.Session{ID: "sess", Token: "tok", UserID: 7}
}

func TestHistoryMapsSummaries(t *testing.T) {
	addr := int64(3)
	stub := &stubSales{history: []gateway.NotaVenta{{
		ID:           42,
		UserID:       7,
		BuyerAddress: &addr,
		EstadoVenta:  "PAYED",
		TotalGlobal:  decimal.RequireFromString("300"),
		Detalles: []gateway.OrderDetail{
			{ProductID: 1, Quantity: 2, Total: decimal.RequireFromString("200")},
			{ProductID: 2, Quantity: 1, Total: decimal.RequireFromString("100")},
		},
	}}}
	svc, err := NewService(stub)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	page, err := svc.History(context.Background(), buyerSession(), pagination.Params{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if stub.historyFor != 7 {
		t.Fatalf("expected history for user 7, got %d", stub.historyFor)
	}
	if stub.params.Size != pagination.DefaultSize {
		t.Fatalf("expected default size, got %d", stub.params.Size)
	}
	if len(page.Content) != 1 {
		t.Fatalf("expected one order, got %d", len(page.Content))
	}
	got := page.Content[0]
	if got.ID != 42 || got.TotalItems != 3 || got.BuyerAddressID == nil || *got.BuyerAddressID != 3 {
		t.Fatalf("unexpected summary %+v", got)
	}
	if !got.TotalGlobal.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected total 300, got %s", got.TotalGlobal)
	}
}

func TestHistoryRequiresSession(t *testing.T) {
	svc, _ := NewService(&stubSales{})
	if _, err := svc.History(context.Background(), nil, pagination.Params{}); !pkgerrors.Is(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestReceiptReturnsOwnedSale(t *testing.T) {
	stub := &stubSales{sale: &gateway.NotaVenta{
		ID:          42,
		UserID:      7,
		EstadoVenta: "PAYED",
		TotalGlobal: decimal.RequireFromString("50"),
		Detalles:    []gateway.OrderDetail{{ProductID: 9, Quantity: 2, Total: decimal.RequireFromString("50")}},
	}}
	svc, _ := NewService(stub)

	receipt, err := svc.Receipt(context.Background(), buyerSession(), 42)
	if err != nil {
		t.Fatalf("receipt: %v", err)
	}
	if receipt.ID != 42 || len(receipt.Lines) != 1 {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
	if !receipt.Lines[0].UnitPrice.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("expected unit price 25, got %s", receipt.Lines[0].UnitPrice)
	}
}

func TestReceiptHidesForeignSale(t *testing.T) {
	svc, _ := NewService(&stubSales{sale: &gateway.NotaVenta{ID: 42, UserID: 8}})

	if _, err := svc.Receipt(context.Background(), buyerSession(), 42); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReceiptMapsUpstreamNotFound(t *testing.T) {
	svc, _ := NewService(&stubSales{saleErr: &gateway.StatusError{Endpoint: "get_sale", Status: 404}})

	if _, err := svc.Receipt(context.Background(), buyerSession(), 42); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReceiptPassesOtherFailuresThrough(t *testing.T) {
	upstream := pkgerrors.New(pkgerrors.CodeUpstream, "boom")
	svc, _ := NewService(&stubSales{saleErr: upstream})

	if _, err := svc.Receipt(context.Background(), buyerSession(), 42); !pkgerrors.Is(err, pkgerrors.CodeUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
