package cart

import (
	"github.com/artemisia-corp/storefront/pkg/enums"
	"github.com/artemisia-corp/storefront/pkg/gateway"
	"github.com/shopspring/decimal"
)

// Line is one artwork in the cart. Quantity 0 means the line is gone.
type Line struct {
	DetailID    int64           `json:"detail_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	SellerID    int64           `json:"seller_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Cart is the last server-confirmed snapshot of the buyer's draft sale.
type Cart struct {
	ID             int64            `json:"id"`
	BuyerID        int64            `json:"buyer_id"`
	BuyerAddressID *int64           `json:"buyer_address_id"`
	Status         enums.SaleStatus `json:"status"`
	Date           string           `json:"date,omitempty"`
	Currency       enums.Currency   `json:"currency"`
	Lines          []Line           `json:"lines"`
	TotalGlobal    decimal.Decimal  `json:"total_global"`
}

// FromNotaVenta maps a backend sale record. Totals are copied, never recomputed.
func FromNotaVenta(nv *gateway.NotaVenta, currency enums.Currency) Cart {
	if nv == nil {
		return Cart{Currency: currency, Lines: []Line{}}
	}
	out := Cart{
		ID:          nv.ID,
		BuyerID:     nv.UserID,
		Status:      enums.SaleStatus(nv.EstadoVenta),
		Date:        nv.Date,
		Currency:    currency,
		Lines:       make([]Line, 0, len(nv.Detalles)),
		TotalGlobal: nv.TotalGlobal,
	}
	if nv.BuyerAddress != nil {
		id := *nv.BuyerAddress
		out.BuyerAddressID = &id
	}
	for _, d := range nv.Detalles {
		out.Lines = append(out.Lines, Line{
			DetailID:    d.ID,
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			SellerID:    d.SellerID,
			Quantity:    d.Quantity,
			UnitPrice:   UnitPrice(d.Total, d.Quantity),
			LineTotal:   d.Total,
		})
	}
	return out
}

// UnitPrice derives the per-unit price shown next to a line.
func UnitPrice(lineTotal decimal.Decimal, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return lineTotal.DivRound(decimal.NewFromInt(int64(quantity)), 2)
}

// Line returns the line holding productID.
func (c Cart) Line(productID int64) (Line, bool) {
	for _, line := range c.Lines {
		if line.ProductID == productID {
			return line, true
		}
	}
	return Line{}, false
}

// IsEmpty reports whether the cart holds no purchasable lines.
func (c Cart) IsEmpty() bool {
	for _, line := range c.Lines {
		if line.Quantity > 0 {
			return false
		}
	}
	return true
}

// AddressID returns the assigned address id, or zero.
func (c Cart) AddressID() int64 {
	if c.BuyerAddressID == nil {
		return 0
	}
	return *c.BuyerAddressID
}

// Clone returns a deep copy safe to hand out of the store.
func (c Cart) Clone() Cart {
	out := c
	out.Lines = append([]Line(nil), c.Lines...)
	if out.Lines == nil {
		out.Lines = []Line{}
	}
	if c.BuyerAddressID != nil {
		id := *c.BuyerAddressID
		out.BuyerAddressID = &id
	}
	return out
}
