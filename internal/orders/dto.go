package orders

import (
	"github.com/artemisia-corp/storefront/internal/cart"
	"github.com/artemisia-corp/storefront/pkg/enums"
	"github.com/artemisia-corp/storefront/pkg/gateway"
	"github.com/shopspring/decimal"
)

// OrderSummary is one row of the buyer's purchase history.
type OrderSummary struct {
	ID             int64            `json:"id"`
	Status         enums.SaleStatus `json:"status"`
	Date           string           `json:"date,omitempty"`
	BuyerAddressID *int64           `json:"buyer_address_id,omitempty"`
	TotalItems     int              `json:"total_items"`
	TotalGlobal    decimal.Decimal  `json:"total_global"`
}

// Receipt is a full sale record. It shares the cart line shape.
type Receipt struct {
	cart.Cart
}

func summaryFromGateway(nv gateway.NotaVenta) OrderSummary {
	out := OrderSummary{
		ID:          nv.ID,
		Status:      enums.SaleStatus(nv.EstadoVenta),
		Date:        nv.Date,
		TotalGlobal: nv.TotalGlobal,
	}
	if nv.BuyerAddress != nil {
		id := *nv.BuyerAddress
		out.BuyerAddressID = &id
	}
	for _, d := range nv.Detalles {
		out.TotalItems += d.Quantity
	}
	return out
}
