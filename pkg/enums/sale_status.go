package enums

// SaleStatus mirrors the backend estadoVenta of a sale record.
type SaleStatus string

const (
	SaleStatusOnCart    SaleStatus = "ON_CART"
	SaleStatusPending   SaleStatus = "PENDIENTE"
	SaleStatusPaid      SaleStatus = "PAYED"
	SaleStatusCompleted SaleStatus = "COMPLETED"
	SaleStatusCancelled SaleStatus = "CANCELLED"
)

func (s SaleStatus) String() string {
	return string(s)
}

// IsDraft reports whether the sale is still an editable cart.
func (s SaleStatus) IsDraft() bool {
	return s == SaleStatusOnCart || s == ""
}
