package enums

// AddressState tracks whether the cart has a confirmed shipping address.
type AddressState string

const (
	AddressUnassigned AddressState = "UNASSIGNED"
	AddressAssigned   AddressState = "ASSIGNED"
)

func (s AddressState) String() string {
	return string(s)
}
