package address

import "github.com/artemisia-corp/storefront/pkg/gateway"

// Address is a buyer shipping address.
type Address struct {
	AddressID        int64  `json:"address_id"`
	RecipientName    string `json:"recipient_name"`
	RecipientSurname string `json:"recipient_surname"`
	Country          string `json:"country"`
	City             string `json:"city"`
	Street           string `json:"street"`
	HouseNumber      string `json:"house_number"`
	Extra            string `json:"extra,omitempty"`
	UserID           int64  `json:"user_id"`
}

// CreateInput is the payload accepted when a buyer registers an address.
type CreateInput struct {
	RecipientName    string `json:"recipient_name" validate:"required,max=120"`
	RecipientSurname string `json:"recipient_surname" validate:"required,max=120"`
	Country          string `json:"country" validate:"required,max=80"`
	City             string `json:"city" validate:"required,max=80"`
	Street           string `json:"street" validate:"required,max=200"`
	HouseNumber      string `json:"house_number" validate:"required,max=20"`
	Extra            string `json:"extra" validate:"omitempty,max=255"`
}

// FromGateway maps the backend record.
func FromGateway(a gateway.Address) Address {
	return Address{
		AddressID:        a.AddressID,
		RecipientName:    a.RecipientName,
		RecipientSurname: a.RecipientSurname,
		Country:          a.Country,
		City:             a.City,
		Street:           a.Street,
		HouseNumber:      a.HouseNumber,
		Extra:            a.Extra,
		UserID:           a.UserID,
	}
}
