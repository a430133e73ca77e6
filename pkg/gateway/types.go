package gateway

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexibleID decodes identifiers the backend emits either as numbers or as strings.
type FlexibleID int64

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = 0
		return nil
	}
	raw := string(trimmed)
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("decoding id: %w", err)
		}
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			*id = 0
			return nil
		}
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("decoding id %q: %w", raw, err)
	}
	*id = FlexibleID(parsed)
	return nil
}

func (id FlexibleID) Int64() int64 {
	return int64(id)
}

// LoginRequest is the credential payload of POST /auth/token.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /auth/token.
type LoginResponse struct {
	IDToken    string     `json:"id_token"`
	Username   string     `json:"username"`
	UserID     FlexibleID `json:"user_id"`
	UserRole   string     `json:"user_role"`
	Role       string     `json:"role"`
	FirstLogin bool       `json:"firstLogin"`
}

// RoleName returns whichever role field the backend populated.
func (r LoginResponse) RoleName() string {
	if strings.TrimSpace(r.UserRole) != "" {
		return r.UserRole
	}
	return r.Role
}

// NotaVenta is the backend sale record; a draft one is the buyer's cart.
type NotaVenta struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"userId"`
	BuyerAddress *int64          `json:"buyerAddress"`
	EstadoVenta  string          `json:"estadoVenta"`
	TotalGlobal  decimal.Decimal `json:"totalGlobal"`
	Date         string          `json:"date"`
	Detalles     []OrderDetail   `json:"detalles"`
}

// OrderDetail is one line of a sale record.
type OrderDetail struct {
	ID          int64           `json:"id"`
	GroupID     int64           `json:"groupId"`
	ProductID   int64           `json:"productId"`
	SellerID    int64           `json:"sellerId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}

type addToCartRequest struct {
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type updateStockRequest struct {
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type setAddressRequest struct {
	UserID    int64 `json:"userId"`
	AddressID int64 `json:"addressId"`
}

// TransactionRequest is the payload of POST /notas-venta/create_transaction.
type TransactionRequest struct {
	UserID       int64  `json:"user_id"`
	Currency     string `json:"currency"`
	ChargeReason string `json:"charge_reason"`
	Country      string `json:"country"`
	Network      string `json:"network,omitempty"`
}

// PaymentTransaction is the payment gateway response relayed by the backend.
type PaymentTransaction struct {
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Network           string          `json:"network"`
	ID                string          `json:"id"`
	QRBase64          string          `json:"qr_base64"`
	PaymentLink       string          `json:"payment_link"`
	TransactionStatus string          `json:"transaction_status"`
	OnMainNet         string          `json:"on_main_net"`
	CollectingAccount string          `json:"collecting_account"`
	ExpirationTime    int64           `json:"expiration_time"`
}

// VerificationResponse is returned by GET /notas-venta/verify_transaction/{userId}.
type VerificationResponse struct {
	Estado      string `json:"estado"`
	NotaVentaID *int64 `json:"notaVentaId"`
}

type conversionRequest struct {
	UserID         int64  `json:"userId"`
	OriginCurrency string `json:"originCurrency"`
	TargetCurrency string `json:"targetCurrency"`
}

// Address is the backend address record.
type Address struct {
	AddressID        int64  `json:"address_id"`
	RecipientName    string `json:"recipient_name"`
	RecipientSurname string `json:"recipient_surname"`
	Country          string `json:"country"`
	City             string `json:"city"`
	Street           string `json:"street"`
	HouseNumber      string `json:"house_number"`
	Extra            string `json:"extra,omitempty"`
	UserID           int64  `json:"userId"`
}

// AddressRequest is the payload of POST /addresses.
type AddressRequest struct {
	RecipientName    string `json:"recipient_name"`
	RecipientSurname string `json:"recipient_surname"`
	Country          string `json:"country"`
	City             string `json:"city"`
	Street           string `json:"street"`
	HouseNumber      string `json:"house_number"`
	Extra            string `json:"extra,omitempty"`
	UserID           int64  `json:"user_id"`
}

// Product is the backend artwork listing.
type Product struct {
	ProductID   int64           `json:"productId"`
	Name        string          `json:"name"`
	Techniques  []string        `json:"techniques"`
	Categories  []string        `json:"categories"`
	Materials   string          `json:"materials"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      string          `json:"status"`
	Image       string          `json:"image"`
	SellerID    int64           `json:"sellerId"`
	SellerName  string          `json:"sellerName"`
}

// ProductRequest is the payload of POST /products and PUT /products/{id}.
type ProductRequest struct {
	SellerID    int64           `json:"sellerId"`
	Name        string          `json:"name"`
	Technique   string          `json:"technique,omitempty"`
	Category    string          `json:"category,omitempty"`
	Materials   string          `json:"materials,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      string          `json:"status,omitempty"`
}

// ProductSearch is the payload of POST /products/search.
type ProductSearch struct {
	Categories []string         `json:"categories,omitempty"`
	Techniques []string         `json:"techniques,omitempty"`
	PriceMin   *decimal.Decimal `json:"priceMin,omitempty"`
	PriceMax   *decimal.Decimal `json:"priceMax,omitempty"`
}

// ImageUpload is the payload of POST /images/upload.
type ImageUpload struct {
	ProductID   int64  `json:"productId"`
	FileName    string `json:"fileName"`
	Base64Image string `json:"base64Image"`
}

// UserRequest is the payload of POST /users.
type UserRequest struct {
	Name     string `json:"name"`
	Mail     string `json:"mail"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// User is the backend account record.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Mail string `json:"mail"`
	Role string `json:"role"`
}
