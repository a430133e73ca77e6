package product

import (
	"github.com/artemisia-corp/storefront/pkg/enums"
	"github.com/artemisia-corp/storefront/pkg/gateway"
	"github.com/shopspring/decimal"
)

// ProductDTO is the artwork listing returned to clients.
type ProductDTO struct {
	ProductID   int64               `json:"product_id"`
	Name        string              `json:"name"`
	Techniques  []string            `json:"techniques"`
	Categories  []string            `json:"categories"`
	Materials   string              `json:"materials,omitempty"`
	Description string              `json:"description,omitempty"`
	Price       decimal.Decimal     `json:"price"`
	Stock       int                 `json:"stock"`
	Status      enums.ProductStatus `json:"status"`
	Image       string              `json:"image,omitempty"`
	SellerID    int64               `json:"seller_id"`
	SellerName  string              `json:"seller_name,omitempty"`
}

// ProductInput is the seller payload for create and update.
type ProductInput struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Technique   string          `json:"technique" validate:"omitempty,max=80"`
	Category    string          `json:"category" validate:"omitempty,max=80"`
	Materials   string          `json:"materials" validate:"omitempty,max=255"`
	Description string          `json:"description" validate:"omitempty,max=2000"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      string          `json:"status" validate:"omitempty,oneof=AVAILABLE UNAVAILABLE DELETED"`
	Image       *ImageInput     `json:"image,omitempty"`
}

// ImageInput carries a base64 encoded image.
type ImageInput struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	Base64Image string `json:"base64_image" validate:"required"`
}

// SearchInput filters the catalog.
type SearchInput struct {
	Categories []string         `json:"categories"`
	Techniques []string         `json:"techniques"`
	PriceMin   *decimal.Decimal `json:"price_min"`
	PriceMax   *decimal.Decimal `json:"price_max"`
}

// Filters are the optional catalog list filters forwarded to the backend.
type Filters struct {
	Category  string
	Technique string
	Status    string
	Name      string
}

func (f Filters) toQuery() map[string]string {
	return map[string]string{
		"category":  f.Category,
		"technique": f.Technique,
		"status":    f.Status,
		"name":      f.Name,
	}
}

// FromGateway maps the backend listing.
func FromGateway(p gateway.Product) ProductDTO {
	return ProductDTO{
		ProductID:   p.ProductID,
		Name:        p.Name,
		Techniques:  append([]string{}, p.Techniques...),
		Categories:  append([]string{}, p.Categories...),
		Materials:   p.Materials,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Status:      enums.ProductStatus(p.Status),
		Image:       p.Image,
		SellerID:    p.SellerID,
		SellerName:  p.SellerName,
	}
}
