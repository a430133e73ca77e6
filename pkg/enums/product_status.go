package enums

import "fmt"

// ProductStatus is the listing state of an artwork.
type ProductStatus string

const (
	ProductStatusAvailable   ProductStatus = "AVAILABLE"
	ProductStatusUnavailable ProductStatus = "UNAVAILABLE"
	ProductStatusDeleted     ProductStatus = "DELETED"
)

var validProductStatuses = []ProductStatus{
	ProductStatusAvailable,
	ProductStatusUnavailable,
	ProductStatusDeleted,
}

// String implements fmt.Stringer.
func (s ProductStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductStatus.
func (s ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductStatus converts a raw string into a ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}
