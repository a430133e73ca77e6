package enums

import (
	"fmt"
	"strings"
)

// Currency represents the settlement currencies a cart can be priced in.
type Currency string

const (
	CurrencyBOB  Currency = "BOB"
	CurrencyUSDT Currency = "USDT"
	CurrencyUSDC Currency = "USDC"
)

// DefaultCurrency is the currency carts are created in.
const DefaultCurrency = CurrencyBOB

var validCurrencies = []Currency{
	CurrencyBOB,
	CurrencyUSDT,
	CurrencyUSDC,
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the currency is recognized.
func (c Currency) IsValid() bool {
	for _, candidate := range validCurrencies {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCurrency converts a raw string into a Currency.
func ParseCurrency(value string) (Currency, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validCurrencies {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid currency %q", value)
}
