package catalog

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Price is a single currency entry of a price table.
type Price struct {
	Currency string // ISO 4217 code
	Value    decimal.Decimal
}

// InternationalPrice is an immutable currency-keyed price table.
// An empty table means "zero in every currency"; a table holds at most one
// entry per currency. Tables are shared freely between plans and phases, so
// they must never be modified after construction - derive new tables with
// WithPrice instead.
type InternationalPrice struct {
	prices []Price
}

// NewInternationalPrice builds a price table from the given entries,
// preserving their order. Returns ErrDuplicateCurrency if a currency
// appears twice.
func NewInternationalPrice(prices ...Price) (*InternationalPrice, error) {
	seen := make(map[string]struct{}, len(prices))
	for _, p := range prices {
		if _, dup := seen[p.Currency]; dup {
			return nil, ErrDuplicateCurrency
		}
		seen[p.Currency] = struct{}{}
	}
	return &InternationalPrice{prices: slices.Clone(prices)}, nil
}

// Value returns the amount for the given currency.
// An empty table is zero in every currency; a non-empty table without an
// entry for the currency yields ErrCurrencyNotSupported.
func (ip *InternationalPrice) Value(currency string) (decimal.Decimal, error) {
	if ip == nil || len(ip.prices) == 0 {
		return decimal.Zero, nil
	}
	for _, p := range ip.prices {
		if p.Currency == currency {
			return p.Value, nil
		}
	}
	return decimal.Zero, ErrCurrencyNotSupported
}

// Prices returns a copy of the table entries in their defined order.
func (ip *InternationalPrice) Prices() []Price {
	if ip == nil {
		return nil
	}
	return slices.Clone(ip.prices)
}

// Currencies returns the currency codes present in the table.
func (ip *InternationalPrice) Currencies() []string {
	if ip == nil {
		return nil
	}
	codes := make([]string, 0, len(ip.prices))
	for _, p := range ip.prices {
		codes = append(codes, p.Currency)
	}
	return codes
}

// IsZero reports whether every entry of the table is zero.
// The empty table is zero by definition.
func (ip *InternationalPrice) IsZero() bool {
	if ip == nil {
		return true
	}
	for _, p := range ip.prices {
		if !p.Value.IsZero() {
			return false
		}
	}
	return true
}

// WithPrice derives a copy of the table with the given currency's amount
// replaced, or appended when the currency was not present. The receiver is
// left untouched.
func (ip *InternationalPrice) WithPrice(currency string, value decimal.Decimal) *InternationalPrice {
	if ip == nil {
		return &InternationalPrice{prices: []Price{{Currency: currency, Value: value}}}
	}
	derived := slices.Clone(ip.prices)
	for i, p := range derived {
		if p.Currency == currency {
			derived[i].Value = value
			return &InternationalPrice{prices: derived}
		}
	}
	derived = append(derived, Price{Currency: currency, Value: value})
	return &InternationalPrice{prices: derived}
}
