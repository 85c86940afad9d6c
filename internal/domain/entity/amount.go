package entity

import (
	"bytes"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a numeric field of the upstream document. Null, absent and
// non-numeric values decode as invalid instead of failing the whole document.
type Amount struct {
	decimal.NullDecimal
}

// NewAmount returns a valid Amount holding v.
func NewAmount(v decimal.Decimal) Amount {
	return Amount{decimal.NullDecimal{Decimal: v, Valid: true}}
}

// AmountFromFloat is a convenience for fixtures and tests.
func AmountFromFloat(f float64) Amount {
	return NewAmount(decimal.NewFromFloat(f))
}

const (
	// MaxAmountDigits bounds the integer digits of an accepted amount.
	MaxAmountDigits = 30
	// MaxAmountScale bounds the fractional digits kept from an amount.
	MaxAmountScale = 30
)

var maxAmount = decimal.New(1, MaxAmountDigits)

// ParseAmount parses a numeric string. Empty, non-numeric and out-of-range
// values (|v| > 1e30) yield an invalid Amount; values below 1e-30 in
// magnitude become zero.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}
	}

	// |d| < 10^order; checked before any rescaling so huge exponents stay cheap.
	order := int64(d.NumDigits()) + int64(d.Exponent())
	switch {
	case d.IsZero() || order < -MaxAmountScale:
		return NewAmount(decimal.Zero)
	case order > MaxAmountDigits+1:
		return Amount{}
	}
	if d.Exponent() < -MaxAmountScale {
		d = d.Truncate(MaxAmountScale)
	}
	if d.Abs().GreaterThan(maxAmount) {
		return Amount{}
	}
	return NewAmount(d)
}

// UnmarshalJSON accepts JSON numbers and numeric strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		*a = Amount{}
		return nil
	}
	*a = ParseAmount(strings.Trim(string(raw), `"`))
	return nil
}

// MarshalJSON writes null for invalid amounts.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return []byte(a.Decimal.String()), nil
}

// OrZero returns the value, or zero when the amount is invalid.
func (a Amount) OrZero() decimal.Decimal {
	if !a.Valid {
		return decimal.Zero
	}
	return a.Decimal
}
