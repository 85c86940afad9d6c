package render

import (
	"strings"

	"github.com/shopspring/decimal"

	"pepu_portfolio_bot/internal/domain/entity"
)

// NotAvailable is rendered in place of any missing or non-numeric value.
const NotAvailable = "N/A"

var (
	billion  = decimal.New(1, 9)
	million  = decimal.New(1, 6)
	thousand = decimal.New(1, 3)
)

// FormatAmount renders token quantities: B/M/K suffixes with 2 decimals from
// 1e9/1e6/1e3 upwards, 4 decimals below. Rounding is half away from zero.
func FormatAmount(a entity.Amount) string {
	if !a.Valid {
		return NotAvailable
	}
	d := a.Decimal
	switch {
	case d.GreaterThanOrEqual(billion):
		return d.Div(billion).StringFixed(2) + "B"
	case d.GreaterThanOrEqual(million):
		return d.Div(million).StringFixed(2) + "M"
	case d.GreaterThanOrEqual(thousand):
		return d.Div(thousand).StringFixed(2) + "K"
	}
	return groupThousands(d.StringFixed(4))
}

// FormatUSD renders a currency value with 2 decimals and thousands separators.
func FormatUSD(a entity.Amount) string {
	if !a.Valid {
		return NotAvailable
	}
	return withDollar(groupThousands(a.Decimal.StringFixed(2)))
}

// FormatPrice renders a unit price with 6 decimals.
func FormatPrice(a entity.Amount) string {
	if !a.Valid {
		return NotAvailable
	}
	return withDollar(groupThousands(a.Decimal.StringFixed(6)))
}

func withDollar(s string) string {
	if strings.HasPrefix(s, "-") {
		return "-$" + s[1:]
	}
	return "$" + s
}

// groupThousands inserts commas into the integer part of a fixed-point string.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	b.Grow(len(s) + len(intPart)/3 + 1)
	b.WriteString(sign)
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
