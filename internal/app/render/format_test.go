package render

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pepu_portfolio_bot/internal/domain/entity"
)

func amt(s string) entity.Amount {
	return entity.NewAmount(decimal.RequireFromString(s))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.0000"},
		{"0.12345", "0.1235"},
		{"999", "999.0000"},
		{"999.5", "999.5000"},
		{"1000", "1.00K"},
		{"1500", "1.50K"},
		{"999999", "1000.00K"},
		{"1000000", "1.00M"},
		{"1500000", "1.50M"},
		{"123456789", "123.46M"},
		{"1000000000", "1.00B"},
		{"2500000000000", "2500.00B"},
		{"-5", "-5.0000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(amt(tt.in)))
		})
	}

	assert.Equal(t, NotAvailable, FormatAmount(entity.Amount{}))
}

func TestFormatAmount_Suffixes(t *testing.T) {
	for _, s := range []string{"1000000000", "5000000000.5", "999999999999"} {
		assert.True(t, strings.HasSuffix(FormatAmount(amt(s)), "B"), s)
	}
	for _, s := range []string{"1000000", "999999999"} {
		assert.True(t, strings.HasSuffix(FormatAmount(amt(s)), "M"), s)
	}
	for _, s := range []string{"1000", "999999.99"} {
		assert.True(t, strings.HasSuffix(FormatAmount(amt(s)), "K"), s)
	}
	for _, s := range []string{"0.1", "12.3", "999.9999"} {
		out := FormatAmount(amt(s))
		_, frac, ok := strings.Cut(out, ".")
		require.True(t, ok, out)
		assert.Len(t, frac, 4, out)
	}
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$0.00", FormatUSD(amt("0")))
	assert.Equal(t, "$12.35", FormatUSD(amt("12.345")))
	assert.Equal(t, "$999.99", FormatUSD(amt("999.99")))
	assert.Equal(t, "$1,000.00", FormatUSD(amt("1000")))
	assert.Equal(t, "$1,234,567.89", FormatUSD(amt("1234567.891")))
	assert.Equal(t, "-$1,234.50", FormatUSD(amt("-1234.5")))
	assert.Equal(t, NotAvailable, FormatUSD(entity.Amount{}))
}

func TestFormatUSD_RoundTrip(t *testing.T) {
	tolerance := decimal.RequireFromString("0.005")
	for _, s := range []string{"0", "0.004", "1.005", "42", "1234.5678", "98765432.109", "1000000000.999"} {
		in := decimal.RequireFromString(s)
		out := FormatUSD(entity.NewAmount(in))
		stripped := strings.NewReplacer("$", "", ",", "").Replace(out)
		back, err := decimal.NewFromString(stripped)
		require.NoError(t, err, out)
		assert.True(t, back.Sub(in).Abs().LessThanOrEqual(tolerance), "%s -> %s", s, out)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$0.000012", FormatPrice(amt("0.0000123")))
	assert.Equal(t, "$0.100000", FormatPrice(amt("0.1")))
	assert.Equal(t, "$1,234.500000", FormatPrice(amt("1234.5")))
	assert.Equal(t, NotAvailable, FormatPrice(entity.Amount{}))
}
