package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeWarning(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "no tags", in: "Error fetching price data", want: "Error fetching price data"},
		{name: "font with attributes", in: `<font color="red">Low liquidity</font>`, want: "Low liquidity"},
		{name: "uppercase font", in: `<FONT size='2'>Honeypot</FONT> risk`, want: "Honeypot risk"},
		{name: "bare font", in: "<font>x</font>", want: "x"},
		{name: "allowed markup kept", in: `<b>bold</b> <i>it</i> <a href="https://x">l</a>`, want: `<b>bold</b> <i>it</i> <a href="https://x">l</a>`},
		{name: "mixed", in: `<b><font color="#f00">Price</font></b> stale`, want: "<b>Price</b> stale"},
		{name: "fontsize word untouched", in: "<fontsize>", want: "<fontsize>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeWarning(tt.in))
		})
	}
}
