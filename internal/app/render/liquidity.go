package render

import (
	"fmt"
	"html"
	"strings"

	"pepu_portfolio_bot/internal/domain/entity"
)

const (
	liquidityHeader = "<b>Liquidity Positions:</b>"
	unknownSymbol   = "?"
	nameSeparator   = " - "
)

// ParsePairSymbols extracts the two token symbols from a pool name such as
// "PEPU LP - 123 - PEPU/WETH - v2". Only segments after the first separator
// are considered. A side that cannot be parsed is "?".
func ParsePairSymbols(name string) (string, string) {
	segments := strings.Split(name, nameSeparator)
	for _, segment := range segments[1:] {
		left, right, ok := strings.Cut(segment, "/")
		if !ok {
			continue
		}
		return orUnknown(left), orUnknown(right)
	}
	return unknownSymbol, unknownSymbol
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return unknownSymbol
	}
	return s
}

// PairSymbols prefers explicit symbols and falls back to the parsed name.
func PairSymbols(lp entity.LiquidityPosition) (string, string) {
	s0, s1 := ParsePairSymbols(lp.Name)
	if v := strings.TrimSpace(lp.Token0Symbol); v != "" {
		s0 = v
	}
	if v := strings.TrimSpace(lp.Token1Symbol); v != "" {
		s1 = v
	}
	return s0, s1
}

// LegTotal sums the USD value of both legs. It is invalid only when neither
// leg has a value.
func LegTotal(lp entity.LiquidityPosition) entity.Amount {
	if !lp.Token0USD.Valid && !lp.Token1USD.Valid {
		return entity.Amount{}
	}
	return entity.NewAmount(lp.Token0USD.OrZero().Add(lp.Token1USD.OrZero()))
}

// RenderLiquidity renders all pool positions into one block and appends the
// footer, as the liquidity block always closes the portfolio.
func (r *Renderer) RenderLiquidity(positions []entity.LiquidityPosition) entity.MessageBlock {
	entries := make([]string, 0, len(positions)+1)
	entries = append(entries, liquidityHeader)
	for _, lp := range positions {
		entries = append(entries, renderPosition(lp))
	}
	return entity.RichBlock(r.withFooter(strings.Join(entries, "\n\n")), true)
}

func renderPosition(lp entity.LiquidityPosition) string {
	s0, s1 := PairSymbols(lp)
	name := strings.TrimSpace(lp.Name)
	if name == "" {
		name = s0 + "/" + s1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>%s</b>\n", html.EscapeString(name)))
	sb.WriteString(fmt.Sprintf("%s: %s\n", html.EscapeString(s0), FormatAmount(lp.Token0Amount)))
	sb.WriteString(fmt.Sprintf("%s: %s\n", html.EscapeString(s1), FormatAmount(lp.Token1Amount)))
	sb.WriteString(fmt.Sprintf("Total: %s", FormatUSD(LegTotal(lp))))
	writeWarning(&sb, lp.Warning)
	return sb.String()
}
