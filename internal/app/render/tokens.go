package render

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"pepu_portfolio_bot/internal/domain/entity"
	"pepu_portfolio_bot/internal/pkg/utils"
)

const (
	tokensHeader   = "<b>Other Tokens:</b>"
	noHoldingsText = "<i>No significant token holdings found.</i>"
	warningGlyph   = "⚠️"
)

var minHoldingAmount = decimal.NewFromInt(1)

// IsEligible reports whether a holding is worth displaying: at least one
// whole token, and either a total value at or above the noise threshold or
// an upstream warning (typically a failed price lookup).
func IsEligible(h entity.TokenHolding, noiseThreshold decimal.Decimal) bool {
	if !h.Amount.Valid || h.Amount.Decimal.LessThan(minHoldingAmount) {
		return false
	}
	if h.TotalUSD.OrZero().GreaterThanOrEqual(noiseThreshold) {
		return true
	}
	return strings.TrimSpace(SanitizeWarning(h.Warning)) != ""
}

// EligibleHoldings filters holdings and orders them by total value
// descending. Ties keep input order.
func EligibleHoldings(holdings []entity.TokenHolding, noiseThreshold decimal.Decimal) []entity.TokenHolding {
	eligible := make([]entity.TokenHolding, 0, len(holdings))
	for _, h := range holdings {
		if IsEligible(h, noiseThreshold) {
			eligible = append(eligible, h)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].TotalUSD.OrZero().GreaterThan(eligible[j].TotalUSD.OrZero())
	})
	return eligible
}

// RenderTokenPages renders eligible holdings in pages of Options.PageSize.
// Only the first page carries the section header. When final is set the
// footer is appended to the last page.
func (r *Renderer) RenderTokenPages(holdings []entity.TokenHolding, final bool) []entity.MessageBlock {
	eligible := EligibleHoldings(holdings, r.opts.NoiseThreshold)
	if len(eligible) == 0 {
		text := tokensHeader + "\n" + noHoldingsText
		if final {
			text = r.withFooter(text)
		}
		return []entity.MessageBlock{entity.RichBlock(text, true)}
	}

	pages := utils.Batch(eligible, r.opts.PageSize)
	blocks := make([]entity.MessageBlock, 0, len(pages))
	index := 0
	for p, page := range pages {
		entries := make([]string, 0, len(page)+1)
		if p == 0 {
			entries = append(entries, tokensHeader)
		}
		for _, h := range page {
			index++
			entries = append(entries, r.renderHolding(index, h))
		}
		text := strings.Join(entries, "\n\n")
		if final && p == len(pages)-1 {
			text = r.withFooter(text)
		}
		blocks = append(blocks, entity.RichBlock(text, true))
	}
	return blocks
}

func (r *Renderer) renderHolding(index int, h entity.TokenHolding) string {
	var sb strings.Builder
	title := html.EscapeString(h.Name)
	if h.Symbol != "" {
		title += " (" + html.EscapeString(h.Symbol) + ")"
	}
	if link := r.marketDataLink(h.Contract); link != "" {
		title = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(link), title)
	}
	sb.WriteString(fmt.Sprintf("%d. <b>%s</b>\n", index, title))
	sb.WriteString(fmt.Sprintf("Amount: %s\n", FormatAmount(h.Amount)))
	sb.WriteString(fmt.Sprintf("Price: %s\n", FormatPrice(h.PriceUSD)))
	sb.WriteString(fmt.Sprintf("Value: %s", FormatUSD(h.TotalUSD)))
	writeWarning(&sb, h.Warning)
	return sb.String()
}

func (r *Renderer) marketDataLink(contract string) string {
	contract = strings.TrimSpace(contract)
	if contract == "" {
		return ""
	}
	if common.IsHexAddress(contract) {
		contract = common.HexToAddress(contract).Hex()
	}
	return r.opts.MarketDataURL + "/" + contract
}

func writeWarning(sb *strings.Builder, warning string) {
	w := strings.TrimSpace(SanitizeWarning(warning))
	if w == "" {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s <i>%s</i>", warningGlyph, w))
}
