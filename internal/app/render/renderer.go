package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"pepu_portfolio_bot/internal/domain/entity"
)

const (
	DefaultPageSize      = 20
	DefaultNativeSymbol  = "PEPU"
	DefaultMarketDataURL = "https://dexscreener.com/pepeunchained"
)

// DefaultNoiseThreshold is the minimum total value of a displayed holding.
var DefaultNoiseThreshold = decimal.RequireFromString("0.01")

// Options controls rendering.
type Options struct {
	PageSize       int
	NoiseThreshold decimal.Decimal
	NativeSymbol   string
	MarketDataURL  string
	// Footer is appended to the final block of a portfolio. Empty disables it.
	Footer string
}

// Renderer turns portfolio documents into message blocks. It holds no
// mutable state and is safe for concurrent use.
type Renderer struct {
	opts Options
}

// NewRenderer creates a Renderer, filling unset options with defaults.
func NewRenderer(opts Options) *Renderer {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.NativeSymbol == "" {
		opts.NativeSymbol = DefaultNativeSymbol
	}
	if opts.MarketDataURL == "" {
		opts.MarketDataURL = DefaultMarketDataURL
	}
	opts.MarketDataURL = strings.TrimRight(opts.MarketDataURL, "/")
	return &Renderer{opts: opts}
}

// Options returns the effective options.
func (r *Renderer) Options() Options {
	return r.opts
}

// Render produces the ordered blocks for a portfolio: summary, token pages,
// then the liquidity block when the wallet has pool positions.
func (r *Renderer) Render(wallet string, doc *entity.PortfolioDocument) []entity.MessageBlock {
	if doc == nil {
		doc = &entity.PortfolioDocument{}
	}
	hasLiquidity := len(doc.LiquidityPools) > 0

	blocks := []entity.MessageBlock{r.RenderSummary(wallet, doc)}
	blocks = append(blocks, r.RenderTokenPages(doc.Tokens, !hasLiquidity)...)
	if hasLiquidity {
		blocks = append(blocks, r.RenderLiquidity(doc.LiquidityPools))
	}
	return blocks
}

// RenderSummary renders the total value and the three fixed positions.
func (r *Renderer) RenderSummary(wallet string, doc *entity.PortfolioDocument) entity.MessageBlock {
	var sb strings.Builder
	if wallet != "" {
		sb.WriteString(fmt.Sprintf("<b>Wallet:</b> <code>%s</code>\n", html.EscapeString(wallet)))
	}
	sb.WriteString(fmt.Sprintf("<b>Total Portfolio Value:</b> %s\n", FormatUSD(doc.TotalValueUSD)))

	symbol := html.EscapeString(r.opts.NativeSymbol)
	writePosition(&sb, "Wallet "+symbol, doc.NativeBalance)
	writePosition(&sb, "Staked "+symbol, doc.StakedBalance)
	writePosition(&sb, "Unclaimed Rewards", doc.UnclaimedRewards)

	return entity.RichBlock(strings.TrimRight(sb.String(), "\n"), false)
}

func writePosition(sb *strings.Builder, label string, p entity.Position) {
	sb.WriteString(fmt.Sprintf("\n<b>%s</b>\n", label))
	sb.WriteString(fmt.Sprintf("Amount: %s\n", FormatAmount(p.Amount)))
	sb.WriteString(fmt.Sprintf("Price: %s\n", FormatPrice(p.PriceUSD)))
	sb.WriteString(fmt.Sprintf("Total: %s\n", FormatUSD(p.TotalUSD)))
}

func (r *Renderer) withFooter(text string) string {
	if r.opts.Footer == "" {
		return text
	}
	return text + "\n\n" + r.opts.Footer
}
