package port

import (
	"context"

	"pepu_portfolio_bot/internal/domain/entity"
)

// PortfolioFetcher retrieves the precomputed valuation for a wallet.
// Failures are reported as *entity.FetchError.
type PortfolioFetcher interface {
	FetchPortfolio(ctx context.Context, wallet string) (*entity.PortfolioDocument, error)
}

// PortfolioRenderer turns a document into ordered message blocks.
type PortfolioRenderer interface {
	Render(wallet string, doc *entity.PortfolioDocument) []entity.MessageBlock
}
