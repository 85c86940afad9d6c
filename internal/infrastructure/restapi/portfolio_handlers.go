package restapi

import (
	"context"
	"errors"
	"net/http"

	"pepu_portfolio_bot/internal/app/service"
	"pepu_portfolio_bot/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// Previewer renders a wallet without touching per-user state.
type Previewer interface {
	Preview(ctx context.Context, wallet string) service.Response
}

// APIRenderResponse is the body of the render preview endpoint.
type APIRenderResponse struct {
	Wallet        string                `json:"wallet,omitempty"`
	Blocks        []entity.MessageBlock `json:"blocks"`
	ErrorCode     entity.ErrorCode      `json:"error_code,omitempty"`
	StatusMessage string                `json:"status_message"`
}

// PortfolioHandler serves portfolio render previews.
type PortfolioHandler struct {
	previewer Previewer
}

// NewPortfolioHandler creates a PortfolioHandler.
func NewPortfolioHandler(p Previewer) *PortfolioHandler {
	return &PortfolioHandler{previewer: p}
}

// GetRenderHandler returns the message blocks the bot would send for a wallet.
func (h *PortfolioHandler) GetRenderHandler(c *gin.Context) {
	resp := h.previewer.Preview(c.Request.Context(), c.Param("wallet"))

	body := APIRenderResponse{Wallet: resp.Wallet, Blocks: resp.Blocks}
	if body.Blocks == nil {
		body.Blocks = []entity.MessageBlock{}
	}

	switch {
	case resp.Err == nil:
		body.StatusMessage = "Portfolio rendered successfully."
		c.JSON(http.StatusOK, body)
	case errors.Is(resp.Err, entity.ErrMalformedAddress):
		body.ErrorCode = entity.CodeMalformedAddress
		body.StatusMessage = "Invalid wallet address."
		c.JSON(http.StatusBadRequest, body)
	default:
		body.ErrorCode = entity.CodeUpstreamUnavailable
		body.StatusMessage = "Portfolio API unavailable."
		c.JSON(http.StatusBadGateway, body)
	}
}
