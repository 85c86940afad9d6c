package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pepu_portfolio_bot/internal/app/port"
	"pepu_portfolio_bot/internal/domain/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = newPortfolioJSON()

const defaultWalletParam = "wallet"

// portfolioClientImpl fetches portfolio documents from the valuation API.
type portfolioClientImpl struct {
	client      *fasthttp.Client
	baseURL     string
	walletParam string
	timeout     time.Duration
	logger      *zap.Logger
}

// NewPortfolioClient creates a client issuing one GET per request against
// baseURL with the wallet passed as the walletParam query parameter.
func NewPortfolioClient(baseURL, walletParam string, timeout time.Duration, logger *zap.Logger) port.PortfolioFetcher {
	if walletParam == "" {
		walletParam = defaultWalletParam
	}
	return &portfolioClientImpl{
		client:      &fasthttp.Client{Name: "pepu-portfolio-bot"},
		baseURL:     strings.TrimRight(baseURL, "/"),
		walletParam: walletParam,
		timeout:     timeout,
		logger:      logger.Named("PortfolioClient"),
	}
}

// FetchPortfolio implements port.PortfolioFetcher. It never retries.
func (c *portfolioClientImpl) FetchPortfolio(ctx context.Context, wallet string) (*entity.PortfolioDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, c.fail(wallet, 0, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.baseURL)
	req.URI().QueryArgs().Set(c.walletParam, wallet)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	requestURL := req.URI().String()
	c.logger.Debug("Requesting portfolio", zap.String("url", requestURL))

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		c.logger.Error("Failed to execute portfolio request", zap.String("url", requestURL), zap.Error(err))
		return nil, c.fail(wallet, 0, fmt.Errorf("request %s: %w", requestURL, err))
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Portfolio API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", truncate(rawBody, 512)),
		)
		return nil, c.fail(wallet, resp.StatusCode(), fmt.Errorf("unexpected status from %s", requestURL))
	}

	var doc entity.PortfolioDocument
	if err := decodeDocument(rawBody, &doc); err != nil {
		c.logger.Error("Failed to unmarshal portfolio response",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", truncate(rawBody, 512)),
			zap.Error(err),
		)
		return nil, c.fail(wallet, 0, fmt.Errorf("decode response from %s: %w", requestURL, err))
	}

	c.logger.Debug("Portfolio fetched",
		zap.String("wallet", wallet),
		zap.Int("tokenCount", len(doc.Tokens)),
		zap.Int("lpCount", len(doc.LiquidityPools)))
	return &doc, nil
}

func (c *portfolioClientImpl) fail(wallet string, status int, cause error) error {
	return &entity.FetchError{
		Code:       entity.CodeUpstreamUnavailable,
		Wallet:     wallet,
		StatusCode: status,
		Cause:      cause,
	}
}

var errNotObject = errors.New("response is not a JSON object")

func decodeDocument(body []byte, doc *entity.PortfolioDocument) error {
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || trimmed[0] != '{' {
		return errNotObject
	}
	return json.Unmarshal(body, doc)
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
