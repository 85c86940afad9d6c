package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"pepu_portfolio_bot/internal/app/port"
	"pepu_portfolio_bot/internal/domain/entity"
	"pepu_portfolio_bot/internal/pkg/metrics"
	"pepu_portfolio_bot/internal/pkg/utils"
)

// Callback payloads attached to inline buttons.
const (
	CallbackCheckOther = "check_other"
	CallbackRefresh    = "refresh"
)

// User-facing texts.
const (
	WelcomeText = "Welcome to the PEPU Portfolio Bot!\n" +
		"Send a wallet address, or use /portfolio 0xYourWallet, to get started."
	HelpText = "Commands:\n" +
		"/portfolio 0xYourWallet - check a wallet\n" +
		"/portfolio - check your last wallet again\n" +
		"/start - show your last wallet or this introduction\n\n" +
		"You can also just send a wallet address."
	UsageText            = "Please provide a wallet address like this:\n/portfolio 0xYourWallet"
	MalformedAddressText = "Invalid wallet address. It should start with 0x and be 42 characters long."
	FetchFailedText      = "Failed to fetch portfolio data. Please try again later."
	NewWalletPromptText  = "Please send the new wallet address."
)

// Response is the ordered output of one user interaction.
type Response struct {
	Blocks []entity.MessageBlock
	// Wallet is the wallet whose portfolio was rendered; empty otherwise.
	Wallet string
	// Edit asks the transport to replace the message that triggered a
	// callback with the first block instead of sending a new one.
	Edit bool
	Err  error
}

// Rendered reports whether the response carries a portfolio.
func (r Response) Rendered() bool {
	return r.Wallet != "" && r.Err == nil
}

// BotService implements the chat-facing behaviour: command dispatch, address
// validation, per-user wallet state, and fetch-then-render.
type BotService struct {
	fetcher   port.PortfolioFetcher
	renderer  port.PortfolioRenderer
	wallets   port.WalletStore
	metrics   port.Metrics
	logger    port.Logger
	promo     *PromotionCounter
	promoText string
}

// Option configures a BotService.
type Option func(*BotService)

// WithPromotion appends text as a plain block whenever counter fires.
func WithPromotion(counter *PromotionCounter, text string) Option {
	return func(s *BotService) {
		if counter != nil && strings.TrimSpace(text) != "" {
			s.promo = counter
			s.promoText = text
		}
	}
}

// WithMetrics records request outcomes.
func WithMetrics(m port.Metrics) Option {
	return func(s *BotService) { s.metrics = m }
}

// NewBotService wires the service.
func NewBotService(
	fetcher port.PortfolioFetcher,
	renderer port.PortfolioRenderer,
	wallets port.WalletStore,
	logger port.Logger,
	opts ...Option,
) *BotService {
	s := &BotService{
		fetcher:  fetcher,
		renderer: renderer,
		wallets:  wallets,
		logger:   logger,
		metrics:  nopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WalletState reports the state of userID's wallet record.
func (s *BotService) WalletState(userID int64) entity.WalletState {
	if _, ok := s.wallets.LastWallet(userID); ok {
		return entity.WalletOnRecord
	}
	return entity.NoWalletOnRecord
}

// HandleMessage dispatches a text message: a command, or a bare address.
func (s *BotService) HandleMessage(ctx context.Context, userID int64, text string) Response {
	cmd, arg, isCommand := ParseCommand(text)
	if !isCommand {
		return s.CheckWallet(ctx, userID, text)
	}

	switch cmd {
	case "start":
		if _, ok := s.wallets.LastWallet(userID); ok {
			return s.Recheck(ctx, userID)
		}
		return reply(entity.PlainBlock(WelcomeText))
	case "portfolio", "check", "wallet":
		if arg == "" {
			if _, ok := s.wallets.LastWallet(userID); !ok {
				s.metrics.ObserveRequest(metrics.OutcomeNoWallet)
				return reply(entity.PlainBlock(UsageText))
			}
			return s.Recheck(ctx, userID)
		}
		return s.CheckWallet(ctx, userID, arg)
	default:
		return reply(entity.PlainBlock(HelpText))
	}
}

// HandleCallback handles an inline button press.
func (s *BotService) HandleCallback(ctx context.Context, userID int64, data string) Response {
	switch data {
	case CallbackCheckOther:
		resp := reply(entity.PlainBlock(NewWalletPromptText))
		resp.Edit = true
		return resp
	case CallbackRefresh:
		if _, ok := s.wallets.LastWallet(userID); !ok {
			return reply(entity.PlainBlock(UsageText))
		}
		return s.Recheck(ctx, userID)
	default:
		s.logger.Debug("Ignoring unknown callback", "user_id", userID, "data", data)
		return Response{}
	}
}

// CheckWallet validates candidate, records it for userID and renders its
// portfolio. A malformed address makes no upstream call and leaves the
// stored wallet untouched.
func (s *BotService) CheckWallet(ctx context.Context, userID int64, candidate string) Response {
	wallet, err := utils.ValidateWalletAddress(candidate)
	if err != nil {
		s.metrics.ObserveRequest(metrics.OutcomeMalformedAddress)
		s.logger.Debug("Rejected wallet address", "user_id", userID, "code", entity.CodeMalformedAddress)
		return Response{Blocks: []entity.MessageBlock{entity.PlainBlock(MalformedAddressText)}, Err: err}
	}

	s.wallets.SetLastWallet(userID, wallet)
	return s.renderPortfolio(ctx, wallet, true)
}

// Recheck renders the portfolio of userID's wallet on record.
func (s *BotService) Recheck(ctx context.Context, userID int64) Response {
	wallet, ok := s.wallets.LastWallet(userID)
	if !ok {
		s.metrics.ObserveRequest(metrics.OutcomeNoWallet)
		return reply(entity.PlainBlock(UsageText))
	}
	return s.renderPortfolio(ctx, wallet, true)
}

// Preview renders a wallet without touching user state or the promotion
// counter.
func (s *BotService) Preview(ctx context.Context, candidate string) Response {
	wallet, err := utils.ValidateWalletAddress(candidate)
	if err != nil {
		return Response{Blocks: []entity.MessageBlock{entity.PlainBlock(MalformedAddressText)}, Err: err}
	}
	return s.renderPortfolio(ctx, wallet, false)
}

func (s *BotService) renderPortfolio(ctx context.Context, wallet string, countPromotion bool) Response {
	start := time.Now()
	doc, err := s.fetcher.FetchPortfolio(ctx, wallet)
	s.metrics.ObserveFetch(time.Since(start), err)

	if err != nil {
		var fetchErr *entity.FetchError
		switch {
		case errors.As(err, &fetchErr):
			s.logger.Error("Portfolio fetch failed",
				"wallet", wallet, "code", fetchErr.Code, "status", fetchErr.StatusCode, "error", fetchErr.Cause)
		default:
			s.logger.Error("Portfolio fetch failed", "wallet", wallet, "code", entity.CodeUpstreamUnavailable, "error", err)
		}
		s.metrics.ObserveRequest(metrics.OutcomeUpstreamError)
		return Response{Blocks: []entity.MessageBlock{entity.PlainBlock(FetchFailedText)}, Err: err}
	}

	blocks := s.renderer.Render(wallet, doc)
	if countPromotion && s.promo != nil && s.promo.Tick() {
		blocks = append(blocks, entity.RichBlock(s.promoText, false))
	}

	s.metrics.ObserveRequest(metrics.OutcomeRendered)
	s.metrics.ObserveBlocks(len(blocks))
	s.logger.Info("Portfolio rendered", "wallet", wallet, "blocks", len(blocks))
	return Response{Blocks: blocks, Wallet: wallet}
}

func reply(blocks ...entity.MessageBlock) Response {
	return Response{Blocks: blocks}
}

// ParseCommand splits "/cmd@bot arg ..." into the lower-cased command name
// and the first argument. Text not starting with "/" is not a command.
func ParseCommand(text string) (cmd, arg string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	fields := strings.Fields(text[1:])
	if len(fields) == 0 {
		return "", "", true
	}
	cmd, _, _ = strings.Cut(fields[0], "@")
	if len(fields) > 1 {
		arg = fields[1]
	}
	return strings.ToLower(cmd), arg, true
}

type nopMetrics struct{}

func (nopMetrics) ObserveRequest(string) {}
func (nopMetrics) ObserveFetch(time.Duration, error) {}
func (nopMetrics) ObserveBlocks(int) {}
