package telegram

import (
	"context"
	"errors"
	"sync"

	"pepu_portfolio_bot/internal/app/port"
	"pepu_portfolio_bot/internal/app/service"
	"pepu_portfolio_bot/internal/domain/entity"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/semaphore"
)

const (
	refreshButtonText    = "🔄 Refresh"
	checkOtherButtonText = "Check another wallet"
)

// Sender is the subset of *tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Handler turns user input into ordered message blocks.
type Handler interface {
	HandleMessage(ctx context.Context, userID int64, text string) service.Response
	HandleCallback(ctx context.Context, userID int64, data string) service.Response
}

// Bot consumes Telegram updates and delivers the handler's responses.
type Bot struct {
	sender  Sender
	handler Handler
	logger  port.Logger
	workers *semaphore.Weighted
}

// NewBot creates a Bot that handles at most workerCount updates at once.
func NewBot(sender Sender, handler Handler, logger port.Logger, workerCount int) *Bot {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &Bot{
		sender:  sender,
		handler: handler,
		logger:  logger,
		workers: semaphore.NewWeighted(int64(workerCount)),
	}
}

// Run handles updates until ctx is cancelled or the channel is closed, then
// waits for in-flight updates to finish.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.workers.Acquire(ctx, 1); err != nil {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer b.workers.Release(1)
				b.HandleUpdate(ctx, update)
			}()
		}
	}
}

// HandleUpdate processes a single update synchronously.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.Text != "":
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := chatID
	if msg.From != nil {
		userID = msg.From.ID
	}

	b.sendTyping(chatID)
	resp := b.handler.HandleMessage(ctx, userID, msg.Text)
	b.deliver(chatID, 0, resp)
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if _, err := b.sender.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.logger.Warn("Failed to answer callback query", "callback_id", cq.ID, "error", err)
	}
	if cq.Message == nil || cq.From == nil {
		return
	}

	chatID := cq.Message.Chat.ID
	if cq.Data == service.CallbackRefresh {
		b.sendTyping(chatID)
	}
	resp := b.handler.HandleCallback(ctx, cq.From.ID, cq.Data)

	editID := 0
	if resp.Edit {
		editID = cq.Message.MessageID
	}
	b.deliver(chatID, editID, resp)
}

// deliver sends blocks in order. When editID is set the first block replaces
// that message. The last block of a rendered portfolio carries the keyboard.
func (b *Bot) deliver(chatID int64, editID int, resp service.Response) {
	for i, block := range resp.Blocks {
		var keyboard *tgbotapi.InlineKeyboardMarkup
		if i == len(resp.Blocks)-1 && resp.Rendered() {
			kb := portfolioKeyboard()
			keyboard = &kb
		}

		var c tgbotapi.Chattable
		if i == 0 && editID != 0 {
			c = editMessage(chatID, editID, block, keyboard)
		} else {
			c = newMessage(chatID, block, keyboard)
		}

		if _, err := b.sender.Send(c); err != nil {
			b.logger.Error("Failed to send message block",
				"chat_id", chatID, "block", i+1, "of", len(resp.Blocks), "error", err)
			var tgErr *tgbotapi.Error
			if errors.As(err, &tgErr) && tgErr.Code == 403 {
				return
			}
		}
	}
}

func (b *Bot) sendTyping(chatID int64) {
	if _, err := b.sender.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.logger.Debug("Failed to send chat action", "chat_id", chatID, "error", err)
	}
}

func newMessage(chatID int64, block entity.MessageBlock, keyboard *tgbotapi.InlineKeyboardMarkup) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, block.Text)
	msg.ParseMode = parseMode(block.Dialect)
	msg.DisableWebPagePreview = block.SuppressLinkPreview
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	return msg
}

func editMessage(chatID int64, messageID int, block entity.MessageBlock, keyboard *tgbotapi.InlineKeyboardMarkup) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, block.Text)
	edit.ParseMode = parseMode(block.Dialect)
	edit.DisableWebPagePreview = block.SuppressLinkPreview
	edit.ReplyMarkup = keyboard
	return edit
}

func parseMode(d entity.MarkupDialect) string {
	if d == entity.DialectRich {
		return tgbotapi.ModeHTML
	}
	return ""
}

func portfolioKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(refreshButtonText, service.CallbackRefresh),
			tgbotapi.NewInlineKeyboardButtonData(checkOtherButtonText, service.CallbackCheckOther),
		),
	)
}
