package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pepu_portfolio_bot/internal/app/service"
	"pepu_portfolio_bot/internal/domain/entity"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sendErr  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.sendErr
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeHandler struct {
	resp      service.Response
	gotUser   int64
	gotText   string
	callbacks []string
}

func (h *fakeHandler) HandleMessage(_ context.Context, userID int64, text string) service.Response {
	h.gotUser, h.gotText = userID, text
	return h.resp
}

func (h *fakeHandler) HandleCallback(_ context.Context, userID int64, data string) service.Response {
	h.gotUser = userID
	h.callbacks = append(h.callbacks, data)
	return h.resp
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

const wallet = "0x1234567890abcdef1234567890abcdef12345678"

func textUpdate(chatID, userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: chatID},
		From:      &tgbotapi.User{ID: userID},
		Text:      text,
	}}
}

func TestHandleUpdate_RenderedPortfolio(t *testing.T) {
	sender := &fakeSender{}
	handler := &fakeHandler{resp: service.Response{
		Wallet: wallet,
		Blocks: []entity.MessageBlock{
			entity.RichBlock("<b>Wallet:</b>", false),
			entity.RichBlock("<b>Other Tokens:</b>", true),
		},
	}}
	bot := NewBot(sender, handler, nopLogger{}, 2)

	bot.HandleUpdate(context.Background(), textUpdate(10, 42, wallet))

	assert.Equal(t, int64(42), handler.gotUser)
	assert.Equal(t, wallet, handler.gotText)

	require.Len(t, sender.requests, 1)
	action, ok := sender.requests[0].(tgbotapi.ChatActionConfig)
	require.True(t, ok)
	assert.Equal(t, tgbotapi.ChatTyping, action.Action)

	require.Len(t, sender.sent, 2)
	first := sender.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, int64(10), first.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, first.ParseMode)
	assert.False(t, first.DisableWebPagePreview)
	assert.Nil(t, first.ReplyMarkup)

	last := sender.sent[1].(tgbotapi.MessageConfig)
	assert.True(t, last.DisableWebPagePreview)
	kb, ok := last.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 1)
	require.Len(t, kb.InlineKeyboard[0], 2)
	assert.Equal(t, service.CallbackRefresh, *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, service.CallbackCheckOther, *kb.InlineKeyboard[0][1].CallbackData)
}

func TestHandleUpdate_PlainErrorHasNoKeyboard(t *testing.T) {
	sender := &fakeSender{}
	handler := &fakeHandler{resp: service.Response{
		Blocks: []entity.MessageBlock{entity.PlainBlock(service.MalformedAddressText)},
		Err:    entity.ErrMalformedAddress,
	}}
	bot := NewBot(sender, handler, nopLogger{}, 1)

	bot.HandleUpdate(context.Background(), textUpdate(10, 42, "0x123"))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, service.MalformedAddressText, msg.Text)
	assert.Empty(t, msg.ParseMode)
	assert.Nil(t, msg.ReplyMarkup)
}

func TestHandleUpdate_CallbackEditsMessage(t *testing.T) {
	sender := &fakeSender{}
	resp := service.Response{Blocks: []entity.MessageBlock{entity.PlainBlock(service.NewWalletPromptText)}, Edit: true}
	handler := &fakeHandler{resp: resp}
	bot := NewBot(sender, handler, nopLogger{}, 1)

	bot.HandleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    &tgbotapi.User{ID: 7},
		Data:    service.CallbackCheckOther,
		Message: &tgbotapi.Message{MessageID: 99, Chat: &tgbotapi.Chat{ID: 5}},
	}})

	assert.Equal(t, []string{service.CallbackCheckOther}, handler.callbacks)
	assert.Equal(t, int64(7), handler.gotUser)

	require.Len(t, sender.requests, 1)
	answer, ok := sender.requests[0].(tgbotapi.CallbackConfig)
	require.True(t, ok)
	assert.Equal(t, "cb-1", answer.CallbackQueryID)

	require.Len(t, sender.sent, 1)
	edit, ok := sender.sent[0].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, int64(5), edit.ChatID)
	assert.Equal(t, 99, edit.MessageID)
	assert.Equal(t, service.NewWalletPromptText, edit.Text)
}

func TestDeliver_StopsWhenBlocked(t *testing.T) {
	sender := &fakeSender{sendErr: &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}}
	handler := &fakeHandler{resp: service.Response{
		Wallet: wallet,
		Blocks: []entity.MessageBlock{entity.RichBlock("a", false), entity.RichBlock("b", true)},
	}}
	bot := NewBot(sender, handler, nopLogger{}, 1)

	bot.HandleUpdate(context.Background(), textUpdate(1, 1, wallet))
	assert.Equal(t, 1, sender.sentCount())

	sender.sendErr = errors.New("temporary")
	sender.sent = nil
	bot.HandleUpdate(context.Background(), textUpdate(1, 1, wallet))
	assert.Equal(t, 2, sender.sentCount())
}

func TestRun_DrainsUntilClosed(t *testing.T) {
	sender := &fakeSender{}
	handler := &fakeHandler{resp: service.Response{Blocks: []entity.MessageBlock{entity.PlainBlock(service.HelpText)}}}
	bot := NewBot(sender, handler, nopLogger{}, 1)

	updates := make(chan tgbotapi.Update, 3)
	for i := 0; i < 3; i++ {
		updates <- textUpdate(1, 1, "/help")
	}
	close(updates)

	done := make(chan error, 1)
	go func() { done <- bot.Run(context.Background(), updates) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the update channel closed")
	}
	assert.Equal(t, 3, sender.sentCount())
}

func TestRun_StopsOnCancel(t *testing.T) {
	bot := NewBot(&fakeSender{}, &fakeHandler{}, nopLogger{}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, bot.Run(ctx, make(chan tgbotapi.Update)))
}
