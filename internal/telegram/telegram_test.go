package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/chartbot/internal/bot"
	"github.com/vadiminshakov/chartbot/internal/clients"
	"go.uber.org/zap"
)

func TestToEvent(t *testing.T) {
	tests := []struct {
		name     string
		update   clients.Update
		expected bot.Event
		ok       bool
	}{
		{
			name:     "text message",
			update:   clients.Update{UpdateID: 1, Message: &clients.Message{MessageID: 7, Chat: clients.Chat{ID: 42}, Text: "/start"}},
			expected: bot.Event{ChatID: 42, MessageID: 7, Text: "/start"},
			ok:       true,
		},
		{
			name:   "message without text",
			update: clients.Update{UpdateID: 2, Message: &clients.Message{MessageID: 8, Chat: clients.Chat{ID: 42}}},
			ok:     false,
		},
		{
			name: "successful payment",
			update: clients.Update{UpdateID: 3, Message: &clients.Message{
				MessageID: 9,
				Chat:      clients.Chat{ID: 42},
				SuccessfulPayment: &clients.SuccessfulPayment{
					Currency:                "XTR",
					TotalAmount:             10,
					InvoicePayload:          "donate_10_stars",
					TelegramPaymentChargeID: "charge",
				},
			}},
			expected: bot.Event{ChatID: 42, MessageID: 9, Payment: &bot.Payment{
				Currency: "XTR", TotalAmount: 10, Payload: "donate_10_stars", ChargeID: "charge",
			}},
			ok: true,
		},
		{
			name: "callback with message",
			update: clients.Update{UpdateID: 4, CallbackQuery: &clients.CallbackQuery{
				ID: "cb", From: clients.User{ID: 5}, Data: "coin_0",
				Message: &clients.Message{MessageID: 11, Chat: clients.Chat{ID: 42}},
			}},
			expected: bot.Event{ChatID: 42, MessageID: 11, CallbackID: "cb", Data: "coin_0"},
			ok:       true,
		},
		{
			name:     "callback without message",
			update:   clients.Update{UpdateID: 5, CallbackQuery: &clients.CallbackQuery{ID: "cb", From: clients.User{ID: 5}, Data: "show_coins"}},
			expected: bot.Event{ChatID: 5, CallbackID: "cb", Data: "show_coins"},
			ok:       true,
		},
		{
			name: "pre-checkout",
			update: clients.Update{UpdateID: 6, PreCheckoutQuery: &clients.PreCheckoutQuery{
				ID: "pc", From: clients.User{ID: 5}, Currency: "XTR", TotalAmount: 25, InvoicePayload: "donate_25_stars",
			}},
			expected: bot.Event{ChatID: 5, PreCheckout: &bot.PreCheckout{ID: "pc", Currency: "XTR", TotalAmount: 25, Payload: "donate_25_stars"}},
			ok:       true,
		},
		{name: "empty update", update: clients.Update{UpdateID: 7}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := ToEvent(tt.update)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, ev)
			}
		})
	}
}

type recordingHandler struct {
	mu      sync.Mutex
	events  map[int64][]string
	active  map[int64]int
	overlap bool
	delay   time.Duration
}

func newRecordingHandler(delay time.Duration) *recordingHandler {
	return &recordingHandler{events: make(map[int64][]string), active: make(map[int64]int), delay: delay}
}

func (h *recordingHandler) Handle(_ context.Context, ev bot.Event) {
	h.mu.Lock()
	h.active[ev.ChatID]++
	if h.active[ev.ChatID] > 1 {
		h.overlap = true
	}
	h.mu.Unlock()

	time.Sleep(h.delay)

	h.mu.Lock()
	h.events[ev.ChatID] = append(h.events[ev.ChatID], ev.Text)
	h.active[ev.ChatID]--
	h.mu.Unlock()
}

func TestDispatcher_PerChatOrder(t *testing.T) {
	handler := newRecordingHandler(time.Millisecond)
	d := NewDispatcher(handler)

	texts := []string{"a", "b", "c", "d", "e"}
	for _, text := range texts {
		for chat := int64(1); chat <= 3; chat++ {
			d.Dispatch(context.Background(), bot.Event{ChatID: chat, Text: text})
		}
	}
	d.Wait()

	handler.mu.Lock()
	defer handler.mu.Unlock()
	assert.False(t, handler.overlap, "events of one chat must not run concurrently")
	for chat := int64(1); chat <= 3; chat++ {
		assert.Equal(t, texts, handler.events[chat])
	}
	assert.Zero(t, d.ActiveChats())
}

type blockingHandler struct {
	started chan int64
	release chan struct{}
}

func (h *blockingHandler) Handle(_ context.Context, ev bot.Event) {
	h.started <- ev.ChatID
	<-h.release
}

func TestDispatcher_ChatsRunConcurrently(t *testing.T) {
	handler := &blockingHandler{started: make(chan int64, 2), release: make(chan struct{})}
	d := NewDispatcher(handler)

	d.Dispatch(context.Background(), bot.Event{ChatID: 1})
	d.Dispatch(context.Background(), bot.Event{ChatID: 2})

	seen := map[int64]bool{}
	for range 2 {
		select {
		case chat := <-handler.started:
			seen[chat] = true
		case <-time.After(2 * time.Second):
			t.Fatal("second chat blocked behind the first")
		}
	}
	assert.Equal(t, map[int64]bool{1: true, 2: true}, seen)
	assert.Equal(t, 2, d.ActiveChats())

	close(handler.release)
	d.Wait()
}

type scriptedSource struct {
	mu      sync.Mutex
	batches [][]clients.Update
	errs    []error
	offsets []int64
	cancel  context.CancelFunc
}

func (s *scriptedSource) GetUpdates(_ context.Context, offset int64, _ time.Duration) ([]clients.Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offsets = append(s.offsets, offset)
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return nil, err
	}
	if len(s.batches) == 0 {
		s.cancel()
		return nil, nil
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

type collectingSink struct {
	mu     sync.Mutex
	events []bot.Event
}

func (c *collectingSink) Dispatch(_ context.Context, ev bot.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func TestPoller_Run(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &scriptedSource{
		cancel: cancel,
		errs:   []error{errors.New("connection reset")},
		batches: [][]clients.Update{
			{
				{UpdateID: 10, Message: &clients.Message{MessageID: 1, Chat: clients.Chat{ID: 1}, Text: "/start"}},
				{UpdateID: 11},
			},
			{
				{UpdateID: 12, CallbackQuery: &clients.CallbackQuery{ID: "cb", From: clients.User{ID: 1}, Data: "lang_fa"}},
			},
		},
	}
	sink := &collectingSink{}

	p := NewPoller(source, sink, zap.NewNop(), WithErrorBackoff(time.Millisecond), WithPollTimeout(time.Second))
	require.NoError(t, p.Run(ctx))

	assert.Equal(t, []int64{0, 0, 12, 13}, source.offsets)
	assert.Equal(t, int64(13), p.Offset())
	require.Len(t, sink.events, 2)
	assert.Equal(t, "/start", sink.events[0].Text)
	assert.Equal(t, "lang_fa", sink.events[1].Data)
}

type fakeBotAPI struct {
	messages  []clients.SendMessageParams
	edits     []clients.EditMessageTextParams
	photos    []clients.SendPhotoParams
	answers   []clients.AnswerCallbackQueryParams
	invoices  []clients.SendInvoiceParams
	checkouts []clients.AnswerPreCheckoutQueryParams
	deleted   []int64
	editErr   error
}

func (f *fakeBotAPI) SendMessage(_ context.Context, p clients.SendMessageParams) (clients.Message, error) {
	f.messages = append(f.messages, p)
	return clients.Message{MessageID: int64(100 + len(f.messages))}, nil
}

func (f *fakeBotAPI) EditMessageText(_ context.Context, p clients.EditMessageTextParams) (clients.Message, error) {
	f.edits = append(f.edits, p)
	return clients.Message{}, f.editErr
}

func (f *fakeBotAPI) SendPhoto(_ context.Context, p clients.SendPhotoParams) (clients.Message, error) {
	f.photos = append(f.photos, p)
	return clients.Message{}, nil
}

func (f *fakeBotAPI) AnswerCallbackQuery(_ context.Context, p clients.AnswerCallbackQueryParams) error {
	f.answers = append(f.answers, p)
	return nil
}

func (f *fakeBotAPI) SendInvoice(_ context.Context, p clients.SendInvoiceParams) (clients.Message, error) {
	f.invoices = append(f.invoices, p)
	return clients.Message{}, nil
}

func (f *fakeBotAPI) AnswerPreCheckoutQuery(_ context.Context, p clients.AnswerPreCheckoutQueryParams) error {
	f.checkouts = append(f.checkouts, p)
	return nil
}

func (f *fakeBotAPI) DeleteMessage(_ context.Context, _, messageID int64) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func TestMessenger(t *testing.T) {
	api := &fakeBotAPI{}
	m := NewMessenger(api)
	ctx := context.Background()

	id, err := m.SendMessage(ctx, bot.OutgoingMessage{
		ChatID: 1,
		Text:   "<b>hi</b>",
		HTML:   true,
		Keyboard: bot.Keyboard{
			{{Text: "Coins", Data: "show_coins"}, {Text: "Calendar", URL: "https://example.com"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(101), id)
	require.Len(t, api.messages, 1)
	assert.Equal(t, "HTML", api.messages[0].ParseMode)
	require.NotNil(t, api.messages[0].ReplyMarkup)
	assert.Equal(t, [][]clients.InlineKeyboardButton{{
		{Text: "Coins", CallbackData: "show_coins"},
		{Text: "Calendar", URL: "https://example.com"},
	}}, api.messages[0].ReplyMarkup.InlineKeyboard)

	_, err = m.SendMessage(ctx, bot.OutgoingMessage{ChatID: 1, Text: "plain"})
	require.NoError(t, err)
	assert.Empty(t, api.messages[1].ParseMode)
	assert.Nil(t, api.messages[1].ReplyMarkup)

	require.NoError(t, m.SendPhoto(ctx, bot.Photo{ChatID: 1, PNG: []byte{1, 2}, Caption: "c", HTML: true}))
	require.Len(t, api.photos, 1)
	assert.Equal(t, "chart.png", api.photos[0].FileName)

	require.NoError(t, m.SendInvoice(ctx, bot.Invoice{ChatID: 1, Title: "t", Payload: "donate_5_stars", Currency: "XTR", Label: "Donation", Amount: 5}))
	require.Len(t, api.invoices, 1)
	assert.Empty(t, api.invoices[0].ProviderToken)
	assert.Equal(t, []clients.LabeledPrice{{Label: "Donation", Amount: 5}}, api.invoices[0].Prices)

	require.NoError(t, m.AnswerPreCheckout(ctx, "pc", true, "ignored"))
	require.NoError(t, m.AnswerPreCheckout(ctx, "pc2", false, "bad"))
	assert.Equal(t, []clients.AnswerPreCheckoutQueryParams{
		{PreCheckoutQueryID: "pc", OK: true},
		{PreCheckoutQueryID: "pc2", OK: false, ErrorMessage: "bad"},
	}, api.checkouts)

	require.NoError(t, m.AnswerCallback(ctx, bot.CallbackAnswer{CallbackID: "cb", Text: "x", Alert: true}))
	assert.True(t, api.answers[0].ShowAlert)

	require.NoError(t, m.DeleteMessage(ctx, 1, 55))
	assert.Equal(t, []int64{55}, api.deleted)
}

func TestMessenger_EditNotModified(t *testing.T) {
	api := &fakeBotAPI{editErr: &clients.APIError{Method: "editMessageText", Code: 400, Description: "Bad Request: message is not modified"}}
	m := NewMessenger(api)

	assert.NoError(t, m.EditMessage(context.Background(), bot.MessageEdit{ChatID: 1, MessageID: 2, Text: "same"}))

	api.editErr = &clients.APIError{Method: "editMessageText", Code: 400, Description: "Bad Request: message to edit not found"}
	assert.Error(t, m.EditMessage(context.Background(), bot.MessageEdit{ChatID: 1, MessageID: 2, Text: "same"}))
}
