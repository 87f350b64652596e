// Package telegram connects the conversation controller to the Bot API:
// long polling, per-chat dispatch and the outbound messenger.
package telegram

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/chartbot/internal/bot"
	"github.com/vadiminshakov/chartbot/internal/clients"
)

const parseModeHTML = "HTML"

// BotAPI outbound Bot API calls used by the messenger.
type BotAPI interface {
	SendMessage(ctx context.Context, params clients.SendMessageParams) (clients.Message, error)
	EditMessageText(ctx context.Context, params clients.EditMessageTextParams) (clients.Message, error)
	SendPhoto(ctx context.Context, params clients.SendPhotoParams) (clients.Message, error)
	AnswerCallbackQuery(ctx context.Context, params clients.AnswerCallbackQueryParams) error
	SendInvoice(ctx context.Context, params clients.SendInvoiceParams) (clients.Message, error)
	AnswerPreCheckoutQuery(ctx context.Context, params clients.AnswerPreCheckoutQueryParams) error
	DeleteMessage(ctx context.Context, chatID, messageID int64) error
}

// Messenger implements bot.Messenger over the Bot API.
type Messenger struct {
	api BotAPI
}

var _ bot.Messenger = (*Messenger)(nil)

// NewMessenger creates a new Bot API messenger.
func NewMessenger(api BotAPI) *Messenger {
	return &Messenger{api: api}
}

func (m *Messenger) SendMessage(ctx context.Context, msg bot.OutgoingMessage) (int64, error) {
	sent, err := m.api.SendMessage(ctx, clients.SendMessageParams{
		ChatID:           msg.ChatID,
		Text:             msg.Text,
		ParseMode:        parseMode(msg.HTML),
		ReplyToMessageID: msg.ReplyTo,
		ReplyMarkup:      markup(msg.Keyboard),
	})
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// EditMessage treats "message is not modified" as success.
func (m *Messenger) EditMessage(ctx context.Context, edit bot.MessageEdit) error {
	_, err := m.api.EditMessageText(ctx, clients.EditMessageTextParams{
		ChatID:      edit.ChatID,
		MessageID:   edit.MessageID,
		Text:        edit.Text,
		ParseMode:   parseMode(edit.HTML),
		ReplyMarkup: markup(edit.Keyboard),
	})
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) && strings.Contains(apiErr.Description, "message is not modified") {
		return nil
	}
	return err
}

func (m *Messenger) SendPhoto(ctx context.Context, photo bot.Photo) error {
	_, err := m.api.SendPhoto(ctx, clients.SendPhotoParams{
		ChatID:    photo.ChatID,
		Photo:     photo.PNG,
		FileName:  "chart.png",
		Caption:   photo.Caption,
		ParseMode: parseMode(photo.HTML),
	})
	return err
}

func (m *Messenger) AnswerCallback(ctx context.Context, answer bot.CallbackAnswer) error {
	return m.api.AnswerCallbackQuery(ctx, clients.AnswerCallbackQueryParams{
		CallbackQueryID: answer.CallbackID,
		Text:            answer.Text,
		ShowAlert:       answer.Alert,
	})
}

// SendInvoice sends a Telegram Stars invoice; Stars need no provider token.
func (m *Messenger) SendInvoice(ctx context.Context, invoice bot.Invoice) error {
	_, err := m.api.SendInvoice(ctx, clients.SendInvoiceParams{
		ChatID:         invoice.ChatID,
		Title:          invoice.Title,
		Description:    invoice.Description,
		Payload:        invoice.Payload,
		ProviderToken:  "",
		Currency:       invoice.Currency,
		Prices:         []clients.LabeledPrice{{Label: invoice.Label, Amount: invoice.Amount}},
		StartParameter: invoice.StartParameter,
	})
	return err
}

func (m *Messenger) AnswerPreCheckout(ctx context.Context, id string, ok bool, errorMessage string) error {
	params := clients.AnswerPreCheckoutQueryParams{PreCheckoutQueryID: id, OK: ok}
	if !ok {
		params.ErrorMessage = errorMessage
	}
	return m.api.AnswerPreCheckoutQuery(ctx, params)
}

func (m *Messenger) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	return m.api.DeleteMessage(ctx, chatID, messageID)
}

func parseMode(html bool) string {
	if html {
		return parseModeHTML
	}
	return ""
}

func markup(kb bot.Keyboard) *clients.InlineKeyboardMarkup {
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]clients.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]clients.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, clients.InlineKeyboardButton{Text: b.Text, CallbackData: b.Data, URL: b.URL})
		}
		rows = append(rows, buttons)
	}
	return &clients.InlineKeyboardMarkup{InlineKeyboard: rows}
}
