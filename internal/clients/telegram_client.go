package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/chartbot/pkg/retrier"
)

const (
	defaultTelegramURL       = "https://api.telegram.org"
	defaultTelegramTimeout   = 40 * time.Second
	defaultTelegramSendRetry = 3
)

// TelegramClient is a Bot API client over HTTPS.
type TelegramClient struct {
	client  *resty.Client
	retrier *retrier.Retrier
}

// NewTelegramClient creates a Bot API client for the given token.
// An empty apiURL uses the public Bot API host.
func NewTelegramClient(apiURL, token string, timeout time.Duration) *TelegramClient {
	if apiURL == "" {
		apiURL = defaultTelegramURL
	}
	if timeout <= 0 {
		timeout = defaultTelegramTimeout
	}

	client := resty.New()
	client.SetBaseURL(fmt.Sprintf("%s/bot%s", strings.TrimRight(apiURL, "/"), token))
	client.SetTimeout(timeout)

	return &TelegramClient{
		client: client,
		retrier: retrier.New(
			retrier.WithMaxRetries(defaultTelegramSendRetry),
			retrier.WithInitialInterval(500*time.Millisecond),
			retrier.WithMaxInterval(10*time.Second),
		),
	}
}

// WithRetrier replaces the send retry policy.
func (c *TelegramClient) WithRetrier(r *retrier.Retrier) *TelegramClient {
	c.retrier = r
	return c
}

// GetUpdates long-polls for updates starting at offset. It is not retried.
func (c *TelegramClient) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	req := c.client.R().SetContext(ctx).SetBody(getUpdatesParams{
		Offset:         offset,
		Timeout:        int(timeout / time.Second),
		AllowedUpdates: []string{"message", "callback_query", "pre_checkout_query"},
	})
	return decode[[]Update]("getUpdates", req, http.MethodPost)
}

// SendMessage sends a text message.
func (c *TelegramClient) SendMessage(ctx context.Context, params SendMessageParams) (Message, error) {
	return callJSON[Message](ctx, c, "sendMessage", params)
}

// EditMessageText replaces the text and keyboard of a sent message.
func (c *TelegramClient) EditMessageText(ctx context.Context, params EditMessageTextParams) (Message, error) {
	return callJSON[Message](ctx, c, "editMessageText", params)
}

// SendPhoto uploads a PNG image with a caption.
func (c *TelegramClient) SendPhoto(ctx context.Context, params SendPhotoParams) (Message, error) {
	form := map[string]string{
		"chat_id": strconv.FormatInt(params.ChatID, 10),
	}
	if params.Caption != "" {
		form["caption"] = params.Caption
	}
	if params.ParseMode != "" {
		form["parse_mode"] = params.ParseMode
	}
	if params.ReplyMarkup != nil {
		markup, err := json.Marshal(params.ReplyMarkup)
		if err != nil {
			return Message{}, errors.Wrap(err, "marshal reply markup")
		}
		form["reply_markup"] = string(markup)
	}
	fileName := params.FileName
	if fileName == "" {
		fileName = "chart.png"
	}

	return retrier.DoWithData(c.retrier, ctx, func(ctx context.Context) (Message, error) {
		req := c.client.R().
			SetContext(ctx).
			SetFormData(form).
			SetFileReader("photo", fileName, bytes.NewReader(params.Photo))
		return decode[Message]("sendPhoto", req, http.MethodPost)
	})
}

// AnswerCallbackQuery shows a toast or alert for a button press.
func (c *TelegramClient) AnswerCallbackQuery(ctx context.Context, params AnswerCallbackQueryParams) error {
	_, err := callJSON[bool](ctx, c, "answerCallbackQuery", params)
	return err
}

// SendInvoice sends a payment invoice.
func (c *TelegramClient) SendInvoice(ctx context.Context, params SendInvoiceParams) (Message, error) {
	return callJSON[Message](ctx, c, "sendInvoice", params)
}

// AnswerPreCheckoutQuery confirms or declines a pending payment.
func (c *TelegramClient) AnswerPreCheckoutQuery(ctx context.Context, params AnswerPreCheckoutQueryParams) error {
	_, err := callJSON[bool](ctx, c, "answerPreCheckoutQuery", params)
	return err
}

// DeleteMessage deletes a message.
func (c *TelegramClient) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	_, err := callJSON[bool](ctx, c, "deleteMessage", deleteMessageParams{ChatID: chatID, MessageID: messageID})
	return err
}

func callJSON[T any](ctx context.Context, c *TelegramClient, method string, body any) (T, error) {
	return retrier.DoWithData(c.retrier, ctx, func(ctx context.Context) (T, error) {
		req := c.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(body)
		return decode[T](method, req, http.MethodPost)
	})
}

// decode executes req and unpacks the Bot API envelope. Client errors other
// than rate limiting are marked permanent.
func decode[T any](method string, req *resty.Request, httpMethod string) (T, error) {
	var zero T

	resp, err := req.Execute(httpMethod, "/"+method)
	if err != nil {
		return zero, errors.Wrapf(stripURL(err), "telegram %s request failed", method)
	}

	var envelope apiResponse[T]
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		decodeErr := errors.Wrapf(err, "decode telegram %s response (status %d)", method, resp.StatusCode())
		if resp.StatusCode() < http.StatusInternalServerError {
			return zero, retrier.Permanent(decodeErr)
		}
		return zero, decodeErr
	}

	if !envelope.OK {
		apiErr := &APIError{
			Method:      method,
			Code:        envelope.ErrorCode,
			Description: envelope.Description,
		}
		if envelope.Parameters != nil {
			apiErr.RetryAfterS = envelope.Parameters.RetryAfter
		}
		if apiErr.Code == 0 {
			apiErr.Code = resp.StatusCode()
		}
		if apiErr.Code != http.StatusTooManyRequests && apiErr.Code < http.StatusInternalServerError {
			return zero, retrier.Permanent(apiErr)
		}
		return zero, apiErr
	}

	return envelope.Result, nil
}

// stripURL drops the request URL from transport errors since it embeds the
// bot token.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
