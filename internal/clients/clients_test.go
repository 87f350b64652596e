package clients

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/chartbot/pkg/retrier"
)

func fastRetrier() *retrier.Retrier {
	return retrier.New(retrier.WithMaxRetries(2), retrier.WithInitialInterval(time.Millisecond))
}

func TestTelegramClient_SendMessage(t *testing.T) {
	var got SendMessageParams
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":42,"chat":{"id":7,"type":"private"},"text":"hi"}}`)
	}))
	defer srv.Close()

	c := NewTelegramClient(srv.URL, "TOKEN", time.Second).WithRetrier(fastRetrier())
	msg, err := c.SendMessage(context.Background(), SendMessageParams{
		ChatID:    7,
		Text:      "hi",
		ParseMode: "HTML",
		ReplyMarkup: &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
			{{Text: "BTC", CallbackData: "coin_0"}},
		}},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), msg.MessageID)
	assert.Equal(t, int64(7), got.ChatID)
	assert.Equal(t, "HTML", got.ParseMode)
	require.NotNil(t, got.ReplyMarkup)
	assert.Equal(t, "coin_0", got.ReplyMarkup.InlineKeyboard[0][0].CallbackData)
}

func TestTelegramClient_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"ok":false,"error_code":400,"description":"Bad Request: message to delete not found"}`)
	}))
	defer srv.Close()

	c := NewTelegramClient(srv.URL, "TOKEN", time.Second).WithRetrier(fastRetrier())
	err := c.DeleteMessage(context.Background(), 1, 2)

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTelegramClient_RateLimitIsRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"ok":false,"error_code":429,"description":"Too Many Requests","parameters":{"retry_after":0}}`)
			return
		}
		_, _ = io.WriteString(w, `{"ok":true,"result":true}`)
	}))
	defer srv.Close()

	c := NewTelegramClient(srv.URL, "TOKEN", time.Second).WithRetrier(fastRetrier())
	err := c.AnswerCallbackQuery(context.Background(), AnswerCallbackQueryParams{CallbackQueryID: "q", Text: "ok"})

	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestTelegramClient_TransportErrorHidesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c := NewTelegramClient(addr, "123456:SECRET-BOT-TOKEN", time.Second).WithRetrier(fastRetrier())

	_, err := c.GetUpdates(context.Background(), 0, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "getUpdates")
	assert.NotContains(t, err.Error(), "SECRET-BOT-TOKEN")

	_, err = c.SendMessage(context.Background(), SendMessageParams{ChatID: 1, Text: "hi"})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-BOT-TOKEN")
}

func TestTelegramClient_SendPhotoMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendPhoto", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "9", r.FormValue("chat_id"))
		assert.Equal(t, "caption", r.FormValue("caption"))
		assert.Contains(t, r.FormValue("reply_markup"), "show_coins")

		f, hdr, err := r.FormFile("photo")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "chart.png", hdr.Filename)
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)

		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":5,"chat":{"id":9,"type":"private"}}}`)
	}))
	defer srv.Close()

	c := NewTelegramClient(srv.URL, "TOKEN", time.Second).WithRetrier(fastRetrier())
	msg, err := c.SendPhoto(context.Background(), SendPhotoParams{
		ChatID:  9,
		Photo:   []byte{0x89, 'P', 'N', 'G'},
		Caption: "caption",
		ReplyMarkup: &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
			{{Text: "More", CallbackData: "show_coins"}},
		}},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), msg.MessageID)
}

func TestTelegramClient_GetUpdates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p getUpdatesParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, int64(11), p.Offset)
		assert.Equal(t, 1, p.Timeout)
		_, _ = io.WriteString(w, `{"ok":true,"result":[
			{"update_id":11,"callback_query":{"id":"cb","from":{"id":3,"first_name":"a"},"message":{"message_id":8,"chat":{"id":3,"type":"private"}},"data":"lang_fa"}},
			{"update_id":12,"pre_checkout_query":{"id":"pc","from":{"id":3,"first_name":"a"},"currency":"XTR","total_amount":10,"invoice_payload":"donate_10_stars"}}
		]}`)
	}))
	defer srv.Close()

	c := NewTelegramClient(srv.URL, "TOKEN", 5*time.Second)
	updates, err := c.GetUpdates(context.Background(), 11, time.Second)

	require.NoError(t, err)
	require.Len(t, updates, 2)
	require.NotNil(t, updates[0].CallbackQuery)
	assert.Equal(t, "lang_fa", updates[0].CallbackQuery.Data)
	require.NotNil(t, updates[1].PreCheckoutQuery)
	assert.Equal(t, 10, updates[1].PreCheckoutQuery.TotalAmount)
}

func TestGeminiClient_Analyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "KEY", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		parts := req.Contents[0].Parts
		require.Len(t, parts, 3)
		assert.Equal(t, "prompt", parts[0].Text)
		require.NotNil(t, parts[1].InlineData)
		assert.Equal(t, "image/png", parts[1].InlineData.MimeType)
		assert.Equal(t, "AQI=", parts[1].InlineData.Data)

		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"{\"analysis\":"},{"text":"\"x\"}"}]}}]}`)
	}))
	defer srv.Close()

	c := NewGeminiClient(srv.URL, "KEY", "gemini-2.5-flash", time.Second)
	out, err := c.Analyze(context.Background(), "prompt", []Image{
		{MimeType: MimeTypePNG, Data: []byte{1, 2}},
		{Data: []byte{3}},
	})

	require.NoError(t, err)
	assert.Equal(t, `{"analysis":"x"}`, out)
}

func TestGeminiClient_BadRequestFailsFast(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
	}))
	defer srv.Close()

	c := NewGeminiClient(srv.URL, "KEY", "gemini-2.5-flash", time.Second)
	_, err := c.Analyze(context.Background(), "prompt", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGeminiClient_TransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c := NewGeminiClient(addr, "GEMINI-SECRET-KEY", "gemini-2.5-flash", time.Second)
	c.maxRetries = 1

	_, err := c.Analyze(context.Background(), "prompt", nil)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "GEMINI-SECRET-KEY")
}

func TestGeminiClient_EmptyKey(t *testing.T) {
	c := NewGeminiClient("http://127.0.0.1:1", "", "m", time.Second)
	_, err := c.Analyze(context.Background(), "prompt", nil)
	assert.Error(t, err)
}

func TestOpenAICompatibleClient_Analyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer KEY", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "data:image/png;base64,AQI=")
		assert.Contains(t, string(body), `"model":"gpt-4o"`)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"reply"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	c := NewOpenAICompatibleClient(srv.URL+"/v1", "KEY", "gpt-4o", time.Second)
	out, err := c.Analyze(context.Background(), "prompt", []Image{{MimeType: MimeTypePNG, Data: []byte{1, 2}}})

	require.NoError(t, err)
	assert.Equal(t, "reply", out)
}

func TestOpenAICompatibleClient_ClientErrorFailsFast(t *testing.T) {
	tests := []struct {
		name   string
		status int
		calls  int32
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, calls: 1},
		{name: "bad request", status: http.StatusBadRequest, calls: 1},
		{name: "rate limited", status: http.StatusTooManyRequests, calls: 2},
		{name: "server error", status: http.StatusBadGateway, calls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"error":{"message":"nope","type":"invalid_request_error"}}`)
			}))
			defer srv.Close()

			c := NewOpenAICompatibleClient(srv.URL+"/v1", "KEY", "gpt-4o", time.Second)
			c.maxRetries = 2
			c.retryDelay = time.Millisecond

			_, err := c.Analyze(context.Background(), "prompt", nil)
			require.Error(t, err)
			assert.Equal(t, tt.calls, atomic.LoadInt32(&calls))
		})
	}
}
