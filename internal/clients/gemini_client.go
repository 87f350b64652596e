package clients

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const defaultGeminiURL = "https://generativelanguage.googleapis.com"

// GeminiClient calls the Gemini generateContent REST endpoint.
type GeminiClient struct {
	client     *resty.Client
	apiKey     string
	model      string
	maxRetries int
	retryDelay time.Duration
}

// NewGeminiClient creates a Gemini client. An empty apiURL uses the public endpoint.
func NewGeminiClient(apiURL, apiKey, model string, timeout time.Duration) *GeminiClient {
	if apiURL == "" {
		apiURL = defaultGeminiURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(apiURL, "/"))
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")

	return &GeminiClient{
		client:     client,
		apiKey:     apiKey,
		model:      model,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Analyze sends the prompt followed by the images as inline parts.
func (c *GeminiClient) Analyze(ctx context.Context, prompt string, images []Image) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("Gemini API key is empty")
	}

	parts := make([]geminiPart, 0, len(images)+1)
	parts = append(parts, geminiPart{Text: prompt})
	for _, img := range images {
		mime := img.MimeType
		if mime == "" {
			mime = MimeTypePNG
		}
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MimeType: mime,
			Data:     base64.StdEncoding.EncodeToString(img.Data),
		}})
	}
	reqBody := geminiRequest{Contents: []geminiContent{{Role: "user", Parts: parts}}}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		text, retryable, err := c.generate(ctx, reqBody)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
	}

	return "", errors.Wrapf(lastErr, "failed after %d retries", c.maxRetries)
}

func (c *GeminiClient) generate(ctx context.Context, reqBody geminiRequest) (string, bool, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.apiKey).
		SetBody(reqBody).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		return "", true, errors.Wrap(err, "Gemini request failed")
	}

	var out geminiResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", resp.StatusCode() >= http.StatusInternalServerError,
			errors.Wrapf(err, "failed to decode Gemini response (status %d)", resp.StatusCode())
	}

	if resp.StatusCode() != http.StatusOK {
		msg := resp.String()
		if out.Error != nil {
			msg = fmt.Sprintf("%s (%s)", out.Error.Message, out.Error.Status)
		}
		retryable := resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= http.StatusInternalServerError
		return "", retryable, fmt.Errorf("Gemini API returned status %d: %s", resp.StatusCode(), msg)
	}

	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		return "", false, fmt.Errorf("Gemini blocked the prompt: %s", out.PromptFeedback.BlockReason)
	}
	if len(out.Candidates) == 0 {
		return "", true, errors.New("Gemini API returned no candidates")
	}

	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", true, errors.New("Gemini API returned an empty candidate")
	}

	return sb.String(), false, nil
}
