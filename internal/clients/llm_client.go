package clients

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

const (
	defaultTimeout    = 120 * time.Second
	defaultMaxRetries = 3
	defaultRetryDelay = 2 * time.Second

	// MimeTypePNG is the MIME type of rendered charts.
	MimeTypePNG = "image/png"
)

// Image binary image attached to a model request.
type Image struct {
	MimeType string
	Data     []byte
}

// LLMClient defines the interface for interacting with multimodal LLM services
type LLMClient interface {
	// Analyze sends a prompt and ordered images to the model and returns its text reply
	Analyze(ctx context.Context, prompt string, images []Image) (string, error)
}

// OpenAICompatibleClient talks to any chat completions API that accepts image parts.
type OpenAICompatibleClient struct {
	client     *openai.Client
	apiKey     string
	model      string
	maxRetries int
	retryDelay time.Duration
}

// NewOpenAICompatibleClient creates a new client for OpenAI-compatible APIs.
// apiURL is the API root, e.g. https://api.openai.com/v1.
func NewOpenAICompatibleClient(apiURL, apiKey, model string, timeout time.Duration) *OpenAICompatibleClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	cfg := openai.DefaultConfig(apiKey)
	if apiURL != "" {
		cfg.BaseURL = apiURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAICompatibleClient{
		client:     openai.NewClientWithConfig(cfg),
		apiKey:     apiKey,
		model:      model,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
}

// Analyze builds a single user message with text and image parts and returns the first choice.
func (c *OpenAICompatibleClient) Analyze(ctx context.Context, prompt string, images []Image) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("LLM API key is empty")
	}

	parts := make([]openai.ChatMessagePart, 0, len(images)+1)
	parts = append(parts, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: prompt,
	})
	for _, img := range images {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    dataURL(img),
				Detail: openai.ImageURLDetailAuto,
			},
		})
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: parts,
			},
		},
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			lastErr = errors.Wrap(err, "chat completion request failed")
			if isPermanentStatus(err) {
				return "", lastErr
			}
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = errors.New("LLM API returned no choices")
			continue
		}

		return resp.Choices[0].Message.Content, nil
	}

	return "", errors.Wrapf(lastErr, "failed after %d retries", c.maxRetries)
}

// isPermanentStatus reports client errors other than rate limiting.
func isPermanentStatus(err error) bool {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	return status >= http.StatusBadRequest &&
		status < http.StatusInternalServerError &&
		status != http.StatusTooManyRequests
}

func dataURL(img Image) string {
	mime := img.MimeType
	if mime == "" {
		mime = MimeTypePNG
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(img.Data))
}
