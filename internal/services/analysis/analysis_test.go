package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/chartbot/internal/clients"
	"github.com/vadiminshakov/chartbot/internal/domain"
	"github.com/vadiminshakov/chartbot/internal/services/chart"
	"go.uber.org/zap"
)

const validReply = `{"analysis": "Uptrend on every timeframe.", "recommendation": "Buy", "price": 45000.5, "datetime": "2024-05-01 12:00:00"}`

func TestParse_Structured(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "plain", raw: validReply},
		{name: "json fence", raw: "```json\n" + validReply + "\n```"},
		{name: "bare fence", raw: "```\n" + validReply + "\n```"},
		{name: "surrounding whitespace", raw: "\n\n  " + validReply + "  \n"},
	}

	expected := &domain.Recommendation{
		Analysis:    "Uptrend on every timeframe.",
		Action:      domain.ActionBuy,
		TargetPrice: 45000.5,
		TargetTime:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.raw)
			require.True(t, result.Structured())
			assert.Equal(t, expected, result.Recommendation)
			assert.Equal(t, "Buy", result.Recommendation.Action.Title())
			assert.Equal(t, "2024-05-01 12:00:00", result.Recommendation.TargetTimeString())
		})
	}
}

func TestParse_Unstructured(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "free text", raw: "The market looks bullish, consider buying."},
		{name: "truncated json", raw: `{"analysis": "x", "recommendation": "buy", "price": 1`},
		{name: "unknown key", raw: `{"analysis": "x", "recommendation": "buy", "price": 1, "datetime": "2024-05-01 12:00:00", "confidence": 0.9}`},
		{name: "missing key", raw: `{"analysis": "x", "recommendation": "buy", "price": 1}`},
		{name: "null value", raw: `{"analysis": null, "recommendation": "buy", "price": 1, "datetime": "2024-05-01 12:00:00"}`},
		{name: "price as string", raw: `{"analysis": "x", "recommendation": "buy", "price": "1", "datetime": "2024-05-01 12:00:00"}`},
		{name: "zero price", raw: `{"analysis": "x", "recommendation": "sell", "price": 0, "datetime": "2024-05-01 12:00:00"}`},
		{name: "negative price", raw: `{"analysis": "x", "recommendation": "sell", "price": -3, "datetime": "2024-05-01 12:00:00"}`},
		{name: "bad datetime", raw: `{"analysis": "x", "recommendation": "sell", "price": 3, "datetime": "tomorrow"}`},
		{name: "hold action", raw: `{"analysis": "x", "recommendation": "hold", "price": 3, "datetime": "2024-05-01 12:00:00"}`},
		{name: "array", raw: `[` + validReply + `]`},
		{name: "two objects", raw: validReply + validReply},
		{name: "empty", raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.raw)
			assert.False(t, result.Structured())
			assert.Equal(t, tt.raw, result.Raw)
		})
	}
}

type fakeLLM struct {
	calls  int
	prompt string
	images []clients.Image
	reply  string
	err    error
}

func (f *fakeLLM) Analyze(_ context.Context, prompt string, images []clients.Image) (string, error) {
	f.calls++
	f.prompt = prompt
	f.images = images
	return f.reply, f.err
}

func renderCharts(t *testing.T, n int) []*chart.Artifact {
	t.Helper()

	r := chart.NewRenderer(chart.WithSize(200, 160))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := domain.CandleSeries{{
		OpenTime: base,
		Open:     decimal.NewFromInt(10),
		High:     decimal.NewFromInt(12),
		Low:      decimal.NewFromInt(9),
		Close:    decimal.NewFromInt(11),
		Volume:   decimal.NewFromInt(5),
	}}

	out := make([]*chart.Artifact, n)
	for i := range out {
		a, err := r.Render(series, "BTC", "1 Hour")
		require.NoError(t, err)
		out[i] = a
	}
	t.Cleanup(func() { chart.ReleaseAll(out) })
	return out
}

func TestRequester_RequestAnalysis(t *testing.T) {
	llm := &fakeLLM{reply: validReply}
	r := NewRequester(llm, nil, zap.NewNop())

	charts := renderCharts(t, 3)
	reply, err := r.RequestAnalysis(context.Background(), "₿ Bitcoin (BTC)", "Persian", charts)

	require.NoError(t, err)
	assert.Equal(t, validReply, reply)
	assert.Equal(t, 1, llm.calls)
	require.Len(t, llm.images, 3)
	for i, img := range llm.images {
		assert.Equal(t, clients.MimeTypePNG, img.MimeType)
		assert.Equal(t, charts[i].Bytes(), img.Data)
	}
	assert.Contains(t, llm.prompt, "₿ Bitcoin (BTC)")
	assert.Contains(t, llm.prompt, "detailed analysis in Persian")
	assert.Contains(t, llm.prompt, "First image: 1 hour timeframe")
	assert.Contains(t, llm.prompt, "Third image: 1 month timeframe")
}

func TestRequester_Failures(t *testing.T) {
	tests := []struct {
		name     string
		charts   func(t *testing.T) []*chart.Artifact
		llmErr   error
		expected error
		calls    int
	}{
		{
			name:     "too few charts",
			charts:   func(t *testing.T) []*chart.Artifact { return renderCharts(t, 2) },
			expected: ErrChartsUnavailable,
		},
		{
			name: "nil chart",
			charts: func(t *testing.T) []*chart.Artifact {
				c := renderCharts(t, 3)
				return []*chart.Artifact{c[0], nil, c[2]}
			},
			expected: ErrChartsUnavailable,
		},
		{
			name: "released chart",
			charts: func(t *testing.T) []*chart.Artifact {
				c := renderCharts(t, 3)
				c[1].Release()
				return c
			},
			expected: ErrChartsUnavailable,
		},
		{
			name:     "model failure",
			charts:   func(t *testing.T) []*chart.Artifact { return renderCharts(t, 3) },
			llmErr:   errors.New("503 service unavailable"),
			expected: ErrModelCall,
			calls:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{err: tt.llmErr}
			r := NewRequester(llm, nil, zap.NewNop())

			_, err := r.RequestAnalysis(context.Background(), "BTC", "English", tt.charts(t))
			assert.ErrorIs(t, err, tt.expected)
			assert.Equal(t, tt.calls, llm.calls)
		})
	}
}
