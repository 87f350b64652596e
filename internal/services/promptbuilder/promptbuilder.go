// Package promptbuilder composes the prompt sent with chart images to the
// analysis model.
package promptbuilder

import (
	"fmt"
	"strings"

	"github.com/vadiminshakov/chartbot/internal/domain"
	"go.uber.org/zap"
)

var ordinals = []string{"First", "Second", "Third", "Fourth", "Fifth"}

// PromptBuilder constructs prompts for the analysis model.
type PromptBuilder struct {
	timeframes []domain.Timeframe
	logger     *zap.Logger
}

// NewPromptBuilder creates a builder that describes images in the given
// timeframe order. With no timeframes the analysis order (1h, 1w, 1m) is used.
func NewPromptBuilder(logger *zap.Logger, timeframes ...domain.Timeframe) *PromptBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(timeframes) == 0 {
		timeframes = domain.AnalysisTimeframes
	}
	return &PromptBuilder{
		timeframes: timeframes,
		logger:     logger,
	}
}

// Timeframes returns the order in which chart images must be attached.
func (pb *PromptBuilder) Timeframes() []domain.Timeframe {
	return pb.timeframes
}

// BuildUserPrompt describes the attached images and the language of the answer.
func (pb *PromptBuilder) BuildUserPrompt(coinLabel, languageName string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Analyze these candlestick charts for %s (with volume and SMA20):\n", coinLabel))
	sb.WriteString(pb.formatImageOrder())
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Provide a very detailed analysis in %s explaining:\n", languageName))
	sb.WriteString("- Key observations from each timeframe (candlestick patterns, volume trends, SMA20 crossovers, etc.)\n")
	sb.WriteString("- The reasoning for your trading recommendation, referencing specific indicators and timeframes used\n")
	sb.WriteString("- How the different timeframes influenced your decision\n\n")

	sb.WriteString("Then give a trading recommendation: buy or sell, with a target price, and a suggested datetime in the near future.\n\n")
	sb.WriteString(`Output strictly in JSON format:
{"analysis": "detailed analysis text without markdown bullet points or special formatting",
"recommendation": "buy" or "sell",
"price": float,
"datetime": "YYYY-MM-DD HH:MM:SS"}
`)
	sb.WriteString("Do not include any other text or markdown formatting in the analysis field.")

	prompt := sb.String()
	pb.logger.Debug("built analysis prompt",
		zap.String("coin", coinLabel),
		zap.String("language", languageName),
		zap.Int("length", len(prompt)))

	return prompt
}

// Build returns the system instructions followed by the user prompt, for
// providers that take a single text part.
func (pb *PromptBuilder) Build(coinLabel, languageName string) string {
	return SystemPrompt + "\n\n" + pb.BuildUserPrompt(coinLabel, languageName)
}

func (pb *PromptBuilder) formatImageOrder() string {
	var sb strings.Builder
	for i, tf := range pb.timeframes {
		ordinal := fmt.Sprintf("Image %d", i+1)
		if i < len(ordinals) {
			ordinal = ordinals[i] + " image"
		}
		sb.WriteString(fmt.Sprintf("%s: %s timeframe\n", ordinal, describeTimeframe(tf)))
	}
	return sb.String()
}

func describeTimeframe(tf domain.Timeframe) string {
	switch tf {
	case domain.TimeframeHour:
		return "1 hour"
	case domain.TimeframeWeek:
		return "1 week"
	case domain.TimeframeMonth:
		return "1 month"
	default:
		return string(tf)
	}
}
