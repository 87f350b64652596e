// Package analysis asks a multimodal model to read chart images and turns
// its reply into a recommendation.
package analysis

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/chartbot/internal/clients"
	"github.com/vadiminshakov/chartbot/internal/services/chart"
	"github.com/vadiminshakov/chartbot/internal/services/promptbuilder"
	"go.uber.org/zap"
)

var (
	// ErrChartsUnavailable means the request did not carry one chart per timeframe.
	ErrChartsUnavailable = errors.New("charts unavailable for analysis")
	// ErrModelCall means the model could not be reached or refused the request.
	ErrModelCall = errors.New("analysis model call failed")
)

// Requester submits chart images with the analysis prompt.
type Requester struct {
	client  clients.LLMClient
	prompts *promptbuilder.PromptBuilder
	logger  *zap.Logger
}

// NewRequester creates a new analysis requester.
func NewRequester(client clients.LLMClient, prompts *promptbuilder.PromptBuilder, logger *zap.Logger) *Requester {
	if logger == nil {
		logger = zap.NewNop()
	}
	if prompts == nil {
		prompts = promptbuilder.NewPromptBuilder(logger)
	}
	return &Requester{
		client:  client,
		prompts: prompts,
		logger:  logger,
	}
}

// RequestAnalysis sends one chart per analysis timeframe, in prompt order,
// and returns the raw model reply. The reply is not interpreted here.
func (r *Requester) RequestAnalysis(ctx context.Context, coinLabel, languageName string, charts []*chart.Artifact) (string, error) {
	want := len(r.prompts.Timeframes())
	if len(charts) != want {
		return "", errors.Wrapf(ErrChartsUnavailable, "got %d charts, need %d", len(charts), want)
	}

	images := make([]clients.Image, 0, len(charts))
	for i, c := range charts {
		if c == nil {
			return "", errors.Wrapf(ErrChartsUnavailable, "chart %d is missing", i)
		}
		data := c.Bytes()
		if len(data) == 0 {
			return "", errors.Wrapf(ErrChartsUnavailable, "chart %d is empty", i)
		}
		images = append(images, clients.Image{MimeType: clients.MimeTypePNG, Data: data})
	}

	prompt := r.prompts.Build(coinLabel, languageName)

	start := time.Now()
	reply, err := r.client.Analyze(ctx, prompt, images)
	if err != nil {
		r.logger.Warn("analysis model call failed",
			zap.String("coin", coinLabel),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", errors.Wrapf(ErrModelCall, "%v", err)
	}

	r.logger.Info("analysis model replied",
		zap.String("coin", coinLabel),
		zap.String("language", languageName),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("reply_length", len(reply)))

	return reply, nil
}
