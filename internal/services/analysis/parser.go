package analysis

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/chartbot/internal/domain"
)

// modelReply mirrors the JSON object the model is asked for. Pointer fields
// tell a missing key apart from a zero value.
type modelReply struct {
	Analysis       *string  `json:"analysis"`
	Recommendation *string  `json:"recommendation"`
	Price          *float64 `json:"price"`
	Datetime       *string  `json:"datetime"`
}

// Parse turns a model reply into a recommendation. Anything that is not
// exactly the expected object yields an unstructured result that carries
// raw unchanged.
func Parse(raw string) domain.AnalysisResult {
	rec, err := parseRecommendation(raw)
	if err != nil {
		return domain.AnalysisResult{Raw: raw}
	}
	return domain.AnalysisResult{Recommendation: rec, Raw: raw}
}

func parseRecommendation(raw string) (*domain.Recommendation, error) {
	body := stripFence(raw)
	if !json.Valid([]byte(body)) {
		return nil, errors.New("reply is not valid JSON")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.DisallowUnknownFields()

	var reply modelReply
	if err := dec.Decode(&reply); err != nil {
		return nil, errors.Wrap(err, "decode reply")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after reply object")
	}

	switch {
	case reply.Analysis == nil:
		return nil, errors.New("missing analysis")
	case reply.Recommendation == nil:
		return nil, errors.New("missing recommendation")
	case reply.Price == nil:
		return nil, errors.New("missing price")
	case reply.Datetime == nil:
		return nil, errors.New("missing datetime")
	}

	action, err := domain.ParseAction(*reply.Recommendation)
	if err != nil {
		return nil, err
	}
	if *reply.Price <= 0 {
		return nil, errors.Errorf("price must be positive, got %v", *reply.Price)
	}
	target, err := time.Parse(domain.RecommendationTimeLayout, strings.TrimSpace(*reply.Datetime))
	if err != nil {
		return nil, errors.Wrap(err, "parse datetime")
	}

	return &domain.Recommendation{
		Analysis:    *reply.Analysis,
		Action:      action,
		TargetPrice: *reply.Price,
		TargetTime:  target,
	}, nil
}

// stripFence removes surrounding whitespace and a markdown code fence.
func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(s, "```json"):
		s = s[len("```json"):]
	case strings.HasPrefix(s, "```"):
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
