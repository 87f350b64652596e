package domain

import (
	"fmt"
	"strings"
	"time"
)

// RecommendationTimeLayout is the datetime format the model is asked to emit.
const RecommendationTimeLayout = "2006-01-02 15:04:05"

// Action recommended trading action.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// ParseAction normalizes a model supplied action. Only buy and sell are accepted.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case ActionBuy, ActionSell:
		return a, nil
	}
	return "", fmt.Errorf("unsupported recommendation action: %q", s)
}

// Title returns the capitalized display form, e.g. "Buy".
func (a Action) Title() string {
	if a == "" {
		return ""
	}
	return strings.ToUpper(string(a[:1])) + string(a[1:])
}

// Upper returns the upper-case form used in calendar events.
func (a Action) Upper() string {
	return strings.ToUpper(string(a))
}

// Recommendation structured trading advice extracted from a model reply.
type Recommendation struct {
	Analysis    string
	Action      Action
	TargetPrice float64
	TargetTime  time.Time
}

// TargetTimeString formats the target time the way the model supplied it.
func (r Recommendation) TargetTimeString() string {
	return r.TargetTime.Format(RecommendationTimeLayout)
}

// AnalysisResult is either a structured recommendation or the raw model text.
type AnalysisResult struct {
	Recommendation *Recommendation
	Raw            string
}

// Structured reports whether the reply was parsed into a recommendation.
func (r AnalysisResult) Structured() bool {
	return r.Recommendation != nil
}
