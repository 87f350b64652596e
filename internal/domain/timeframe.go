package domain

import "fmt"

// Timeframe chart period offered to users.
type Timeframe string

const (
	TimeframeHour  Timeframe = "1h"
	TimeframeWeek  Timeframe = "1w"
	TimeframeMonth Timeframe = "1m"
)

// AnalysisTimeframes are the charts submitted for AI analysis, in prompt order.
var AnalysisTimeframes = []Timeframe{TimeframeHour, TimeframeWeek, TimeframeMonth}

// TimeframeParams candle request for a timeframe.
type TimeframeParams struct {
	// Interval is the candle granularity in exchange notation ("1m", "1h").
	Interval string
	// Limit is the number of candles requested.
	Limit int
}

// ParseTimeframe converts a callback token into a Timeframe.
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(s)
	if !tf.Valid() {
		return "", fmt.Errorf("unsupported timeframe: %q", s)
	}
	return tf, nil
}

// Valid reports whether the timeframe is supported.
func (t Timeframe) Valid() bool {
	switch t {
	case TimeframeHour, TimeframeWeek, TimeframeMonth:
		return true
	}
	return false
}

// Params returns the fixed candle granularity and count.
func (t Timeframe) Params() TimeframeParams {
	switch t {
	case TimeframeWeek:
		return TimeframeParams{Interval: "1h", Limit: 168}
	case TimeframeMonth:
		return TimeframeParams{Interval: "1h", Limit: 720}
	default:
		return TimeframeParams{Interval: "1m", Limit: 60}
	}
}

// Label returns the button and caption text for the timeframe.
func (t Timeframe) Label() string {
	switch t {
	case TimeframeHour:
		return "🕐 1 Hour"
	case TimeframeWeek:
		return "📅 1 Week"
	case TimeframeMonth:
		return "🗓️ 1 Month"
	default:
		return string(t)
	}
}
