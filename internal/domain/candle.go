package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketCandle single OHLCV candlestick.
type MarketCandle struct {
	OpenTime  time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
	CloseTime time.Time
}

// Bullish reports whether the candle closed at or above its open.
func (c MarketCandle) Bullish() bool {
	return c.Close.GreaterThanOrEqual(c.Open)
}

// CandleSeries candles ordered by open time ascending.
type CandleSeries []MarketCandle

// Closes returns close prices as floats, in series order.
func (s CandleSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close.InexactFloat64()
	}
	return out
}

// Latest returns the most recent candle.
func (s CandleSeries) Latest() (MarketCandle, bool) {
	if len(s) == 0 {
		return MarketCandle{}, false
	}
	return s[len(s)-1], true
}

// Partition splits candle indexes into bullish and bearish groups.
// The series itself is left untouched.
func (s CandleSeries) Partition() (bullish, bearish []int) {
	for i, c := range s {
		if c.Bullish() {
			bullish = append(bullish, i)
		} else {
			bearish = append(bearish, i)
		}
	}
	return bullish, bearish
}
