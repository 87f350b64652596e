// Package marketdata fetches candles and ticker snapshots from exchange
// public market-data APIs.
package marketdata

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/chartbot/internal/domain"
	"go.uber.org/zap"
)

const defaultFetchTimeout = 10 * time.Second

var (
	// ErrUpstream is returned when the exchange cannot be reached or its reply cannot be decoded.
	ErrUpstream = errors.New("market data upstream error")
	// ErrEmptySeries is returned when the exchange answers with no usable candles.
	ErrEmptySeries = errors.New("market data returned no candles")
)

// KlineProvider defines the exchange specific market data calls.
type KlineProvider interface {
	// GetKlines fetches up to limit candles of the given interval ("1m", "1h").
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]domain.MarketCandle, error)
	// GetTicker fetches the last price and 24h change.
	GetTicker(ctx context.Context, symbol string) (domain.TickerSnapshot, error)
}

// Collector wraps a provider with timeouts, ordering and typed failures.
type Collector struct {
	provider KlineProvider
	timeout  time.Duration
	logger   *zap.Logger
}

// NewCollector creates a market data collector. A zero timeout uses 10s.
func NewCollector(provider KlineProvider, timeout time.Duration, logger *zap.Logger) *Collector {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{provider: provider, timeout: timeout, logger: logger}
}

// FetchCandles returns at most limit candles ordered by open time ascending.
func (c *Collector) FetchCandles(ctx context.Context, symbol, interval string, limit int) (domain.CandleSeries, error) {
	if limit <= 0 {
		return nil, errors.Errorf("invalid candle limit %d", limit)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	klines, err := c.provider.GetKlines(ctx, symbol, interval, limit)
	if err != nil {
		c.logger.Warn("failed to fetch klines",
			zap.String("symbol", symbol),
			zap.String("interval", interval),
			zap.Error(err))
		return nil, errors.Wrapf(ErrUpstream, "fetch %s %s klines: %v", symbol, interval, err)
	}

	if len(klines) == 0 {
		return nil, errors.Wrapf(ErrEmptySeries, "%s %s", symbol, interval)
	}

	series := domain.CandleSeries(klines)
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].OpenTime.Before(series[j].OpenTime)
	})
	if len(series) > limit {
		series = series[len(series)-limit:]
	}

	return series, nil
}

// FetchTimeframe fetches the candles configured for a chart timeframe.
func (c *Collector) FetchTimeframe(ctx context.Context, symbol string, tf domain.Timeframe) (domain.CandleSeries, error) {
	params := tf.Params()
	return c.FetchCandles(ctx, symbol, params.Interval, params.Limit)
}

// FetchTicker returns the current price and 24h change.
func (c *Collector) FetchTicker(ctx context.Context, symbol string) (domain.TickerSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ticker, err := c.provider.GetTicker(ctx, symbol)
	if err != nil {
		c.logger.Warn("failed to fetch ticker", zap.String("symbol", symbol), zap.Error(err))
		return domain.TickerSnapshot{}, errors.Wrapf(ErrUpstream, "fetch %s ticker: %v", symbol, err)
	}

	return ticker, nil
}
