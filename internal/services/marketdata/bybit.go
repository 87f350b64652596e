package marketdata

import (
	"context"
	"fmt"
	"time"

	bybit "github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/chartbot/internal/domain"
)

// bybitMaxKlines is the v5 kline page size limit.
const bybitMaxKlines = 1000

// BybitKlineProvider implements KlineProvider for Bybit spot.
type BybitKlineProvider struct {
	client *bybit.Client
}

// NewBybitKlineProvider creates a new Bybit kline provider.
func NewBybitKlineProvider(client *bybit.Client) *BybitKlineProvider {
	return &BybitKlineProvider{client: client}
}

// GetKlines fetches kline data. Bybit returns newest first; ordering is left to the collector.
func (p *BybitKlineProvider) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]domain.MarketCandle, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be > 0")
	}
	if limit > bybitMaxKlines {
		limit = bybitMaxKlines
	}

	bybitInterval, err := convertIntervalToBybit(interval)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid interval: %s", interval)
	}

	param := bybit.V5GetKlineParam{
		Category: bybit.CategoryV5Spot,
		Symbol:   bybit.SymbolV5(symbol),
		Interval: bybit.Interval(bybitInterval),
		Limit:    &limit,
	}

	result, err := withContext(ctx, func() (*bybit.V5GetKlineResponse, error) {
		return p.client.V5().Market().GetKline(param)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch klines from Bybit for %s", symbol)
	}
	if result == nil {
		return nil, errors.Errorf("empty result from Bybit API for %s", symbol)
	}

	step, err := intervalDuration(interval)
	if err != nil {
		return nil, err
	}

	klines := result.Result.List
	candles := make([]domain.MarketCandle, len(klines))
	for i, k := range klines {
		openTime, err := parseTimestamp(k.StartTime)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse start time at index %d", i)
		}

		open, err := decimal.NewFromString(k.Open)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse open price at index %d", i)
		}

		high, err := decimal.NewFromString(k.High)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse high price at index %d", i)
		}

		low, err := decimal.NewFromString(k.Low)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse low price at index %d", i)
		}

		close, err := decimal.NewFromString(k.Close)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse close price at index %d", i)
		}

		volume, err := decimal.NewFromString(k.Volume)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse volume at index %d", i)
		}

		candles[i] = domain.MarketCandle{
			OpenTime:  openTime,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    volume,
			CloseTime: openTime.Add(step - time.Millisecond),
		}
	}

	return candles, nil
}

// GetTicker fetches the spot ticker. Bybit reports the 24h change as a fraction.
func (p *BybitKlineProvider) GetTicker(ctx context.Context, symbol string) (domain.TickerSnapshot, error) {
	sym := bybit.SymbolV5(symbol)

	result, err := withContext(ctx, func() (*bybit.V5GetTickersResponse, error) {
		return p.client.V5().Market().GetTickers(bybit.V5GetTickersParam{
			Category: bybit.CategoryV5Spot,
			Symbol:   &sym,
		})
	})
	if err != nil {
		return domain.TickerSnapshot{}, errors.Wrapf(err, "failed to fetch ticker from Bybit for %s", symbol)
	}
	if result == nil || result.Result.Spot == nil || len(result.Result.Spot.List) == 0 {
		return domain.TickerSnapshot{}, fmt.Errorf("bybit API returned empty ticker for %s", symbol)
	}

	item := result.Result.Spot.List[0]
	last, err := decimal.NewFromString(item.LastPrice)
	if err != nil {
		return domain.TickerSnapshot{}, errors.Wrap(err, "failed to parse last price")
	}
	change, err := decimal.NewFromString(item.Price24HPcnt)
	if err != nil {
		return domain.TickerSnapshot{}, errors.Wrap(err, "failed to parse 24h change")
	}

	return domain.TickerSnapshot{
		Symbol:                symbol,
		LastPrice:             last,
		PriceChangePercent24h: change.Mul(decimal.NewFromInt(100)),
	}, nil
}

// withContext runs a blocking call that takes no context and abandons it when ctx ends.
func withContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{val: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-done:
		return r.val, r.err
	}
}

// convertIntervalToBybit converts standard interval format to Bybit format.
// Standard format: "1m", "5m", "15m", "1h", "4h", "1d", etc.
// Bybit format: "1", "5", "15", "60", "240", "D", etc.
func convertIntervalToBybit(interval string) (string, error) {
	if len(interval) < 2 {
		return "", fmt.Errorf("invalid interval format: %s", interval)
	}

	unit := interval[len(interval)-1]
	n, err := parseIntervalNumber(interval)
	if err != nil {
		return "", err
	}

	switch unit {
	case 'm':
		return fmt.Sprintf("%d", n), nil
	case 'h':
		return fmt.Sprintf("%d", n*60), nil
	case 'd':
		return "D", nil
	case 'w':
		return "W", nil
	default:
		return "", fmt.Errorf("unsupported interval unit: %c", unit)
	}
}

// intervalDuration returns the candle length for an interval like "1m" or "1h".
func intervalDuration(interval string) (time.Duration, error) {
	if len(interval) < 2 {
		return 0, fmt.Errorf("invalid interval format: %s", interval)
	}
	n, err := parseIntervalNumber(interval)
	if err != nil {
		return 0, err
	}

	switch interval[len(interval)-1] {
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unsupported interval unit: %c", interval[len(interval)-1])
	}
}

func parseIntervalNumber(interval string) (int64, error) {
	var n int64
	for _, r := range interval[:len(interval)-1] {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid interval number: %s", interval)
		}
		n = n*10 + int64(r-'0')
	}
	if n == 0 {
		return 0, fmt.Errorf("invalid interval number: %s", interval)
	}
	return n, nil
}

// parseTimestamp converts Bybit timestamp string (milliseconds) to time.Time.
func parseTimestamp(ts string) (time.Time, error) {
	if ts == "" {
		return time.Time{}, errors.New("empty timestamp")
	}

	var msec int64
	_, err := fmt.Sscanf(ts, "%d", &msec)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "failed to parse timestamp: %s", ts)
	}

	return time.UnixMilli(msec).UTC(), nil
}
