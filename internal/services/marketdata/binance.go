package marketdata

import (
	"context"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/chartbot/internal/domain"
)

// BinanceKlineProvider implements KlineProvider for Binance spot.
type BinanceKlineProvider struct {
	client *binance.Client
}

// NewBinanceKlineProvider creates a new Binance kline provider.
func NewBinanceKlineProvider(client *binance.Client) *BinanceKlineProvider {
	return &BinanceKlineProvider{client: client}
}

// GetKlines fetches kline data from Binance.
func (p *BinanceKlineProvider) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]domain.MarketCandle, error) {
	klines, err := p.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch klines from Binance for %s", symbol)
	}

	result := make([]domain.MarketCandle, len(klines))
	for i, k := range klines {
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

		result[i] = domain.MarketCandle{
			OpenTime:  time.UnixMilli(k.OpenTime).UTC(),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    volume,
			CloseTime: time.UnixMilli(k.CloseTime).UTC(),
		}
	}

	return result, nil
}

// GetTicker fetches 24h statistics from Binance.
func (p *BinanceKlineProvider) GetTicker(ctx context.Context, symbol string) (domain.TickerSnapshot, error) {
	stats, err := p.client.NewListPriceChangeStatsService().Symbol(symbol).Do(ctx)
	if err != nil {
		return domain.TickerSnapshot{}, errors.Wrapf(err, "failed to fetch 24h ticker from Binance for %s", symbol)
	}
	if len(stats) == 0 || stats[0] == nil {
		return domain.TickerSnapshot{}, errors.Errorf("binance API returned empty ticker for %s", symbol)
	}

	last, err := decimal.NewFromString(stats[0].LastPrice)
	if err != nil {
		return domain.TickerSnapshot{}, errors.Wrap(err, "failed to parse last price")
	}
	change, err := decimal.NewFromString(stats[0].PriceChangePercent)
	if err != nil {
		return domain.TickerSnapshot{}, errors.Wrap(err, "failed to parse price change percent")
	}

	return domain.TickerSnapshot{
		Symbol:                symbol,
		LastPrice:             last,
		PriceChangePercent24h: change,
	}, nil
}
