//go:build integration

package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/chartbot/internal/clients"
	"github.com/vadiminshakov/chartbot/internal/domain"
	"go.uber.org/zap"
)

// Calls the public Binance and Bybit market endpoints.
// Run with: go test -tags=integration ./internal/services/marketdata/...
func TestCollector_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	providers := map[string]KlineProvider{
		"binance": NewBinanceKlineProvider(clients.NewBinanceClient("", 10*time.Second)),
		"bybit":   NewBybitKlineProvider(clients.NewBybitClient("")),
	}

	for name, provider := range providers {
		t.Run(name, func(t *testing.T) {
			collector := NewCollector(provider, 15*time.Second, zap.NewNop())
			ctx := context.Background()

			for _, tf := range domain.AnalysisTimeframes {
				series, err := collector.FetchTimeframe(ctx, "BTCUSDT", tf)
				require.NoError(t, err, tf)
				assert.Len(t, series, tf.Params().Limit, tf)
				for i := 1; i < len(series); i++ {
					assert.True(t, series[i-1].OpenTime.Before(series[i].OpenTime), "%s candles must ascend", tf)
				}
			}

			ticker, err := collector.FetchTicker(ctx, "ETHUSDT")
			require.NoError(t, err)
			assert.True(t, ticker.LastPrice.GreaterThan(decimal.Zero))
			t.Logf("%s ETHUSDT last=%s change=%s%%", name, ticker.LastPrice, ticker.PriceChangePercent24h)
		})
	}
}
