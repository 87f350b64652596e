package clients

import (
	"net/http"
	"time"

	"github.com/adshao/go-binance/v2"
)

// NewBinanceClient returns a client for Binance public market data.
// An empty baseURL keeps the library default.
func NewBinanceClient(baseURL string, timeout time.Duration) *binance.Client {
	client := binance.NewClient("", "")
	if baseURL != "" {
		client.BaseURL = baseURL
	}
	if timeout > 0 {
		client.HTTPClient = &http.Client{Timeout: timeout}
	}

	return client
}
