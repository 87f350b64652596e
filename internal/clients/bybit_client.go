package clients

import (
	"github.com/hirokisan/bybit/v2"
)

// NewBybitClient returns a client for Bybit public market data.
// An empty baseURL keeps the library default.
func NewBybitClient(baseURL string) *bybit.Client {
	client := bybit.NewClient()
	if baseURL != "" {
		client = client.WithBaseURL(baseURL)
	}

	return client
}
