package domain

import "github.com/shopspring/decimal"

// TickerSnapshot last price and 24h change for a symbol.
type TickerSnapshot struct {
	Symbol                string
	LastPrice             decimal.Decimal
	PriceChangePercent24h decimal.Decimal
}
