package domain

import (
	"fmt"
	"strings"
)

// CoinRef a coin offered in the coin menu.
type CoinRef struct {
	// Label is the menu text, an emoji followed by the display name.
	Label string
	// DisplayName is the label without its emoji, e.g. "Bitcoin (BTC)".
	DisplayName string
	// Symbol is the exchange ticker pair, e.g. "BTCUSDT".
	Symbol string
}

// NewCoinRef builds a CoinRef from a menu label and exchange symbol.
func NewCoinRef(label, symbol string) CoinRef {
	return CoinRef{
		Label:       label,
		DisplayName: displayNameFromLabel(label),
		Symbol:      symbol,
	}
}

func displayNameFromLabel(label string) string {
	_, name, found := strings.Cut(label, " ")
	if !found {
		return label
	}
	return strings.TrimSpace(name)
}

// CoinCatalog immutable list of coins with name lookup.
type CoinCatalog struct {
	coins  []CoinRef
	byName map[string]int
}

// NewCoinCatalog validates coins and builds a catalog.
func NewCoinCatalog(coins []CoinRef) (*CoinCatalog, error) {
	byName := make(map[string]int, len(coins))
	for i, c := range coins {
		if c.DisplayName == "" {
			return nil, fmt.Errorf("coin at index %d has empty display name", i)
		}
		if c.Symbol == "" {
			return nil, fmt.Errorf("coin %q has empty symbol", c.DisplayName)
		}
		if _, dup := byName[c.DisplayName]; dup {
			return nil, fmt.Errorf("duplicate coin display name %q", c.DisplayName)
		}
		byName[c.DisplayName] = i
	}

	stored := make([]CoinRef, len(coins))
	copy(stored, coins)

	return &CoinCatalog{coins: stored, byName: byName}, nil
}

// DefaultCoinCatalog returns the built-in catalog of supported coins.
func DefaultCoinCatalog() *CoinCatalog {
	catalog, err := NewCoinCatalog(defaultCoins)
	if err != nil {
		panic(err)
	}
	return catalog
}

// Len returns the number of coins.
func (c *CoinCatalog) Len() int {
	return len(c.coins)
}

// Coins returns a copy of the coins in menu order.
func (c *CoinCatalog) Coins() []CoinRef {
	out := make([]CoinRef, len(c.coins))
	copy(out, c.coins)
	return out
}

// ByIndex returns the coin at the menu position.
func (c *CoinCatalog) ByIndex(i int) (CoinRef, bool) {
	if i < 0 || i >= len(c.coins) {
		return CoinRef{}, false
	}
	return c.coins[i], true
}

// ByName returns the coin with the given display name.
func (c *CoinCatalog) ByName(name string) (CoinRef, bool) {
	i, ok := c.byName[name]
	if !ok {
		return CoinRef{}, false
	}
	return c.coins[i], true
}

// BySymbol returns the first coin trading under the exchange symbol.
func (c *CoinCatalog) BySymbol(symbol string) (CoinRef, bool) {
	symbol = strings.ToUpper(symbol)
	for _, coin := range c.coins {
		if coin.Symbol == symbol {
			return coin, true
		}
	}
	return CoinRef{}, false
}
