// Package pair normalizes crypto trading pair symbols shared by the
// exchange providers.
package pair

import (
	"fmt"
	"regexp"
	"strings"
)

// Common quote currencies in order of priority for detection
var quoteCurrencies = []string{"USDT", "BUSD", "USDC", "BTC", "ETH", "BNB"}

var validPair = regexp.MustCompile(`^[A-Za-z0-9]{2,20}$`)

// coinIDs maps base tickers to CoinGecko coin ids
var coinIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"BNB":   "binancecoin",
	"SOL":   "solana",
	"XRP":   "ripple",
	"DOGE":  "dogecoin",
	"ADA":   "cardano",
	"AVAX":  "avalanche-2",
	"DOT":   "polkadot",
	"MATIC": "matic-network",
	"LINK":  "chainlink",
	"UNI":   "uniswap",
	"ATOM":  "cosmos",
	"LTC":   "litecoin",
	"ETC":   "ethereum-classic",
	"XLM":   "stellar",
	"ALGO":  "algorand",
	"NEAR":  "near",
	"AAVE":  "aave",
	"ARB":   "arbitrum",
	"OP":    "optimism",
}

var tickers = func() map[string]string {
	m := make(map[string]string, len(coinIDs))
	for ticker, id := range coinIDs {
		m[id] = ticker
	}
	return m
}()

// Normalize converts various input formats to the standard pair (e.g., BTCUSDT).
// Accepts "BTC", "btc", "BTC-USDT", "BTC/USDT", "btcusdt" and CoinGecko ids
// such as "bitcoin".
func Normalize(input, defaultQuote string) string {
	if input == "" {
		return ""
	}
	if ticker, ok := tickers[strings.ToLower(input)]; ok {
		input = ticker
	}

	s := strings.ToUpper(input)
	s = strings.NewReplacer("-", "", "/", "", "_", "").Replace(s)

	for _, quote := range quoteCurrencies {
		if strings.HasSuffix(s, quote) && len(s) > len(quote) {
			return s
		}
	}
	return s + strings.ToUpper(defaultQuote)
}

// Parse extracts base and quote from a normalized pair
// "BTCUSDT" -> ("BTC", "USDT")
func Parse(symbol string) (base, quote string) {
	s := strings.ToUpper(symbol)

	for _, q := range quoteCurrencies {
		if strings.HasSuffix(s, q) && len(s) > len(q) {
			return strings.TrimSuffix(s, q), q
		}
	}

	// Fallback: assume last 4 chars are quote (USDT, BUSD, etc.)
	if len(s) > 4 {
		return s[:len(s)-4], s[len(s)-4:]
	}
	return s, ""
}

// Display converts "BTCUSDT" to "BTC/USDT"
func Display(symbol string) string {
	base, quote := Parse(symbol)
	if quote == "" {
		return base
	}
	return base + "/" + quote
}

// CoinID returns the CoinGecko id for a base ticker
func CoinID(base string) string {
	if id, ok := coinIDs[strings.ToUpper(base)]; ok {
		return id
	}
	return strings.ToLower(base)
}

// Validate checks that a symbol can be normalized
func Validate(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 30 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}

	s := strings.NewReplacer("-", "", "/", "", "_", "").Replace(symbol)
	if !validPair.MatchString(s) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}
