package pair

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input        string
		defaultQuote string
		expected     string
	}{
		{"BTC", "USDT", "BTCUSDT"},
		{"btc", "USDT", "BTCUSDT"},
		{"eth", "USDT", "ETHUSDT"},

		// With separators
		{"BTC-USDT", "USDT", "BTCUSDT"},
		{"btc/usdt", "USDT", "BTCUSDT"},
		{"BTC_USDT", "USDT", "BTCUSDT"},

		// Already normalized
		{"BTCUSDT", "USDT", "BTCUSDT"},
		{"btcusdt", "USDT", "BTCUSDT"},

		// Different quote currencies
		{"BTC-BUSD", "USDT", "BTCBUSD"},
		{"ETH/BTC", "USDT", "ETHBTC"},
		{"BTC", "USDC", "BTCUSDC"},

		// CoinGecko ids
		{"bitcoin", "USDT", "BTCUSDT"},
		{"avalanche-2", "USDT", "AVAXUSDT"},
		{"Ethereum", "USDT", "ETHUSDT"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := Normalize(tc.input, tc.defaultQuote)
			if got != tc.expected {
				t.Errorf("Normalize(%q, %q) = %q, want %q",
					tc.input, tc.defaultQuote, got, tc.expected)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		symbol string
		base   string
		quote  string
	}{
		{"BTCUSDT", "BTC", "USDT"},
		{"ETHBTC", "ETH", "BTC"},
		{"SOLUSDC", "SOL", "USDC"},
		{"DOGEXYZW", "DOGE", "XYZW"},
		{"ABC", "ABC", ""},
	}

	for _, tc := range tests {
		base, quote := Parse(tc.symbol)
		if base != tc.base || quote != tc.quote {
			t.Errorf("Parse(%q) = (%q, %q), want (%q, %q)", tc.symbol, base, quote, tc.base, tc.quote)
		}
	}
}

func TestDisplay(t *testing.T) {
	if got := Display("BTCUSDT"); got != "BTC/USDT" {
		t.Errorf("Display(BTCUSDT) = %q", got)
	}
	if got := Display("ABC"); got != "ABC" {
		t.Errorf("Display(ABC) = %q", got)
	}
}

func TestCoinID(t *testing.T) {
	if got := CoinID("btc"); got != "bitcoin" {
		t.Errorf("CoinID(btc) = %q", got)
	}
	if got := CoinID("PEPE"); got != "pepe" {
		t.Errorf("CoinID(PEPE) = %q", got)
	}
}

func TestValidate(t *testing.T) {
	valid := []string{"BTC", "btc-usdt", "ETH/BTC", "bitcoin"}
	for _, s := range valid {
		if err := Validate(s); err != nil {
			t.Errorf("Validate(%q) unexpected error: %v", s, err)
		}
	}

	invalid := []string{"", "B", "BTC USDT", "BTC$", "AVERYVERYVERYVERYLONGSYMBOLNAME00"}
	for _, s := range invalid {
		if err := Validate(s); err == nil {
			t.Errorf("Validate(%q) expected error", s)
		}
	}
}
