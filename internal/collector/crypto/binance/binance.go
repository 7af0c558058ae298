package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/newthinker/elite/internal/core"
	"github.com/shopspring/decimal"
)

const (
	baseURL = "https://api.binance.com"

	// binance error code for an unknown symbol
	codeInvalidSymbol = -1121
)

// Binance implements the crypto Exchange interface for Binance
type Binance struct {
	client  *http.Client
	baseURL string
}

// New creates a new Binance provider
func New() *Binance {
	return &Binance{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// NewWithBaseURL creates a Binance provider with custom base URL (for testing)
func NewWithBaseURL(url string) *Binance {
	b := New()
	b.baseURL = url
	return b
}

func (b *Binance) Name() string {
	return "binance"
}

// FetchTicker fetches the 24h ticker from Binance
func (b *Binance) FetchTicker(ctx context.Context, symbol string) (*core.Snapshot, error) {
	url := fmt.Sprintf("%s/api/v3/ticker/24hr?symbol=%s", b.baseURL, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("fetching ticker: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Code == codeInvalidSymbol {
			return nil, core.WrapError(core.ErrSymbolNotFound, fmt.Errorf("binance: %s", symbol))
		}
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var result ticker24hr
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("decoding response: %w", err))
	}

	timestamp := time.Now()
	if result.CloseTime > 0 {
		timestamp = time.UnixMilli(result.CloseTime)
	}

	return &core.Snapshot{
		Symbol:         symbol,
		InstrumentType: core.InstrumentCrypto,
		Price:          parse(result.LastPrice).InexactFloat64(),
		ChangePercent:  parse(result.PriceChangePercent).InexactFloat64(),
		Volume:         parse(result.QuoteVolume).InexactFloat64(),
		Timestamp:      timestamp,
		Source:         "binance",
	}, nil
}

func parse(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Binance API response types
type ticker24hr struct {
	Symbol             string `json:"symbol"`
	PriceChange        string `json:"priceChange"`
	PriceChangePercent string `json:"priceChangePercent"`
	LastPrice          string `json:"lastPrice"`
	Volume             string `json:"volume"`
	QuoteVolume        string `json:"quoteVolume"`
	CloseTime          int64  `json:"closeTime"`
}

type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}
