package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/newthinker/elite/internal/collector/crypto/pair"
	"github.com/newthinker/elite/internal/core"
)

const (
	baseURL = "https://api.coingecko.com/api/v3"
)

// CoinGecko implements the crypto Exchange interface
type CoinGecko struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// New creates a new CoinGecko provider
func New(apiKey string) *CoinGecko {
	return &CoinGecko{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// NewWithBaseURL creates a CoinGecko provider with custom base URL (for testing)
func NewWithBaseURL(apiKey, url string) *CoinGecko {
	c := New(apiKey)
	c.baseURL = url
	return c
}

func (c *CoinGecko) Name() string {
	return "coingecko"
}

// vsCurrency maps the pair's quote to a CoinGecko vs_currency
func vsCurrency(quote string) string {
	switch quote {
	case "BTC":
		return "btc"
	case "ETH":
		return "eth"
	case "BNB":
		return "bnb"
	default:
		return "usd"
	}
}

// FetchTicker fetches price, 24h change, volume and market cap from CoinGecko
func (c *CoinGecko) FetchTicker(ctx context.Context, symbol string) (*core.Snapshot, error) {
	base, quote := pair.Parse(symbol)
	coinID := pair.CoinID(base)
	vs := vsCurrency(quote)

	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s&include_market_cap=true&include_24hr_vol=true&include_24hr_change=true&include_last_updated_at=true",
		c.baseURL, coinID, vs)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("fetching price: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var result map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("decoding response: %w", err))
	}

	coin, ok := result[coinID]
	if !ok || len(coin) == 0 {
		return nil, core.WrapError(core.ErrSymbolNotFound, fmt.Errorf("coingecko: no data for coin %s", coinID))
	}

	timestamp := time.Now()
	if updated := coin["last_updated_at"]; updated > 0 {
		timestamp = time.Unix(int64(updated), 0)
	}

	return &core.Snapshot{
		Symbol:         symbol,
		Name:           coinID,
		InstrumentType: core.InstrumentCrypto,
		Price:          coin[vs],
		ChangePercent:  coin[vs+"_24h_change"],
		Volume:         coin[vs+"_24h_vol"],
		MarketCap:      coin[vs+"_market_cap"],
		Timestamp:      timestamp,
		Source:         "coingecko",
	}, nil
}
