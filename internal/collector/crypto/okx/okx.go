package okx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/newthinker/elite/internal/collector/crypto/pair"
	"github.com/newthinker/elite/internal/core"
	"github.com/shopspring/decimal"
)

const (
	baseURL = "https://www.okx.com"

	// okx error code for an unknown instrument
	codeInstrumentNotFound = "51001"
)

// OKX implements the crypto Exchange interface for OKX
type OKX struct {
	client  *http.Client
	baseURL string
}

// New creates a new OKX provider
func New() *OKX {
	return &OKX{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// NewWithBaseURL creates an OKX provider with custom base URL (for testing)
func NewWithBaseURL(url string) *OKX {
	o := New()
	o.baseURL = url
	return o
}

func (o *OKX) Name() string {
	return "okx"
}

// toInstID converts normalized symbol to OKX instrument ID
// BTCUSDT -> BTC-USDT
func (o *OKX) toInstID(symbol string) string {
	base, quote := pair.Parse(symbol)
	return base + "-" + quote
}

// FetchTicker fetches the 24h ticker from OKX
func (o *OKX) FetchTicker(ctx context.Context, symbol string) (*core.Snapshot, error) {
	instID := o.toInstID(symbol)
	url := fmt.Sprintf("%s/api/v5/market/ticker?instId=%s", o.baseURL, instID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("fetching ticker: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var result tickerResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("decoding response: %w", err))
	}

	if result.Code == codeInstrumentNotFound || (result.Code == "0" && len(result.Data) == 0) {
		return nil, core.WrapError(core.ErrSymbolNotFound, fmt.Errorf("okx: %s", instID))
	}
	if result.Code != "0" {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("okx error %s: %s", result.Code, result.Msg))
	}

	data := result.Data[0]
	last := parse(data.Last)
	open := parse(data.Open24h)

	changePercent := decimal.Zero
	if open.IsPositive() {
		changePercent = last.Sub(open).Div(open).Mul(decimal.NewFromInt(100))
	}

	ts := parse(data.Ts).IntPart()
	timestamp := time.Now()
	if ts > 0 {
		timestamp = time.UnixMilli(ts)
	}

	return &core.Snapshot{
		Symbol:         symbol,
		InstrumentType: core.InstrumentCrypto,
		Price:          last.InexactFloat64(),
		ChangePercent:  changePercent.InexactFloat64(),
		Volume:         parse(data.VolCcy24h).InexactFloat64(),
		Timestamp:      timestamp,
		Source:         "okx",
	}, nil
}

// parse reads an exchange decimal string; malformed or empty values are zero
func parse(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// OKX API response types
type tickerResponse struct {
	Code string   `json:"code"`
	Msg  string   `json:"msg"`
	Data []ticker `json:"data"`
}

type ticker struct {
	InstID    string `json:"instId"`
	Last      string `json:"last"`
	Open24h   string `json:"open24h"`
	High24h   string `json:"high24h"`
	Low24h    string `json:"low24h"`
	Vol24h    string `json:"vol24h"`
	VolCcy24h string `json:"volCcy24h"`
	Ts        string `json:"ts"`
}
