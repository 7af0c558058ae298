package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/newthinker/elite/internal/core"
)

const (
	baseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
)

// validSymbol matches stock symbols like AAPL, BRK-B, 600519.SH, 0700.HK
var validSymbol = regexp.MustCompile(`^[A-Za-z0-9^]{1,10}([.-][A-Za-z]{1,4})?$`)

// validateSymbol checks if a symbol has valid format
func validateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 20 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !validSymbol.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// Yahoo implements collector.Provider for equities via Yahoo Finance
type Yahoo struct {
	client  *http.Client
	baseURL string
}

// New creates a new Yahoo provider
func New() *Yahoo {
	return &Yahoo{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// NewWithBaseURL creates a Yahoo provider with custom base URL (for testing)
func NewWithBaseURL(url string) *Yahoo {
	y := New()
	if url != "" {
		y.baseURL = url
	}
	return y
}

func (y *Yahoo) Name() string {
	return "yahoo"
}

func (y *Yahoo) Supports(typ core.InstrumentType) bool {
	return typ == core.InstrumentEquity
}

// toYahooSymbol converts internal symbol format to Yahoo format
func (y *Yahoo) toYahooSymbol(symbol string) string {
	symbol = strings.ToUpper(symbol)
	// Shanghai stocks: 600519.SH -> 600519.SS
	if strings.HasSuffix(symbol, ".SH") {
		return strings.TrimSuffix(symbol, ".SH") + ".SS"
	}
	return symbol
}

// FetchSnapshot fetches the latest daily quote. changePercent is computed
// from the previous close.
func (y *Yahoo) FetchSnapshot(ctx context.Context, symbol string, typ core.InstrumentType) (*core.Snapshot, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, core.WrapError(core.ErrSymbolNotFound, err)
	}
	yahooSymbol := y.toYahooSymbol(symbol)
	endpoint := fmt.Sprintf("%s/%s?interval=1d&range=1d", y.baseURL, url.PathEscape(yahooSymbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("fetching quote: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, core.WrapError(core.ErrSymbolNotFound, fmt.Errorf("yahoo: %s", symbol))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("decoding response: %w", err))
	}

	if result.Chart.Error != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("yahoo error: %s", result.Chart.Error.Description))
	}
	if len(result.Chart.Result) == 0 {
		return nil, core.WrapError(core.ErrSymbolNotFound, fmt.Errorf("no data for symbol: %s", symbol))
	}

	return toSnapshot(strings.ToUpper(symbol), result.Chart.Result[0].Meta), nil
}

func toSnapshot(symbol string, meta chartMeta) *core.Snapshot {
	price := meta.RegularMarketPrice
	if price == 0 {
		price = meta.PreviousClose
	}
	prevClose := meta.PreviousClose
	if prevClose == 0 {
		prevClose = meta.ChartPreviousClose
	}
	if prevClose == 0 {
		prevClose = price
	}

	changePercent := 0.0
	if prevClose != 0 {
		changePercent = (price - prevClose) / prevClose * 100
	}

	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}

	timestamp := time.Now()
	if meta.RegularMarketTime > 0 {
		timestamp = time.Unix(meta.RegularMarketTime, 0)
	}

	return &core.Snapshot{
		Symbol:         symbol,
		Name:           name,
		InstrumentType: core.InstrumentEquity,
		Price:          price,
		ChangePercent:  changePercent,
		Volume:         meta.RegularMarketVolume,
		MarketCap:      meta.MarketCap,
		Timestamp:      timestamp,
		Source:         "yahoo",
	}
}

// Yahoo API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta chartMeta `json:"meta"`
}

type chartMeta struct {
	Symbol              string  `json:"symbol"`
	LongName            string  `json:"longName"`
	ShortName           string  `json:"shortName"`
	RegularMarketPrice  float64 `json:"regularMarketPrice"`
	PreviousClose       float64 `json:"previousClose"`
	ChartPreviousClose  float64 `json:"chartPreviousClose"`
	RegularMarketVolume float64 `json:"regularMarketVolume"`
	RegularMarketTime   int64   `json:"regularMarketTime"`
	MarketCap           float64 `json:"marketCap"`
}
