package crypto

import (
	"context"
	"errors"
	"fmt"

	"github.com/newthinker/elite/internal/collector/crypto/binance"
	"github.com/newthinker/elite/internal/collector/crypto/coingecko"
	"github.com/newthinker/elite/internal/collector/crypto/okx"
	"github.com/newthinker/elite/internal/collector/crypto/pair"
	"github.com/newthinker/elite/internal/core"
	"go.uber.org/zap"
)

// Collector implements collector.Provider for cryptocurrency markets
type Collector struct {
	exchanges    []Exchange
	defaultQuote string
	logger       *zap.Logger
}

// Options configures the crypto collector
type Options struct {
	Exchanges       []string
	DefaultQuote    string
	CoinGeckoAPIKey string
}

// New creates a Collector with exchanges in fallback order.
// Defaults to OKX first (accessible in China), then CoinGecko, then Binance.
func New(opts Options, logger ...*zap.Logger) *Collector {
	names := opts.Exchanges
	if len(names) == 0 {
		names = []string{"okx", "coingecko", "binance"}
	}

	exchanges := make([]Exchange, 0, len(names))
	for _, name := range names {
		switch name {
		case "okx":
			exchanges = append(exchanges, okx.New())
		case "coingecko":
			exchanges = append(exchanges, coingecko.New(opts.CoinGeckoAPIKey))
		case "binance":
			exchanges = append(exchanges, binance.New())
		}
	}
	return NewWithExchanges(exchanges, opts.DefaultQuote, logger...)
}

// NewWithExchanges creates a Collector with custom exchanges
func NewWithExchanges(exchanges []Exchange, defaultQuote string, logger ...*zap.Logger) *Collector {
	if defaultQuote == "" {
		defaultQuote = "USDT"
	}
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Collector{
		exchanges:    exchanges,
		defaultQuote: defaultQuote,
		logger:       l,
	}
}

func (c *Collector) Name() string {
	return "crypto"
}

func (c *Collector) Supports(typ core.InstrumentType) bool {
	return typ == core.InstrumentCrypto
}

// FetchSnapshot normalizes the symbol and tries each exchange in order
func (c *Collector) FetchSnapshot(ctx context.Context, symbol string, typ core.InstrumentType) (*core.Snapshot, error) {
	if err := pair.Validate(symbol); err != nil {
		return nil, core.WrapError(core.ErrSymbolNotFound, err)
	}
	normalized := pair.Normalize(symbol, c.defaultQuote)

	var errs []error
	notFound := 0
	for _, ex := range c.exchanges {
		snap, err := ex.FetchTicker(ctx, normalized)
		if err == nil {
			snap.Symbol = normalized
			snap.InstrumentType = core.InstrumentCrypto
			snap.Source = "crypto:" + ex.Name()
			return snap, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, core.ErrSymbolNotFound) {
			notFound++
		}
		c.logger.Debug("exchange failed",
			zap.String("exchange", ex.Name()),
			zap.String("pair", normalized),
			zap.Error(err),
		)
		errs = append(errs, fmt.Errorf("%s: %w", ex.Name(), err))
	}

	if len(errs) > 0 && notFound == len(errs) {
		return nil, core.WrapError(core.ErrSymbolNotFound, errors.Join(errs...))
	}
	return nil, core.WrapError(core.ErrCollectorFailed,
		fmt.Errorf("all exchanges failed for %s: %w", normalized, errors.Join(errs...)))
}
