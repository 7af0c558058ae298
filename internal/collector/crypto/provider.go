package crypto

import (
	"context"

	"github.com/newthinker/elite/internal/core"
)

// Exchange defines the interface for cryptocurrency data sources
type Exchange interface {
	// Name returns the exchange identifier (e.g., "okx", "coingecko")
	Name() string

	// FetchTicker fetches the 24h ticker for a normalized pair (e.g., "BTCUSDT")
	FetchTicker(ctx context.Context, pair string) (*core.Snapshot, error)
}
