package collector

import (
	"context"

	"github.com/newthinker/elite/internal/core"
)

// Provider fetches point-in-time market snapshots.
//
// FetchSnapshot returns core.ErrSymbolNotFound when the source does not know
// the symbol and a wrapped core.ErrCollectorFailed for transport or decoding
// failures. Fields the source does not report are left at zero.
type Provider interface {
	// Name returns the provider identifier (e.g., "yahoo", "crypto")
	Name() string

	// Supports reports whether the provider serves the instrument type
	Supports(typ core.InstrumentType) bool

	FetchSnapshot(ctx context.Context, symbol string, typ core.InstrumentType) (*core.Snapshot, error)
}
