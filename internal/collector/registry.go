package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/newthinker/elite/internal/core"
	"go.uber.org/zap"
)

// Registry manages snapshot providers and routes requests by instrument type
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	order     []string
	logger    *zap.Logger
}

// NewRegistry creates a new provider registry
func NewRegistry(logger ...*zap.Logger) *Registry {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Registry{
		providers: make(map[string]Provider),
		logger:    l,
	}
}

// Register adds a provider. Registration order is the fallback order.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[p.Name()]; !exists {
		r.order = append(r.order, p.Name())
	}
	r.providers[p.Name()] = p
}

// Get retrieves a provider by name
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// GetAll returns all registered providers in registration order
func (r *Registry) GetAll() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Provider, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.providers[name])
	}
	return result
}

// For returns the providers supporting typ in registration order
func (r *Registry) For(typ core.InstrumentType) []Provider {
	var result []Provider
	for _, p := range r.GetAll() {
		if p.Supports(typ) {
			result = append(result, p)
		}
	}
	return result
}

func (r *Registry) Name() string {
	return "registry"
}

func (r *Registry) Supports(typ core.InstrumentType) bool {
	return len(r.For(typ)) > 0
}

// FetchSnapshot tries every provider supporting typ; the first success wins.
// If every provider reports the symbol unknown the result is ErrSymbolNotFound.
func (r *Registry) FetchSnapshot(ctx context.Context, symbol string, typ core.InstrumentType) (*core.Snapshot, error) {
	candidates := r.For(typ)
	if len(candidates) == 0 {
		return nil, core.WrapError(core.ErrNoData,
			fmt.Errorf("no provider for instrument type %s", typ))
	}

	var errs []error
	notFound := 0
	for _, p := range candidates {
		snap, err := p.FetchSnapshot(ctx, symbol, typ)
		if err == nil {
			return snap, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, core.ErrSymbolNotFound) {
			notFound++
		}
		r.logger.Debug("provider failed",
			zap.String("provider", p.Name()),
			zap.String("symbol", symbol),
			zap.Error(err),
		)
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
	}

	if notFound == len(candidates) {
		return nil, core.WrapError(core.ErrSymbolNotFound, errors.Join(errs...))
	}
	return nil, core.WrapError(core.ErrCollectorFailed, errors.Join(errs...))
}
