package collector

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/newthinker/elite/internal/core"
)

// stubProvider for testing
type stubProvider struct {
	name  string
	typ   core.InstrumentType
	snap  *core.Snapshot
	err   error
	calls int
}

func (s *stubProvider) Name() string                          { return s.name }
func (s *stubProvider) Supports(typ core.InstrumentType) bool { return typ == s.typ }
func (s *stubProvider) FetchSnapshot(ctx context.Context, symbol string, typ core.InstrumentType) (*core.Snapshot, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	snap := *s.snap
	snap.Symbol = symbol
	return &snap, nil
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubProvider{name: "stub", typ: core.InstrumentEquity})

	p, ok := r.Get("stub")
	if !ok {
		t.Fatal("expected to find registered provider")
	}
	if p.Name() != "stub" {
		t.Errorf("expected name 'stub', got '%s'", p.Name())
	}
}

func TestRegistry_GetAllKeepsOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubProvider{name: "b"})
	r.Register(&stubProvider{name: "a"})
	r.Register(&stubProvider{name: "b"})

	all := r.GetAll()
	if len(all) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(all))
	}
	if all[0].Name() != "b" || all[1].Name() != "a" {
		t.Errorf("unexpected order: %s, %s", all[0].Name(), all[1].Name())
	}
}

func TestRegistry_RoutesByType(t *testing.T) {
	equity := &stubProvider{name: "eq", typ: core.InstrumentEquity, snap: &core.Snapshot{Price: 10}}
	crypto := &stubProvider{name: "cr", typ: core.InstrumentCrypto, snap: &core.Snapshot{Price: 20}}

	r := NewRegistry()
	r.Register(equity)
	r.Register(crypto)

	snap, err := r.FetchSnapshot(context.Background(), "BTC", core.InstrumentCrypto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Price != 20 {
		t.Errorf("expected crypto provider price 20, got %v", snap.Price)
	}
	if equity.calls != 0 {
		t.Errorf("equity provider should not be called, got %d calls", equity.calls)
	}
}

func TestRegistry_Fallback(t *testing.T) {
	failing := &stubProvider{name: "fail", typ: core.InstrumentEquity, err: core.WrapError(core.ErrCollectorFailed, fmt.Errorf("boom"))}
	working := &stubProvider{name: "ok", typ: core.InstrumentEquity, snap: &core.Snapshot{Price: 42}}

	r := NewRegistry()
	r.Register(failing)
	r.Register(working)

	snap, err := r.FetchSnapshot(context.Background(), "AAPL", core.InstrumentEquity)
	if err != nil {
		t.Fatalf("expected fallback success, got %v", err)
	}
	if snap.Symbol != "AAPL" || snap.Price != 42 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()
	if _, err := r.FetchSnapshot(context.Background(), "AAPL", core.InstrumentEquity); !errors.Is(err, core.ErrNoData) {
		t.Errorf("expected ErrNoData without providers, got %v", err)
	}

	r.Register(&stubProvider{name: "a", typ: core.InstrumentEquity, err: core.ErrSymbolNotFound})
	r.Register(&stubProvider{name: "b", typ: core.InstrumentEquity, err: core.ErrSymbolNotFound})
	if _, err := r.FetchSnapshot(context.Background(), "ZZZZ", core.InstrumentEquity); !errors.Is(err, core.ErrSymbolNotFound) {
		t.Errorf("expected ErrSymbolNotFound, got %v", err)
	}

	r.Register(&stubProvider{name: "c", typ: core.InstrumentEquity, err: fmt.Errorf("timeout")})
	if _, err := r.FetchSnapshot(context.Background(), "ZZZZ", core.InstrumentEquity); !errors.Is(err, core.ErrCollectorFailed) {
		t.Errorf("expected ErrCollectorFailed when any provider failed, got %v", err)
	}
}

func TestRegistry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	second := &stubProvider{name: "b", typ: core.InstrumentEquity, snap: &core.Snapshot{Price: 1}}
	r := NewRegistry()
	r.Register(&stubProvider{name: "a", typ: core.InstrumentEquity, err: context.Canceled})
	r.Register(second)

	if _, err := r.FetchSnapshot(ctx, "AAPL", core.InstrumentEquity); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if second.calls != 0 {
		t.Error("no provider should be tried after cancellation")
	}
}
