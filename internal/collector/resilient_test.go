package collector

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/newthinker/elite/internal/core"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResilient_PassesThrough(t *testing.T) {
	inner := &stubProvider{name: "eq", typ: core.InstrumentEquity, snap: &core.Snapshot{Price: 7}}
	r := NewResilient(inner, ResilienceOptions{})

	assert.Equal(t, "eq", r.Name())
	assert.True(t, r.Supports(core.InstrumentEquity))
	assert.False(t, r.Supports(core.InstrumentCrypto))

	snap, err := r.FetchSnapshot(context.Background(), "AAPL", core.InstrumentEquity)
	require.NoError(t, err)
	assert.Equal(t, 7.0, snap.Price)
}

func TestResilient_BreakerOpens(t *testing.T) {
	inner := &stubProvider{name: "flaky", typ: core.InstrumentEquity, err: core.WrapError(core.ErrCollectorFailed, fmt.Errorf("503"))}
	r := NewResilient(inner, ResilienceOptions{MaxFailures: 2, Timeout: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := r.FetchSnapshot(context.Background(), "AAPL", core.InstrumentEquity)
		assert.True(t, errors.Is(err, core.ErrCollectorFailed))
	}
	assert.Equal(t, gobreaker.StateOpen, r.State())

	_, err := r.FetchSnapshot(context.Background(), "AAPL", core.InstrumentEquity)
	assert.True(t, errors.Is(err, core.ErrCircuitOpen), "got %v", err)
	assert.Equal(t, 2, inner.calls, "open breaker must not call the provider")
}

func TestResilient_NotFoundDoesNotTrip(t *testing.T) {
	inner := &stubProvider{name: "eq", typ: core.InstrumentEquity, err: core.ErrSymbolNotFound}
	r := NewResilient(inner, ResilienceOptions{MaxFailures: 1})

	for i := 0; i < 3; i++ {
		_, err := r.FetchSnapshot(context.Background(), "ZZZZ", core.InstrumentEquity)
		assert.True(t, errors.Is(err, core.ErrSymbolNotFound))
	}
	assert.Equal(t, gobreaker.StateClosed, r.State())
}

func TestResilient_RateLimitHonorsContext(t *testing.T) {
	inner := &stubProvider{name: "eq", typ: core.InstrumentEquity, snap: &core.Snapshot{Price: 1}}
	r := NewResilient(inner, ResilienceOptions{RatePerSecond: 0.001, Burst: 1})

	_, err := r.FetchSnapshot(context.Background(), "AAPL", core.InstrumentEquity)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = r.FetchSnapshot(ctx, "AAPL", core.InstrumentEquity)
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

type blockingProvider struct{}

func (blockingProvider) Name() string                      { return "slow" }
func (blockingProvider) Supports(core.InstrumentType) bool { return true }

func (blockingProvider) FetchSnapshot(ctx context.Context, _ string, _ core.InstrumentType) (*core.Snapshot, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestResilient_CallTimeout(t *testing.T) {
	r := NewResilient(blockingProvider{}, ResilienceOptions{CallTimeout: 10 * time.Millisecond, MaxFailures: 1})

	_, err := r.FetchSnapshot(context.Background(), "AAPL", core.InstrumentEquity)
	assert.True(t, errors.Is(err, core.ErrCollectorTimeout), "got %v", err)
	assert.Equal(t, gobreaker.StateOpen, r.State(), "timeouts count as failures")
}

func TestResilient_CallerCancelIsNotTimeout(t *testing.T) {
	r := NewResilient(blockingProvider{}, ResilienceOptions{CallTimeout: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.FetchSnapshot(ctx, "AAPL", core.InstrumentEquity)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, core.ErrCollectorTimeout))
	assert.Equal(t, gobreaker.StateClosed, r.State())
}

func TestResilient_CallerDeadlineDoesNotTrip(t *testing.T) {
	r := NewResilient(blockingProvider{}, ResilienceOptions{MaxFailures: 2, Timeout: time.Minute})

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		_, err := r.FetchSnapshot(ctx, "AAPL", core.InstrumentEquity)
		cancel()
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.False(t, errors.Is(err, core.ErrCollectorTimeout))
		assert.False(t, errors.Is(err, core.ErrCircuitOpen))
	}
	assert.Equal(t, gobreaker.StateClosed, r.State())
}
