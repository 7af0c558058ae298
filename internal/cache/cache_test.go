package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/newthinker/elite/internal/analysis"
	"github.com/newthinker/elite/internal/config"
	"github.com/newthinker/elite/internal/core"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	c := NewFromConfig(config.CacheConfig{Addr: s.Addr(), TTL: time.Minute})
	t.Cleanup(func() { c.Close() })
	return c, s
}

func TestKey_StableAndSensitive(t *testing.T) {
	snap := &core.Snapshot{Symbol: "AAPL", Price: 100, ChangePercent: 8, Volume: 5e7, MarketCap: 2e11}

	base := Key("AAPL", core.InstrumentEquity, snap)
	assert.Contains(t, base, "elite:analysis:equity:AAPL:")
	assert.Equal(t, base, Key("aapl", core.InstrumentEquity, snap))

	later := *snap
	later.Timestamp = time.Now()
	later.Source = "other"
	assert.Equal(t, base, Key("AAPL", core.InstrumentEquity, &later), "timestamp and source are not part of the key")

	moved := *snap
	moved.Price = 100.01
	assert.NotEqual(t, base, Key("AAPL", core.InstrumentEquity, &moved))
	assert.NotEqual(t, base, Key("AAPL", core.InstrumentCrypto, snap))
	assert.NotEqual(t, base, Key("AAPL", core.InstrumentEquity, nil))
}

func TestCache_SetGet(t *testing.T) {
	c, s := newTestCache(t)
	ctx := context.Background()

	snap := &core.Snapshot{Symbol: "AAPL", InstrumentType: core.InstrumentEquity, Price: 100, ChangePercent: 8, Volume: 5e7, MarketCap: 2e11}
	result := analysis.NewEngine().Analyze("AAPL", core.InstrumentEquity, snap)
	key := Key("AAPL", core.InstrumentEquity, snap)

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, result))
	assert.True(t, s.Exists(key))
	assert.Equal(t, time.Minute, s.TTL(key))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, result.OverallScore, got.OverallScore)
	assert.Equal(t, result.Recommendation, got.Recommendation)
	require.NotNil(t, got.Fundamental)
	assert.Equal(t, result.Fundamental.Grade, got.Fundamental.Grade)
	assert.True(t, result.Timestamp.Equal(got.Timestamp))

	s.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "entry should expire after ttl")
}

func TestCache_CorruptEntry(t *testing.T) {
	c, s := newTestCache(t)
	require.NoError(t, s.Set("elite:analysis:equity:X:1", "{not json"))

	_, _, err := c.Get(context.Background(), "elite:analysis:equity:X:1")
	assert.True(t, errors.Is(err, core.ErrCacheFailed))
}

func TestCache_Unavailable(t *testing.T) {
	s := miniredis.RunT(t)
	c := New(redis.NewClient(&redis.Options{Addr: s.Addr(), MaxRetries: -1}), time.Minute)
	defer c.Close()

	require.NoError(t, c.Ping(context.Background()))
	s.Close()

	assert.True(t, errors.Is(c.Ping(context.Background()), core.ErrCacheFailed))
	_, _, err := c.Get(context.Background(), "k")
	assert.True(t, errors.Is(err, core.ErrCacheFailed))
}
