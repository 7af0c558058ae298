// Package cache stores composite analyses in Redis keyed by the snapshot they
// were computed from.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/newthinker/elite/internal/analysis"
	"github.com/newthinker/elite/internal/config"
	"github.com/newthinker/elite/internal/core"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "elite:analysis"

// Cache is a Redis-backed result cache
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New wraps an existing client
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// NewFromConfig creates a client from the cache configuration
func NewFromConfig(cfg config.CacheConfig) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return New(client, cfg.TTL)
}

// Key derives the cache key for an analysis request. Identical inputs map to
// the same key; the snapshot timestamp and source are ignored.
func Key(symbol string, typ core.InstrumentType, snap *core.Snapshot) string {
	h := xxhash.New()
	h.WriteString(strings.ToUpper(symbol))
	h.WriteString("|")
	h.WriteString(string(typ))
	if snap.IsValid() {
		for _, v := range []float64{snap.Price, snap.ChangePercent, snap.Volume, snap.MarketCap} {
			h.WriteString("|")
			h.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		h.WriteString("|")
		h.WriteString(snap.Name)
	} else {
		h.WriteString("|nodata")
	}
	return fmt.Sprintf("%s:%s:%s:%016x", keyPrefix, typ, strings.ToUpper(symbol), h.Sum64())
}

// Get returns the cached analysis. A miss is (nil, false, nil).
func (c *Cache) Get(ctx context.Context, key string) (*analysis.CompositeAnalysis, bool, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, core.WrapError(core.ErrCacheFailed, err)
	}

	var result analysis.CompositeAnalysis
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, false, core.WrapError(core.ErrCacheFailed, fmt.Errorf("decoding cached analysis: %w", err))
	}
	return &result, true, nil
}

// Set stores an analysis under key with the configured TTL
func (c *Cache) Set(ctx context.Context, key string, result *analysis.CompositeAnalysis) error {
	b, err := json.Marshal(result)
	if err != nil {
		return core.WrapError(core.ErrCacheFailed, fmt.Errorf("encoding analysis: %w", err))
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		return core.WrapError(core.ErrCacheFailed, err)
	}
	return nil
}

// Ping checks connectivity
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return core.WrapError(core.ErrCacheFailed, err)
	}
	return nil
}

// Close closes the underlying client
func (c *Cache) Close() error {
	return c.client.Close()
}
