// Package service ties market data collection to the analysis engine and
// the optional cache, archive and metrics around it.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/newthinker/elite/internal/analysis"
	"github.com/newthinker/elite/internal/cache"
	"github.com/newthinker/elite/internal/collector"
	"github.com/newthinker/elite/internal/core"
	"github.com/newthinker/elite/internal/metrics"
	"go.uber.org/zap"
)

// ResultCache stores analyses by cache.Key
type ResultCache interface {
	Get(ctx context.Context, key string) (*analysis.CompositeAnalysis, bool, error)
	Set(ctx context.Context, key string, a *analysis.CompositeAnalysis) error
}

// Archiver persists every fresh analysis
type Archiver interface {
	Record(ctx context.Context, a *analysis.CompositeAnalysis) (string, error)
}

// Options holds the optional collaborators. Nil fields are skipped.
type Options struct {
	Engine      *analysis.Engine
	Cache       ResultCache
	Archive     Archiver
	Metrics     *metrics.Registry
	Concurrency int
	Equities    []string
	Cryptos     []string
}

// Service is the analysis entry point used by the CLI and HTTP API
type Service struct {
	provider    collector.Provider
	engine      *analysis.Engine
	cache       ResultCache
	archive     Archiver
	metrics     *metrics.Registry
	concurrency int
	universe    map[core.InstrumentType][]string
	logger      *zap.Logger
}

// New creates a service reading snapshots from provider
func New(provider collector.Provider, opts Options, logger ...*zap.Logger) *Service {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	engine := opts.Engine
	if engine == nil {
		engine = analysis.NewEngine(l)
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 8
	}
	return &Service{
		provider:    provider,
		engine:      engine,
		cache:       opts.Cache,
		archive:     opts.Archive,
		metrics:     opts.Metrics,
		concurrency: concurrency,
		universe: map[core.InstrumentType][]string{
			core.InstrumentEquity: opts.Equities,
			core.InstrumentCrypto: opts.Cryptos,
		},
		logger: l,
	}
}

// Analyze fetches a snapshot and runs the engine on it. Fetch failures
// degrade to a no-data analysis; the only error returned is the context's.
func (s *Service) Analyze(ctx context.Context, symbol string, typ core.InstrumentType) (*analysis.CompositeAnalysis, error) {
	a, _, err := s.analyze(ctx, symbol, typ)
	return a, err
}

func (s *Service) analyze(ctx context.Context, symbol string, typ core.InstrumentType) (*analysis.CompositeAnalysis, *core.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	symbol = normalizeSymbol(symbol)

	snap, err := s.fetch(ctx, symbol, typ)
	if err != nil {
		return nil, nil, err
	}
	a, err := s.AnalyzeSnapshot(ctx, symbol, typ, snap)
	return a, snap, err
}

func (s *Service) fetch(ctx context.Context, symbol string, typ core.InstrumentType) (*core.Snapshot, error) {
	snap, err := s.provider.FetchSnapshot(ctx, symbol, typ)
	if err == nil {
		source := snap.Source
		if source == "" {
			source = s.provider.Name()
		}
		s.recordFetch(source, "ok")
		return snap, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	status := "error"
	switch {
	case errors.Is(err, core.ErrSymbolNotFound):
		status = "not_found"
	case errors.Is(err, core.ErrCircuitOpen):
		status = "circuit_open"
	case errors.Is(err, core.ErrRateLimited):
		status = "rate_limited"
	}
	s.recordFetch(s.provider.Name(), status)
	s.logger.Warn("snapshot unavailable, analysing without data",
		zap.String("symbol", symbol),
		zap.String("type", string(typ)),
		zap.Error(err))
	return nil, nil
}

// AnalyzeSnapshot runs the engine on a caller-supplied snapshot, consulting
// the cache first when one is configured. Symbols are upper-cased so cached
// and fresh results agree.
func (s *Service) AnalyzeSnapshot(ctx context.Context, symbol string, typ core.InstrumentType, snap *core.Snapshot) (*analysis.CompositeAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	symbol = normalizeSymbol(symbol)

	// no-data results are not cached so a recovering provider is seen at once
	var key string
	if s.cache != nil && snap.IsValid() {
		key = cache.Key(symbol, typ, snap)
		cached, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.recordCache("error")
			s.logger.Warn("cache read failed", zap.String("symbol", symbol), zap.Error(err))
		case ok:
			s.recordCache("hit")
			return cached, nil
		default:
			s.recordCache("miss")
		}
	}

	a := s.engine.Analyze(symbol, typ, snap)

	if key != "" {
		if err := s.cache.Set(ctx, key, a); err != nil {
			s.logger.Warn("cache write failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}
	if s.archive != nil {
		if _, err := s.archive.Record(ctx, a); err != nil {
			s.recordArchive("error")
			s.logger.Warn("archive write failed", zap.String("symbol", symbol), zap.Error(err))
		} else {
			s.recordArchive("ok")
		}
	}
	if s.metrics != nil {
		s.metrics.RecordAnalysis(string(typ), string(a.Recommendation), string(a.ExpertDecision.Action), time.Since(start).Seconds())
	}
	return a, nil
}

// Universe returns the configured hot-scan symbols for typ
func (s *Service) Universe(typ core.InstrumentType) []string {
	return append([]string(nil), s.universe[typ]...)
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (s *Service) recordFetch(provider, status string) {
	if s.metrics != nil {
		s.metrics.RecordSnapshotFetch(provider, status)
	}
}

func (s *Service) recordCache(result string) {
	if s.metrics != nil {
		s.metrics.RecordCache(result)
	}
}

func (s *Service) recordArchive(status string) {
	if s.metrics != nil {
		s.metrics.RecordArchive(status)
	}
}
