package service

import (
	"context"
	"math"
	"sort"

	"github.com/newthinker/elite/internal/analysis"
	"github.com/newthinker/elite/internal/core"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// HotItem is one ranked entry of a hot scan
type HotItem struct {
	Symbol         string                      `json:"symbol"`
	Name           string                      `json:"name"`
	InstrumentType core.InstrumentType         `json:"instrumentType"`
	Price          float64                     `json:"price"`
	ChangePercent  float64                     `json:"changePercent"`
	Volume         float64                     `json:"volume"`
	HotScore       float64                     `json:"hotScore"`
	Analysis       *analysis.CompositeAnalysis `json:"analysis"`
}

// HotScore weights absolute price movement against log trading volume
func HotScore(changePercent, volume float64) float64 {
	return math.Abs(changePercent)*0.7 + math.Log10(math.Max(volume, 1))*0.3
}

type scanResult struct {
	analysis *analysis.CompositeAnalysis
	snap     *core.Snapshot
}

func (s *Service) scan(ctx context.Context, typ core.InstrumentType, symbols []string) ([]scanResult, error) {
	results := make([]scanResult, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, symbol := range symbols {
		g.Go(func() error {
			a, snap, err := s.analyze(gctx, symbol, typ)
			if err != nil {
				return err
			}
			results[i] = scanResult{analysis: a, snap: snap}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordScan()
	}
	return results, nil
}

// Scan analyses every symbol in parallel, bounded by the configured
// concurrency. Results keep the input order.
func (s *Service) Scan(ctx context.Context, typ core.InstrumentType, symbols []string) ([]*analysis.CompositeAnalysis, error) {
	results, err := s.scan(ctx, typ, symbols)
	if err != nil {
		return nil, err
	}
	out := make([]*analysis.CompositeAnalysis, len(results))
	for i, r := range results {
		out[i] = r.analysis
	}
	return out, nil
}

// Hot scans symbols (the configured universe when empty) and returns the
// limit highest-ranked instruments with data. limit <= 0 returns all.
func (s *Service) Hot(ctx context.Context, typ core.InstrumentType, symbols []string, limit int) ([]HotItem, error) {
	if len(symbols) == 0 {
		symbols = s.Universe(typ)
	}

	results, err := s.scan(ctx, typ, symbols)
	if err != nil {
		return nil, err
	}

	items := make([]HotItem, 0, len(results))
	for i, r := range results {
		if !r.snap.IsValid() {
			s.logger.Debug("skipping symbol without data", zap.String("symbol", symbols[i]))
			continue
		}
		items = append(items, HotItem{
			Symbol:         r.analysis.Symbol,
			Name:           r.analysis.Name,
			InstrumentType: typ,
			Price:          r.snap.Price,
			ChangePercent:  r.snap.ChangePercent,
			Volume:         r.snap.Volume,
			HotScore:       HotScore(r.snap.ChangePercent, r.snap.Volume),
			Analysis:       r.analysis,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].HotScore > items[j].HotScore
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
