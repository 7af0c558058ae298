package analysis

import (
	"sync"
	"time"

	"github.com/newthinker/elite/internal/core"
	"go.uber.org/zap"
)

// Engine runs the seven-stage analysis pipeline. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates a new analysis engine
func NewEngine(logger ...*zap.Logger) *Engine {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Engine{
		logger: l,
		now:    time.Now,
	}
}

// WithClock returns a copy of the engine stamping results with now()
func (e *Engine) WithClock(now func() time.Time) *Engine {
	cp := *e
	cp.now = now
	return &cp
}

// Analyze produces a composite analysis from a snapshot. It never fails: a
// nil or invalid snapshot degrades every stage to its neutral default.
// Apart from Timestamp the result depends only on the arguments.
func (e *Engine) Analyze(symbol string, typ core.InstrumentType, snap *core.Snapshot) *CompositeAnalysis {
	if !snap.IsValid() {
		e.logger.Debug("no usable snapshot, using defaults",
			zap.String("symbol", symbol),
			zap.String("type", string(typ)),
		)
		snap = nil
	} else if snap.InstrumentType != typ {
		// requested type wins; copy rather than touch the caller's snapshot
		s := *snap
		s.InstrumentType = typ
		snap = &s
	}

	indicators := CalculateIndicators(snap)

	var (
		wg          sync.WaitGroup
		fundamental *FundamentalAnalysis
		sentiment   MarketSentiment
		risk        RiskAnalysis
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		fundamental = ScoreFundamentals(snap)
	}()
	go func() {
		defer wg.Done()
		sentiment = AnalyzeSentiment(snap)
	}()
	go func() {
		defer wg.Done()
		risk = AnalyzeRisk(snap)
	}()
	wg.Wait()

	name := symbol
	var price float64
	if snap != nil {
		name = snap.DisplayName()
		price = snap.Price
	}

	timing := CalculateTiming(price, indicators, sentiment, risk)
	expert := SimulateExpert(indicators, fundamental, sentiment, risk, timing)

	result := Compose(symbol, name, typ, price, Stages{
		Indicators:  indicators,
		Fundamental: fundamental,
		Sentiment:   sentiment,
		Risk:        risk,
		Timing:      timing,
		Expert:      expert,
	})
	result.Timestamp = e.now()

	e.logger.Debug("analysis complete",
		zap.String("symbol", symbol),
		zap.Float64("overall_score", result.OverallScore),
		zap.String("recommendation", string(result.Recommendation)),
		zap.String("expert_action", string(expert.Action)),
	)

	return result
}
