package analysis

import (
	"testing"

	"github.com/newthinker/elite/internal/core"
	"github.com/stretchr/testify/assert"
)

func entryTiming() EliteTiming {
	return EliteTiming{Entry: EntryTiming{Recommended: true}}
}

func exitTiming() EliteTiming {
	return EliteTiming{Exit: ExitTiming{Recommended: true}}
}

// strongBuys gives expertTechScore = 100 * strength / 100.
func strongBuys(strength float64) []TechnicalIndicator {
	return indicatorsWith([]core.Action{core.ActionStrongBuy, core.ActionStrongBuy}, strength)
}

func TestExpertLocalScore(t *testing.T) {
	indicators := []TechnicalIndicator{
		{Signal: core.ActionHold, Strength: 32},
		{Signal: core.ActionBuy, Strength: 40},
		{Signal: core.ActionSell, Strength: 80},
		{Signal: core.ActionBuy, Strength: 40},
		{Signal: core.ActionBuy, Strength: 80},
	}
	fund := &FundamentalAnalysis{Score: 100}
	got := ExpertLocalScore(indicators, fund, MarketSentiment{FearGreedIndex: 90}, RiskAnalysis{Volatility: 80})
	// tech 31.2*0.3 + 100*0.3 + 90*0.2 + 20*0.2
	assert.InDelta(t, 61.36, got, 1e-9)
}

func TestExpertLocalScore_MissingFundamentalIsNeutral(t *testing.T) {
	got := ExpertLocalScore(nil, nil, MarketSentiment{FearGreedIndex: 50}, RiskAnalysis{Volatility: 50})
	assert.InDelta(t, 35, got, 1e-9)
}

func TestSimulateExpert_DecisionTable(t *testing.T) {
	tests := []struct {
		name       string
		indicators []TechnicalIndicator
		fund       *FundamentalAnalysis
		sentiment  MarketSentiment
		risk       RiskAnalysis
		timing     EliteTiming
		action     ExpertAction
		confidence float64
		position   float64
	}{
		{
			name:       "strong accumulate low risk",
			indicators: strongBuys(100),
			fund:       &FundamentalAnalysis{Score: 100},
			sentiment:  MarketSentiment{FearGreedIndex: 80},
			risk:       RiskAnalysis{Volatility: 20, RiskLevel: RiskLow},
			timing:     entryTiming(),
			action:     ExpertAccumulate,
			confidence: 92, // 30 + 30 + 16 + 16
			position:   25,
		},
		{
			name:       "strong accumulate very low risk",
			indicators: strongBuys(100),
			fund:       &FundamentalAnalysis{Score: 100},
			sentiment:  MarketSentiment{FearGreedIndex: 80},
			risk:       RiskAnalysis{Volatility: 10, RiskLevel: RiskVeryLow},
			timing:     entryTiming(),
			action:     ExpertAccumulate,
			confidence: 94,
			position:   25,
		},
		{
			name:       "strong accumulate medium risk",
			indicators: strongBuys(100),
			fund:       &FundamentalAnalysis{Score: 100},
			sentiment:  MarketSentiment{FearGreedIndex: 80},
			risk:       RiskAnalysis{Volatility: 40, RiskLevel: RiskMedium},
			timing:     entryTiming(),
			action:     ExpertAccumulate,
			confidence: 88,
			position:   15,
		},
		{
			name:       "moderate accumulate",
			indicators: strongBuys(60),
			fund:       &FundamentalAnalysis{Score: 85},
			sentiment:  MarketSentiment{FearGreedIndex: 70},
			risk:       RiskAnalysis{Volatility: 30, RiskLevel: RiskLow},
			timing:     entryTiming(),
			action:     ExpertAccumulate,
			confidence: 71.5, // 18 + 25.5 + 14 + 14
			position:   10,
		},
		{
			name:       "high score without entry holds",
			indicators: strongBuys(100),
			fund:       &FundamentalAnalysis{Score: 100},
			sentiment:  MarketSentiment{FearGreedIndex: 80},
			risk:       RiskAnalysis{Volatility: 20, RiskLevel: RiskLow},
			timing:     EliteTiming{},
			action:     ExpertHold,
			confidence: 50,
			position:   10,
		},
		{
			name:       "exit on signal despite decent score",
			indicators: strongBuys(100),
			fund:       &FundamentalAnalysis{Score: 100},
			sentiment:  MarketSentiment{FearGreedIndex: 80},
			risk:       RiskAnalysis{Volatility: 20, RiskLevel: RiskLow},
			timing:     exitTiming(),
			action:     ExpertExit,
			confidence: 8,
			position:   0,
		},
		{
			name:       "exit on low score",
			sentiment:  MarketSentiment{FearGreedIndex: 50},
			risk:       RiskAnalysis{Volatility: 50, RiskLevel: RiskMedium},
			action:     ExpertExit,
			confidence: 65,
			position:   0,
		},
		{
			name:       "reduce",
			indicators: strongBuys(50),
			sentiment:  MarketSentiment{FearGreedIndex: 40},
			risk:       RiskAnalysis{Volatility: 50, RiskLevel: RiskMedium},
			action:     ExpertReduce, // 15 + 15 + 8 + 10 = 48
			confidence: 60,
			position:   5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := SimulateExpert(tt.indicators, tt.fund, tt.sentiment, tt.risk, tt.timing)
			assert.Equal(t, tt.action, d.Action)
			assert.InDelta(t, tt.confidence, d.Confidence, 1e-9)
			assert.Equal(t, tt.position, d.PositionSize)
			assert.NotEmpty(t, d.Reasoning)
			assert.NotEmpty(t, d.Timeline)
			assert.NotEmpty(t, d.ExpectedOutcome)
		})
	}
}

func TestSimulateExpert_PositionZeroOnlyOnExit(t *testing.T) {
	for cp := -30.0; cp <= 30; cp += 0.5 {
		snap := snapshot(cp, 2e7)
		indicators := CalculateIndicators(snap)
		sentiment := AnalyzeSentiment(snap)
		risk := AnalyzeRisk(snap)
		fund := ScoreFundamentals(snap)
		timing := CalculateTiming(snap.Price, indicators, sentiment, risk)

		d := SimulateExpert(indicators, fund, sentiment, risk, timing)
		assert.Equal(t, d.Action == ExpertExit, d.PositionSize == 0, "cp=%v action=%s", cp, d.Action)
		assert.GreaterOrEqual(t, d.Confidence, 0.0)
		assert.LessOrEqual(t, d.Confidence, 100.0)
	}
}
