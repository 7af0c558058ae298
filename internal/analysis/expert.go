package analysis

import "github.com/newthinker/elite/internal/core"

type expertNarrative struct {
	reasoning       string
	timeline        string
	expectedOutcome string
}

var expertNarratives = map[ExpertAction]expertNarrative{
	ExpertAccumulate: {
		reasoning:       "technicals, fundamentals and sentiment are all positive and the reward outweighs the risk",
		timeline:        "accumulate gradually over 1-2 weeks",
		expectedOutcome: "15-30% return expected within 3-6 months",
	},
	ExpertHold: {
		reasoning:       "holding is appropriate while waiting for further signals",
		timeline:        "wait and watch for signals",
		expectedOutcome: "price stays around current levels",
	},
	ExpertReduce: {
		reasoning:       "risk is rising, consider trimming the position",
		timeline:        "partial sell within a week",
		expectedOutcome: "lower risk and preserved capital",
	},
	ExpertExit: {
		reasoning:       "technicals and sentiment are negative, take profit or cut losses",
		timeline:        "sell now or on the next bounce",
		expectedOutcome: "minimised losses and recovered capital",
	},
}

// signalValue weights an indicator signal for the expert technical score
func signalValue(a core.Action) float64 {
	switch a {
	case core.ActionStrongBuy:
		return 100
	case core.ActionBuy:
		return 75
	case core.ActionHold:
		return 50
	case core.ActionSell:
		return 25
	default:
		return 0
	}
}

// expertTechScore is the signal-weighted mean used only by the expert
// simulator; the composite score uses the plain strength mean instead.
func expertTechScore(indicators []TechnicalIndicator) float64 {
	if len(indicators) == 0 {
		return 0
	}
	var sum float64
	for _, ind := range indicators {
		sum += signalValue(ind.Signal) * ind.Strength / 100
	}
	return sum / float64(len(indicators))
}

// fundamentalScoreOr50 treats a missing analysis as neutral
func fundamentalScoreOr50(f *FundamentalAnalysis) float64 {
	if f == nil {
		return 50
	}
	return f.Score
}

// ExpertLocalScore weighs technicals, fundamentals, sentiment and risk
// 0.3/0.3/0.2/0.2. It feeds only the expert action and is never reported
// as the overall score.
func ExpertLocalScore(indicators []TechnicalIndicator, fundamental *FundamentalAnalysis, sentiment MarketSentiment, risk RiskAnalysis) float64 {
	return expertTechScore(indicators)*0.3 +
		fundamentalScoreOr50(fundamental)*0.3 +
		sentiment.FearGreedIndex*0.2 +
		(100-risk.Volatility)*0.2
}

// SimulateExpert decides what a disciplined professional investor would do
func SimulateExpert(indicators []TechnicalIndicator, fundamental *FundamentalAnalysis, sentiment MarketSentiment, risk RiskAnalysis, timing EliteTiming) ExpertDecision {
	local := ExpertLocalScore(indicators, fundamental, sentiment, risk)

	var d ExpertDecision
	switch {
	case local >= 80 && timing.Entry.Recommended:
		d.Action = ExpertAccumulate
		d.Confidence = local
		d.PositionSize = 15
		if risk.RiskLevel == RiskLow || risk.RiskLevel == RiskVeryLow {
			d.PositionSize = 25
		}
	case local >= 70 && timing.Entry.Recommended:
		d.Action = ExpertAccumulate
		d.Confidence = local
		d.PositionSize = 10
	case local < 40 || timing.Exit.Recommended:
		d.Action = ExpertExit
		d.Confidence = 100 - local
		d.PositionSize = 0
	case local < 50:
		d.Action = ExpertReduce
		d.Confidence = 60
		d.PositionSize = 5
	default:
		d.Action = ExpertHold
		d.Confidence = 50
		d.PositionSize = 10
	}
	d.Confidence = clampScore(d.Confidence)

	n := expertNarratives[d.Action]
	d.Reasoning = n.reasoning
	d.Timeline = n.timeline
	d.ExpectedOutcome = n.expectedOutcome
	return d
}
