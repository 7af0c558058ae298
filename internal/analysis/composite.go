package analysis

import (
	"fmt"

	"github.com/newthinker/elite/internal/core"
)

var strategyTexts = map[StrategyType]string{
	StrategyMomentum: "momentum: ride the uptrend and take short-term profits",
	StrategyValue:    "value: buy while undervalued and hold for the long term",
	StrategySwing:    "swing: hold for the medium term to capture the trend",
	StrategyScalping: "scalping: trade the short-term volatility",
	StrategyGrowth:   "growth: build a position in a compounding business",
	StrategyDividend: "dividend: hold for income",
}

// TimingScore condenses timing into 80 (entry), 20 (exit) or 50
func TimingScore(timing EliteTiming) float64 {
	switch {
	case timing.Entry.Recommended:
		return 80
	case timing.Exit.Recommended:
		return 20
	default:
		return 50
	}
}

// OverallScore is the externally reported 0-100 score. It weighs the plain
// mean indicator strength, fundamentals, sentiment, risk and timing
// 0.25/0.25/0.2/0.15/0.15 and is independent of ExpertLocalScore.
func OverallScore(indicators []TechnicalIndicator, fundamental *FundamentalAnalysis, sentiment MarketSentiment, risk RiskAnalysis, timing EliteTiming) float64 {
	score := meanStrength(indicators)*0.25 +
		fundamentalScoreOr50(fundamental)*0.25 +
		sentiment.FearGreedIndex*0.2 +
		(100-risk.Volatility)*0.15 +
		TimingScore(timing)*0.15
	return clampScore(score)
}

// SupportLevels returns the two fixed-offset support levels, nearest first
func SupportLevels(price float64) []float64 {
	return []float64{price * 0.95, price * 0.90}
}

// ResistanceLevels returns the two fixed-offset resistance levels, nearest first
func ResistanceLevels(price float64) []float64 {
	return []float64{price * 1.05, price * 1.10}
}

// Stages carries the outputs of stages one through six into the composer
type Stages struct {
	Indicators  []TechnicalIndicator
	Fundamental *FundamentalAnalysis
	Sentiment   MarketSentiment
	Risk        RiskAnalysis
	Timing      EliteTiming
	Expert      ExpertDecision
}

// Compose assembles the composite analysis. Score, recommendation and
// confidence are recomputed here and never taken from the expert decision.
func Compose(symbol, name string, typ core.InstrumentType, price float64, st Stages) *CompositeAnalysis {
	techScore := meanStrength(st.Indicators)
	overall := OverallScore(st.Indicators, st.Fundamental, st.Sentiment, st.Risk, st.Timing)

	return &CompositeAnalysis{
		Symbol:         symbol,
		Name:           name,
		InstrumentType: typ,
		CurrentPrice:   price,
		Technical: TechnicalSummary{
			Indicators: st.Indicators,
			Trend:      TrendFor(techScore),
			Support:    SupportLevels(price),
			Resistance: ResistanceLevels(price),
			Score:      techScore,
		},
		Fundamental:    st.Fundamental,
		Sentiment:      st.Sentiment,
		Risk:           st.Risk,
		Timing:         st.Timing,
		ExpertDecision: st.Expert,
		OverallScore:   overall,
		Recommendation: CompositeRecommendation(overall),
		Confidence:     overall,
		Insights:       GenerateInsights(st.Indicators, st.Fundamental, st.Sentiment, st.Risk, st.Timing),
	}
}

// GenerateInsights builds the key factor, opportunity and threat lists.
// Every check is independent; lists keep check order and may be empty.
func GenerateInsights(indicators []TechnicalIndicator, fundamental *FundamentalAnalysis, sentiment MarketSentiment, risk RiskAnalysis, timing EliteTiming) Insights {
	keyFactors := []string{}
	opportunities := []string{}
	threats := []string{}

	strong := 0
	for _, ind := range indicators {
		if ind.Strength > 70 {
			strong++
		}
	}
	if strong > 0 {
		keyFactors = append(keyFactors, fmt.Sprintf("%d strong technical signals detected", strong))
	}
	if fundamental != nil && fundamental.Score > 70 {
		keyFactors = append(keyFactors, fmt.Sprintf("strong fundamentals (grade %s)", fundamental.Grade))
	}
	if sentiment.FearGreedIndex > 70 {
		keyFactors = append(keyFactors, "market sentiment extremely positive")
	} else if sentiment.FearGreedIndex < 30 {
		keyFactors = append(keyFactors, "market sentiment extremely negative")
	}

	if timing.Entry.Recommended && timing.Entry.Confidence > 70 {
		opportunities = append(opportunities, fmt.Sprintf("high-confidence entry opportunity (%.0f%%)", timing.Entry.Confidence))
	}
	if risk.RiskLevel == RiskLow && sentiment.FearGreedIndex > 60 {
		opportunities = append(opportunities, "low risk combined with positive sentiment")
	}
	if fundamental != nil && fundamental.Recommendation == core.ActionStrongBuy {
		opportunities = append(opportunities, "fundamentals indicate a strong buy")
	}

	if risk.RiskLevel == RiskVeryHigh {
		threats = append(threats, "very high volatility, elevated loss risk")
	}
	if timing.Exit.Recommended {
		threats = append(threats, "technical indicators signal a sell, correction possible")
	}
	if sentiment.FearGreedIndex < 30 {
		threats = append(threats, "fear in the market, further decline possible")
	}

	return Insights{
		KeyFactors:    keyFactors,
		Opportunities: opportunities,
		Threats:       threats,
		Strategy:      strategyTexts[timing.OptimalStrategy.Type],
	}
}
