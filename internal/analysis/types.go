package analysis

import (
	"time"

	"github.com/newthinker/elite/internal/core"
)

// Grade is the letter grade derived from a fundamental score
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeCPlus Grade = "C+"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// SocialSentiment is the qualitative crowd mood label
type SocialSentiment string

const (
	SentimentVeryBullish SocialSentiment = "very_bullish"
	SentimentBullish     SocialSentiment = "bullish"
	SentimentNeutral     SocialSentiment = "neutral"
	SentimentBearish     SocialSentiment = "bearish"
	SentimentVeryBearish SocialSentiment = "very_bearish"
)

// RiskLevel is the discrete risk tier
type RiskLevel string

const (
	RiskVeryLow  RiskLevel = "very_low"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

// StrategyType is the trading-style classification
type StrategyType string

const (
	StrategyMomentum StrategyType = "momentum"
	StrategyValue    StrategyType = "value"
	StrategySwing    StrategyType = "swing"
	StrategyScalping StrategyType = "scalping"
	StrategyGrowth   StrategyType = "growth"
	StrategyDividend StrategyType = "dividend"
)

// ExpertAction is the simulated expert investor's move
type ExpertAction string

const (
	ExpertAccumulate ExpertAction = "accumulate"
	ExpertHold       ExpertAction = "hold"
	ExpertReduce     ExpertAction = "reduce"
	ExpertExit       ExpertAction = "exit"
)

// Trend is the direction implied by the technical score
type Trend string

const (
	TrendStrongUp   Trend = "strong_uptrend"
	TrendUp         Trend = "uptrend"
	TrendSideways   Trend = "sideways"
	TrendDown       Trend = "downtrend"
	TrendStrongDown Trend = "strong_downtrend"
)

// TechnicalIndicator is one single-sample indicator proxy reading
type TechnicalIndicator struct {
	Name        string      `json:"name"`
	Value       float64     `json:"value"`
	Signal      core.Action `json:"signal"`
	Strength    float64     `json:"strength"`
	Description string      `json:"description"`
}

// FundamentalAnalysis scores an equity; it is never produced for crypto
type FundamentalAnalysis struct {
	MarketCap      float64     `json:"marketCap,omitempty"`
	Score          float64     `json:"score"`
	Grade          Grade       `json:"grade"`
	Recommendation core.Action `json:"recommendation"`
}

// MarketSentiment is a fear/greed style read of the crowd
type MarketSentiment struct {
	FearGreedIndex  float64         `json:"fearGreedIndex"`
	SocialSentiment SocialSentiment `json:"socialSentiment"`
	NewsSentiment   float64         `json:"newsSentiment"`
	AnalystRating   core.Action     `json:"analystRating"`
	PriceTarget     *float64        `json:"priceTarget,omitempty"`
	Consensus       string          `json:"consensus"`
}

// RiskAnalysis describes volatility and drawdown risk.
// Mitigations[i] answers RiskFactors[i].
type RiskAnalysis struct {
	Volatility  float64   `json:"volatility"`
	MaxDrawdown float64   `json:"maxDrawdown"`
	RiskLevel   RiskLevel `json:"riskLevel"`
	RiskFactors []string  `json:"riskFactors"`
	Mitigations []string  `json:"mitigations"`
}

// EntryTiming is the buy-side timing recommendation
type EntryTiming struct {
	Recommended bool     `json:"recommended"`
	Price       float64  `json:"price"`
	Confidence  float64  `json:"confidence"`
	Timeframe   string   `json:"timeframe"`
	Reason      string   `json:"reason"`
	StopLoss    *float64 `json:"stopLoss,omitempty"`
	TakeProfit  *float64 `json:"takeProfit,omitempty"`
}

// ExitTiming is the sell-side timing recommendation
type ExitTiming struct {
	Recommended bool    `json:"recommended"`
	Price       float64 `json:"price"`
	Confidence  float64 `json:"confidence"`
	Timeframe   string  `json:"timeframe"`
	Reason      string  `json:"reason"`
}

// OptimalStrategy is the trading-style suggestion with sizing
type OptimalStrategy struct {
	Type            StrategyType `json:"type"`
	HoldingPeriod   string       `json:"holdingPeriod"`
	PositionSize    float64      `json:"positionSize"`
	RiskRewardRatio float64      `json:"riskRewardRatio"`
	ExpectedReturn  float64      `json:"expectedReturn"`
	MaxLoss         float64      `json:"maxLoss"`
}

// EliteTiming bundles entry, exit and strategy suggestions
type EliteTiming struct {
	Entry           EntryTiming     `json:"entry"`
	Exit            ExitTiming      `json:"exit"`
	OptimalStrategy OptimalStrategy `json:"optimalStrategy"`
}

// ExpertDecision is the simulated professional investor's action
type ExpertDecision struct {
	Action          ExpertAction `json:"action"`
	Confidence      float64      `json:"confidence"`
	Reasoning       string       `json:"reasoning"`
	PositionSize    float64      `json:"positionSize"`
	Timeline        string       `json:"timeline"`
	ExpectedOutcome string       `json:"expectedOutcome"`
}

// TechnicalSummary is the technical block of a composite analysis
type TechnicalSummary struct {
	Indicators []TechnicalIndicator `json:"indicators"`
	Trend      Trend                `json:"trend"`
	Support    []float64            `json:"support"`
	Resistance []float64            `json:"resistance"`
	Score      float64              `json:"score"`
}

// Insights are threshold-derived narrative bullet lists
type Insights struct {
	KeyFactors    []string `json:"keyFactors"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
	Strategy      string   `json:"strategy"`
}

// CompositeAnalysis is the full result of one analysis request
type CompositeAnalysis struct {
	Symbol         string               `json:"symbol"`
	Name           string               `json:"name"`
	InstrumentType core.InstrumentType  `json:"instrumentType"`
	CurrentPrice   float64              `json:"currentPrice"`
	Technical      TechnicalSummary     `json:"technical"`
	Fundamental    *FundamentalAnalysis `json:"fundamental"`
	Sentiment      MarketSentiment      `json:"sentiment"`
	Risk           RiskAnalysis         `json:"risk"`
	Timing         EliteTiming          `json:"timing"`
	ExpertDecision ExpertDecision       `json:"expertDecision"`
	OverallScore   float64              `json:"overallScore"`
	Recommendation core.Action          `json:"recommendation"`
	Confidence     float64              `json:"confidence"`
	Insights       Insights             `json:"insights"`
	Timestamp      time.Time            `json:"timestamp"`
}
