package analysis

const (
	entryDiscount   = 0.98
	entryPremium    = 1.02
	stopLossFactor  = 0.95
	takeProfitRatio = 1.15

	defaultRiskReward = 2.0
	noDataReason      = "insufficient data"
)

var holdingPeriods = map[StrategyType]string{
	StrategyScalping: "1-3d",
	StrategySwing:    "1-2w",
	StrategyMomentum: "2-4w",
	StrategyValue:    "1-3mo",
}

var positionSizes = map[RiskLevel]float64{
	RiskVeryHigh: 5,
	RiskHigh:     10,
	RiskMedium:   15,
	RiskLow:      20,
	RiskVeryLow:  25,
}

// CalculateTiming turns indicator consensus, sentiment and risk into entry
// and exit levels plus a strategy suggestion. Without a price or indicators
// it returns DefaultTiming.
func CalculateTiming(price float64, indicators []TechnicalIndicator, sentiment MarketSentiment, risk RiskAnalysis) EliteTiming {
	if price <= 0 || len(indicators) == 0 {
		return DefaultTiming()
	}

	buySignals, sellSignals := signalCounts(indicators)
	avgStrength := meanStrength(indicators)
	confidence := clampScore(avgStrength)

	entry := EntryTiming{
		Recommended: buySignals > sellSignals && avgStrength > 50,
		Price:       price * entryPremium,
		Confidence:  confidence,
		Timeframe:   "now or on the next pullback",
		Reason:      "entry timing is not optimal, wait and see",
	}
	if entry.Recommended {
		stopLoss := price * stopLossFactor
		takeProfit := price * takeProfitRatio
		entry.Price = price * entryDiscount
		entry.StopLoss = &stopLoss
		entry.TakeProfit = &takeProfit
		entry.Reason = "technical indicators show buy signals and sentiment is supportive"
	}

	exit := ExitTiming{
		Recommended: sellSignals > buySignals && avgStrength > 60,
		Price:       price * entryDiscount,
		Confidence:  confidence,
		Timeframe:   "within 1-2 weeks",
		Reason:      "holding the current position is appropriate",
	}
	if exit.Recommended {
		exit.Price = price * entryPremium
		exit.Reason = "technical indicators show sell signals, consider taking profit"
	}

	strategyType := strategyTypeFor(risk, sentiment)
	strategy := OptimalStrategy{
		Type:            strategyType,
		HoldingPeriod:   holdingPeriods[strategyType],
		PositionSize:    positionSizes[risk.RiskLevel],
		RiskRewardRatio: defaultRiskReward,
		ExpectedReturn:  -5,
		MaxLoss:         risk.MaxDrawdown,
	}
	if entry.Recommended {
		strategy.RiskRewardRatio = (*entry.TakeProfit - entry.Price) / (entry.Price - *entry.StopLoss)
		strategy.ExpectedReturn = 10 + avgStrength*0.2
	}

	return EliteTiming{
		Entry:           entry,
		Exit:            exit,
		OptimalStrategy: strategy,
	}
}

// DefaultTiming is the all-false timing used when no data is available
func DefaultTiming() EliteTiming {
	return EliteTiming{
		Entry: EntryTiming{
			Timeframe: "n/a",
			Reason:    noDataReason,
		},
		Exit: ExitTiming{
			Timeframe: "n/a",
			Reason:    noDataReason,
		},
		OptimalStrategy: OptimalStrategy{
			Type:            StrategySwing,
			HoldingPeriod:   "n/a",
			PositionSize:    10,
			RiskRewardRatio: 1.5,
			ExpectedReturn:  0,
			MaxLoss:         5,
		},
	}
}

func strategyTypeFor(risk RiskAnalysis, sentiment MarketSentiment) StrategyType {
	switch {
	case risk.Volatility > 70:
		return StrategyScalping
	case sentiment.FearGreedIndex > 70:
		return StrategyMomentum
	case sentiment.FearGreedIndex < 30:
		return StrategyValue
	default:
		return StrategySwing
	}
}

func signalCounts(indicators []TechnicalIndicator) (buy, sell int) {
	for _, ind := range indicators {
		if ind.Signal.IsBuy() {
			buy++
		} else if ind.Signal.IsSell() {
			sell++
		}
	}
	return buy, sell
}
