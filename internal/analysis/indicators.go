package analysis

import (
	"math"

	"github.com/newthinker/elite/internal/core"
)

// Indicator names, in the order CalculateIndicators emits them.
const (
	IndicatorRSI           = "RSI"
	IndicatorMACD          = "MACD"
	IndicatorBollinger     = "Bollinger Bands"
	IndicatorMovingAverage = "Moving Average"
	IndicatorVolume        = "Volume Analysis"
)

// highVolumeLog10 is the log10(volume) above which volume counts as high
const highVolumeLog10 = 6

// CalculateIndicators derives the five indicator proxies from a single
// snapshot. These are not textbook indicators: each one is a function of
// the day's change percent (and volume) only. A missing or invalid snapshot
// yields no indicators.
func CalculateIndicators(snap *core.Snapshot) []TechnicalIndicator {
	if !snap.IsValid() {
		return []TechnicalIndicator{}
	}

	cp := snap.ChangePercent
	return []TechnicalIndicator{
		rsiProxy(cp),
		macdProxy(cp),
		bollingerProxy(cp),
		movingAverageProxy(cp),
		volumeAnalysis(snap.Volume, cp),
	}
}

func rsiProxy(changePercent float64) TechnicalIndicator {
	value := clamp(50+changePercent*2, 0, 100)

	ind := TechnicalIndicator{
		Name:        IndicatorRSI,
		Value:       value,
		Signal:      core.ActionHold,
		Strength:    math.Abs(value-50) * 2,
		Description: "neutral zone",
	}
	switch {
	case value > 70:
		ind.Signal = core.ActionSell
		ind.Description = "overbought, consider selling"
	case value < 30:
		ind.Signal = core.ActionBuy
		ind.Description = "oversold, consider buying"
	}
	return ind
}

// macdProxy strength is deliberately left unclamped.
func macdProxy(changePercent float64) TechnicalIndicator {
	value := changePercent * 0.5

	ind := TechnicalIndicator{
		Name:        IndicatorMACD,
		Value:       value,
		Signal:      core.ActionSell,
		Strength:    math.Abs(value) * 10,
		Description: "bearish momentum, sell signal",
	}
	if value > 0 {
		ind.Signal = core.ActionBuy
		ind.Description = "bullish momentum, buy signal"
	}
	return ind
}

// bollingerProxy maps -10%..+10% onto a 0..1 band position.
func bollingerProxy(changePercent float64) TechnicalIndicator {
	value := clamp((changePercent+10)/20, 0, 1)

	ind := TechnicalIndicator{
		Name:        IndicatorBollinger,
		Value:       value,
		Signal:      core.ActionHold,
		Strength:    math.Abs(value-0.5) * 200,
		Description: "inside the bands",
	}
	switch {
	case value > 0.8:
		ind.Signal = core.ActionSell
		ind.Description = "upper band breached, consider selling"
	case value < 0.2:
		ind.Signal = core.ActionBuy
		ind.Description = "near lower band, consider buying"
	}
	return ind
}

func movingAverageProxy(changePercent float64) TechnicalIndicator {
	ind := TechnicalIndicator{
		Name:        IndicatorMovingAverage,
		Value:       changePercent,
		Signal:      core.ActionSell,
		Strength:    math.Abs(changePercent) * 5,
		Description: "downtrend, sell signal",
	}
	if changePercent > 0 {
		ind.Signal = core.ActionBuy
		ind.Description = "uptrend, buy signal"
	}
	return ind
}

func volumeAnalysis(volume, changePercent float64) TechnicalIndicator {
	highVolume := math.Log10(math.Max(volume, 1)) > highVolumeLog10

	ind := TechnicalIndicator{
		Name:        IndicatorVolume,
		Signal:      core.ActionHold,
		Strength:    40,
		Description: "normal volume, wait and see",
	}
	switch {
	case highVolume && changePercent > 0:
		ind.Signal = core.ActionBuy
		ind.Strength = 80
		ind.Description = "high volume with rising price, strong buy signal"
	case highVolume:
		ind.Signal = core.ActionSell
		ind.Strength = 80
		ind.Description = "high volume with falling price, sell signal"
	}
	ind.Value = ind.Strength
	return ind
}
