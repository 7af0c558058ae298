package analysis

import (
	"math"

	"github.com/newthinker/elite/internal/core"
)

// Risk factor texts and their paired mitigations.
const (
	FactorHighVolatility = "high volatility"
	FactorSharpDecline   = "sharp decline"
	FactorSharpRise      = "sharp rise, possible correction"
	FactorNoData         = "insufficient data"

	MitigationReducePosition = "reduce position size"
	MitigationStopLoss       = "set a stop-loss"
	MitigationPartialSell    = "consider a partial sell"
	MitigationCaution        = "proceed with caution"
)

// AnalyzeRisk derives volatility, drawdown and a risk tier from the day's
// change.
func AnalyzeRisk(snap *core.Snapshot) RiskAnalysis {
	if !snap.IsValid() {
		return DefaultRisk()
	}

	cp := snap.ChangePercent
	volatility := clampScore(math.Abs(cp) * 10)

	maxDrawdown := cp * 0.3
	if cp < 0 {
		maxDrawdown = math.Abs(cp)
	}

	factors := []string{}
	mitigations := []string{}
	if volatility > 50 {
		factors = append(factors, FactorHighVolatility)
		mitigations = append(mitigations, MitigationReducePosition)
	}
	if cp < -5 {
		factors = append(factors, FactorSharpDecline)
		mitigations = append(mitigations, MitigationStopLoss)
	}
	if cp > 10 {
		factors = append(factors, FactorSharpRise)
		mitigations = append(mitigations, MitigationPartialSell)
	}

	return RiskAnalysis{
		Volatility:  volatility,
		MaxDrawdown: maxDrawdown,
		RiskLevel:   RiskLevelFor(volatility),
		RiskFactors: factors,
		Mitigations: mitigations,
	}
}

// DefaultRisk is the medium-risk reading used when no data is available
func DefaultRisk() RiskAnalysis {
	return RiskAnalysis{
		Volatility:  50,
		MaxDrawdown: 5,
		RiskLevel:   RiskMedium,
		RiskFactors: []string{FactorNoData},
		Mitigations: []string{MitigationCaution},
	}
}
