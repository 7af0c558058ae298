package analysis

import (
	"math"

	"github.com/newthinker/elite/internal/core"
)

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// clampScore bounds v to the 0-100 score range
func clampScore(v float64) float64 {
	return clamp(v, 0, 100)
}

// meanStrength is the plain average indicator strength, 0 when empty
func meanStrength(indicators []TechnicalIndicator) float64 {
	if len(indicators) == 0 {
		return 0
	}
	var sum float64
	for _, ind := range indicators {
		sum += ind.Strength
	}
	return sum / float64(len(indicators))
}

// GradeFor maps a fundamental score to its letter grade
func GradeFor(score float64) Grade {
	switch {
	case score >= 90:
		return GradeAPlus
	case score >= 80:
		return GradeA
	case score >= 70:
		return GradeBPlus
	case score >= 60:
		return GradeB
	case score >= 50:
		return GradeCPlus
	case score >= 40:
		return GradeC
	case score >= 30:
		return GradeD
	default:
		return GradeF
	}
}

// FundamentalRecommendation maps a fundamental score to an action
func FundamentalRecommendation(score float64) core.Action {
	switch {
	case score >= 80:
		return core.ActionStrongBuy
	case score >= 70:
		return core.ActionBuy
	case score >= 50:
		return core.ActionHold
	case score >= 40:
		return core.ActionSell
	default:
		return core.ActionStrongSell
	}
}

// CompositeRecommendation maps the overall score to the reported action.
// The sell band starts at 30 here, not 40 as for fundamentals.
func CompositeRecommendation(score float64) core.Action {
	switch {
	case score >= 80:
		return core.ActionStrongBuy
	case score >= 70:
		return core.ActionBuy
	case score >= 50:
		return core.ActionHold
	case score >= 30:
		return core.ActionSell
	default:
		return core.ActionStrongSell
	}
}

// TrendFor classifies the mean indicator strength
func TrendFor(techScore float64) Trend {
	switch {
	case techScore > 70:
		return TrendStrongUp
	case techScore > 60:
		return TrendUp
	case techScore > 40:
		return TrendSideways
	case techScore > 30:
		return TrendDown
	default:
		return TrendStrongDown
	}
}

// RiskLevelFor classifies a 0-100 volatility
func RiskLevelFor(volatility float64) RiskLevel {
	switch {
	case volatility > 70:
		return RiskVeryHigh
	case volatility > 50:
		return RiskHigh
	case volatility > 30:
		return RiskMedium
	case volatility > 15:
		return RiskLow
	default:
		return RiskVeryLow
	}
}

// gradeRank orders grades from F (0) to A+ (7)
func gradeRank(g Grade) int {
	switch g {
	case GradeAPlus:
		return 7
	case GradeA:
		return 6
	case GradeBPlus:
		return 5
	case GradeB:
		return 4
	case GradeCPlus:
		return 3
	case GradeC:
		return 2
	case GradeD:
		return 1
	default:
		return 0
	}
}
