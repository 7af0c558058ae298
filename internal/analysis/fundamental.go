package analysis

import "github.com/newthinker/elite/internal/core"

const (
	largeCapThreshold    = 1e11
	liquidVolumeMinimum  = 1e7
	strongRiseChangePct  = 5.0
	fundamentalBaseScore = 50.0
)

// ScoreFundamentals scores an equity from market cap, liquidity and the
// day's move. Crypto has no fundamentals and always yields nil, as does a
// missing snapshot.
func ScoreFundamentals(snap *core.Snapshot) *FundamentalAnalysis {
	if !snap.IsValid() || snap.InstrumentType != core.InstrumentEquity {
		return nil
	}

	score := fundamentalBaseScore
	if snap.MarketCap > largeCapThreshold {
		score += 20
	}
	if snap.Volume > liquidVolumeMinimum {
		score += 15
	}
	if snap.ChangePercent > 0 {
		score += 10
	}
	if snap.ChangePercent > strongRiseChangePct {
		score += 5
	}
	score = clampScore(score)

	return &FundamentalAnalysis{
		MarketCap:      snap.MarketCap,
		Score:          score,
		Grade:          GradeFor(score),
		Recommendation: FundamentalRecommendation(score),
	}
}
