package analysis

import (
	"github.com/newthinker/elite/internal/core"
)

// AnalyzeSentiment derives a fear/greed reading from the day's change.
// NewsSentiment is nominally -100..100 but is not clamped.
func AnalyzeSentiment(snap *core.Snapshot) MarketSentiment {
	if !snap.IsValid() {
		return DefaultSentiment()
	}

	cp := snap.ChangePercent
	priceTarget := snap.Price * (1 + cp/100*1.2)

	s := MarketSentiment{
		FearGreedIndex:  clampScore(50 + cp*5),
		SocialSentiment: socialSentimentFor(cp),
		NewsSentiment:   cp * 10,
		AnalystRating:   analystRatingFor(cp),
		PriceTarget:     &priceTarget,
		Consensus:       "the market is reacting negatively and faces downward pressure",
	}
	if cp > 0 {
		s.Consensus = "the market is reacting positively and has room to rise"
	}
	return s
}

// DefaultSentiment is the neutral reading used when no data is available
func DefaultSentiment() MarketSentiment {
	return MarketSentiment{
		FearGreedIndex:  50,
		SocialSentiment: SentimentNeutral,
		NewsSentiment:   0,
		AnalystRating:   core.ActionHold,
		Consensus:       "insufficient data, neutral assessment",
	}
}

func socialSentimentFor(changePercent float64) SocialSentiment {
	switch {
	case changePercent > 5:
		return SentimentVeryBullish
	case changePercent > 2:
		return SentimentBullish
	case changePercent < -5:
		return SentimentVeryBearish
	case changePercent < -2:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}

func analystRatingFor(changePercent float64) core.Action {
	switch {
	case changePercent > 5:
		return core.ActionStrongBuy
	case changePercent > 2:
		return core.ActionBuy
	case changePercent > -2:
		return core.ActionHold
	case changePercent > -5:
		return core.ActionSell
	default:
		return core.ActionStrongSell
	}
}
