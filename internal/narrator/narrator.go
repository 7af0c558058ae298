// Package narrator restates a composite analysis as a short prose summary
// using an LLM. The analysis itself is never modified.
package narrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/newthinker/elite/internal/analysis"
	"github.com/newthinker/elite/internal/llm"
	"go.uber.org/zap"
)

const defaultMaxTokens = 512

// Narrator generates prose summaries of analyses
type Narrator struct {
	llm       llm.Provider
	maxTokens int
	logger    *zap.Logger
}

// New creates a narrator. maxTokens <= 0 uses the default.
func New(provider llm.Provider, maxTokens int, logger ...*zap.Logger) *Narrator {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Narrator{llm: provider, maxTokens: maxTokens, logger: l}
}

// Narrate returns a prose restatement of a
func (n *Narrator) Narrate(ctx context.Context, a *analysis.CompositeAnalysis) (string, error) {
	if a == nil {
		return "", fmt.Errorf("nothing to narrate")
	}

	text, err := llm.Complete(ctx, n.llm, systemPrompt, BuildPrompt(a), n.maxTokens)
	if err != nil {
		n.logger.Warn("narration failed",
			zap.String("symbol", a.Symbol),
			zap.String("provider", n.llm.Name()),
			zap.Error(err))
		return "", err
	}
	return text, nil
}

// BuildPrompt renders the analysis as the user message
func BuildPrompt(a *analysis.CompositeAnalysis) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## Instrument: %s (%s, %s)\n", a.Name, a.Symbol, a.InstrumentType))
	sb.WriteString(fmt.Sprintf("- Price: %.4g\n", a.CurrentPrice))
	sb.WriteString(fmt.Sprintf("- Overall score: %.1f/100, recommendation %s\n\n", a.OverallScore, a.Recommendation))

	sb.WriteString("## Technical:\n")
	sb.WriteString(fmt.Sprintf("- Trend: %s, score %.1f\n", a.Technical.Trend, a.Technical.Score))
	for _, ind := range a.Technical.Indicators {
		sb.WriteString(fmt.Sprintf("- %s: %.2f (%s, strength %.0f)\n", ind.Name, ind.Value, ind.Signal, ind.Strength))
	}
	sb.WriteString("\n")

	if f := a.Fundamental; f != nil {
		sb.WriteString("## Fundamental:\n")
		sb.WriteString(fmt.Sprintf("- Score %.1f, grade %s, %s\n\n", f.Score, f.Grade, f.Recommendation))
	}

	sb.WriteString("## Sentiment and risk:\n")
	sb.WriteString(fmt.Sprintf("- Fear/greed %.0f (%s)\n", a.Sentiment.FearGreedIndex, a.Sentiment.SocialSentiment))
	sb.WriteString(fmt.Sprintf("- Risk %s, volatility %.1f, max drawdown %.1f%%\n\n", a.Risk.RiskLevel, a.Risk.Volatility, a.Risk.MaxDrawdown))

	sb.WriteString("## Expert view:\n")
	sb.WriteString(fmt.Sprintf("- %s with %.0f%% confidence: %s\n\n", a.ExpertDecision.Action, a.ExpertDecision.Confidence, a.ExpertDecision.Reasoning))

	writeList(&sb, "Key factors", a.Insights.KeyFactors)
	writeList(&sb, "Opportunities", a.Insights.Opportunities)
	writeList(&sb, "Threats", a.Insights.Threats)

	sb.WriteString("## Task:\n")
	sb.WriteString("Summarise this analysis for an investor in one or two short paragraphs.\n")
	return sb.String()
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("## " + title + ":\n")
	for _, it := range items {
		sb.WriteString("- " + it + "\n")
	}
	sb.WriteString("\n")
}

const systemPrompt = `You are an investment research writer. You restate a quantitative analysis in plain language.

Rules:
1. Use only the numbers and conclusions given. Do not invent data, prices or news.
2. Keep the recommendation exactly as stated.
3. Mention the main risk.
4. No headings, no bullet points, no disclaimers.`
