package narrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/newthinker/elite/internal/analysis"
	"github.com/newthinker/elite/internal/core"
	"github.com/newthinker/elite/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLLM struct {
	reply string
	err   error
	last  llm.ChatRequest
}

func (m *mockLLM) Name() string { return "mock" }

func (m *mockLLM) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	return &llm.ChatResponse{Content: m.reply}, nil
}

func sample() *analysis.CompositeAnalysis {
	snap := &core.Snapshot{Symbol: "AAPL", Name: "Apple Inc.", InstrumentType: core.InstrumentEquity, Price: 100, ChangePercent: 8, Volume: 5e7, MarketCap: 2e11}
	return analysis.NewEngine().
		WithClock(func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) }).
		Analyze("AAPL", core.InstrumentEquity, snap)
}

func TestNarrator_Narrate(t *testing.T) {
	m := &mockLLM{reply: "  Apple looks constructive.\n"}
	n := New(m, 0)

	got, err := n.Narrate(context.Background(), sample())
	require.NoError(t, err)
	assert.Equal(t, "Apple looks constructive.", got)
	assert.Equal(t, defaultMaxTokens, m.last.MaxTokens)
	assert.Equal(t, systemPrompt, m.last.SystemPrompt)
	require.Len(t, m.last.Messages, 1)
	assert.Contains(t, m.last.Messages[0].Content, "Apple Inc. (AAPL, equity)")
}

func TestNarrator_DoesNotMutateAnalysis(t *testing.T) {
	a := sample()
	before := *a
	_, err := New(&mockLLM{reply: "ok"}, 100).Narrate(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, before, *a)
}

func TestNarrator_Failure(t *testing.T) {
	_, err := New(&mockLLM{err: errors.New("boom")}, 100).Narrate(context.Background(), sample())
	assert.True(t, errors.Is(err, core.ErrLLMFailed))

	_, err = New(&mockLLM{reply: "   "}, 100).Narrate(context.Background(), sample())
	assert.True(t, errors.Is(err, core.ErrLLMFailed))

	_, err = New(&mockLLM{reply: "x"}, 100).Narrate(context.Background(), nil)
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(sample())

	assert.Contains(t, p, "Overall score: 71.6/100, recommendation buy")
	assert.Contains(t, p, "## Fundamental:\n- Score 100.0, grade A+")
	assert.Contains(t, p, "## Threats:\n- very high volatility, elevated loss risk")
	assert.Contains(t, p, "## Task:")

	crypto := analysis.NewEngine().Analyze("BTC", core.InstrumentCrypto, &core.Snapshot{Symbol: "BTC", Price: 50, ChangePercent: -12})
	p = BuildPrompt(crypto)
	assert.NotContains(t, p, "## Fundamental:")
	assert.NotContains(t, p, "## Opportunities:")
}
