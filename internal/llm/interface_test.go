package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/newthinker/elite/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	reply string
	err   error
	got   ChatRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &ChatResponse{Content: f.reply}, nil
}

func TestComplete(t *testing.T) {
	p := &fakeProvider{reply: "  looks fine \n"}
	got, err := Complete(context.Background(), p, "sys", "prompt", 200)
	require.NoError(t, err)

	assert.Equal(t, "looks fine", got)
	assert.Equal(t, "sys", p.got.SystemPrompt)
	assert.Equal(t, []Message{{Role: "user", Content: "prompt"}}, p.got.Messages)
	assert.Equal(t, 200, p.got.MaxTokens)
}

func TestComplete_Errors(t *testing.T) {
	_, err := Complete(context.Background(), &fakeProvider{err: errors.New("500")}, "", "p", 0)
	assert.True(t, errors.Is(err, core.ErrLLMFailed))

	_, err = Complete(context.Background(), &fakeProvider{reply: "   "}, "", "p", 0)
	assert.True(t, errors.Is(err, core.ErrLLMFailed))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Complete(ctx, &fakeProvider{err: context.Canceled}, "", "p", 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComplete_Timeout(t *testing.T) {
	_, err := Complete(context.Background(), &fakeProvider{err: context.DeadlineExceeded}, "", "p", 0)
	assert.True(t, errors.Is(err, core.ErrLLMTimeout))
	assert.False(t, errors.Is(err, core.ErrLLMFailed))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()
	_, err = Complete(ctx, &fakeProvider{err: errors.New("request aborted")}, "", "p", 0)
	assert.True(t, errors.Is(err, core.ErrLLMTimeout))
}
