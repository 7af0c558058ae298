package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/newthinker/elite/internal/core"
)

// Provider defines the interface for LLM providers
type Provider interface {
	Name() string
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatRequest holds the request parameters
type ChatRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
	Temperature  float64
}

// Message represents a chat message
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// ChatResponse holds the response from the LLM
type ChatResponse struct {
	Content      string
	Usage        Usage
	FinishReason string
}

// Usage tracks token consumption
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Complete sends a single user prompt and returns the trimmed reply.
// Failures and empty replies are reported as core.ErrLLMFailed, deadlines
// as core.ErrLLMTimeout.
func Complete(ctx context.Context, p Provider, system, prompt string, maxTokens int) (string, error) {
	resp, err := p.Chat(ctx, ChatRequest{
		SystemPrompt: system,
		Messages:     []Message{{Role: "user", Content: prompt}},
		MaxTokens:    maxTokens,
		Temperature:  0.3,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", core.WrapError(core.ErrLLMTimeout, fmt.Errorf("%s: %w", p.Name(), err))
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", core.WrapError(core.ErrLLMFailed, fmt.Errorf("%s: %w", p.Name(), err))
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return "", core.WrapError(core.ErrLLMFailed, fmt.Errorf("%s: empty response", p.Name()))
	}
	return content, nil
}
