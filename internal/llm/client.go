package llm

import (
	"context"
	"errors"
)

// ErrEmptyOutput is returned when the model call succeeds but produces no
// text. Callers treat it the same as any other generation failure.
var ErrEmptyOutput = errors.New("model returned empty output")

type LLMRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

type LLMResponse struct {
	Content    string
	StopReason string
}

// LLMClient is an interface for invoking LLM models
// This allows mocking in tests without making real API calls
type LLMClient interface {
	InvokeModel(ctx context.Context, request LLMRequest) (*LLMResponse, error)
}

type StreamCallback func(chunk string) error

// StreamingClient is implemented by providers that can stream the response
// token by token.
type StreamingClient interface {
	LLMClient
	InvokeModelStream(ctx context.Context, request LLMRequest, callback StreamCallback) (*LLMResponse, error)
}
