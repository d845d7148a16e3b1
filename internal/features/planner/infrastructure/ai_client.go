package infrastructure

import (
	"context"

	"event-planner/backend/internal/features/planner/domain"
)

// CompletionRequest is one chat-completion call: a system persona, the user
// prompt and the sampling parameters requested by the user.
type CompletionRequest struct {
	Model       string // optional override of the client default
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int // requested ceiling; the client jitters it
}

// TokenUsage mirrors the usage block returned by the service.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the generated text and the ceiling that was actually sent.
type Completion struct {
	Text      string
	MaxTokens int
	Usage     TokenUsage
}

// CompletionClient defines a generic interface for chat-completion services.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}

// AdjustTokenCeiling picks a ceiling uniformly from
// [max(MinTokens, requested-TokenJitter), min(MaxTokens, requested+TokenJitter)].
// intN must return a value in [0, n).
func AdjustTokenCeiling(requested int, intN func(n int) int) int {
	requested = min(max(requested, domain.MinTokens), domain.MaxTokens)
	lo := max(domain.MinTokens, requested-domain.TokenJitter)
	hi := min(domain.MaxTokens, requested+domain.TokenJitter)
	return lo + intN(hi-lo+1)
}
