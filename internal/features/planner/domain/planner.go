package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	catalogdomain "event-planner/backend/internal/features/catalog/domain"
)

// Token ceiling bounds accepted from the form and sent to the model.
const (
	MinTokens = 100
	MaxTokens = 800
	// TokenJitter is how far the adjusted ceiling may drift from the requested one.
	TokenJitter = 30
)

// PlanRequest is the user input for one generation attempt.
type PlanRequest struct {
	Goal        string  `json:"goal" form:"goal"`
	Strategy    string  `json:"strategy" form:"strategy"`
	Audience    string  `json:"audience" form:"audience"`
	Budget      string  `json:"budget" form:"budget"`
	Temperature float64 `json:"temperature" form:"temperature"`
	MaxTokens   int     `json:"max_tokens" form:"max_tokens"`
}

// Validate checks that the free-text fields are filled and the numeric
// parameters are in range.
func (r PlanRequest) Validate() error {
	for _, v := range []string{r.Goal, r.Strategy, r.Audience, r.Budget} {
		if strings.TrimSpace(v) == "" {
			return &catalogdomain.ValidationError{
				Code:    catalogdomain.CodeMissingField,
				Message: "All fields are required.",
			}
		}
	}
	if r.Temperature < 0 || r.Temperature > 1 {
		return &catalogdomain.ValidationError{
			Code:    catalogdomain.CodeOutOfRange,
			Message: fmt.Sprintf("Temperature must be between 0 and 1, got %.2f.", r.Temperature),
		}
	}
	if r.MaxTokens < MinTokens || r.MaxTokens > MaxTokens {
		return &catalogdomain.ValidationError{
			Code:    catalogdomain.CodeOutOfRange,
			Message: fmt.Sprintf("Max tokens must be between %d and %d, got %d.", MinTokens, MaxTokens, r.MaxTokens),
		}
	}
	return nil
}

// GeneratedPlan is the latest result held for a session.
type GeneratedPlan struct {
	Goal       string    `json:"goal"`
	Audience   string    `json:"audience"`
	Strategy   string    `json:"strategy"`
	Budget     string    `json:"budget"`
	EventPlan  string    `json:"event_plan"`
	TokensUsed int       `json:"tokens_used"`
	CreatedAt  time.Time `json:"created_at"`
}

// SessionState is the per-session controller state. A nil Plan means Idle.
type SessionState struct {
	Plan *GeneratedPlan `json:"plan,omitempty"`
}

var (
	// ErrNoPlan is returned when a session has not generated anything yet.
	ErrNoPlan = errors.New("no event plan has been generated in this session")
	// ErrGenerationFailed marks failures of the completion service.
	ErrGenerationFailed = errors.New("failed to generate event plan")
)
