package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"event-planner/backend/internal/platform/logger"
)

// OpenAIConfig holds what is needed to reach an OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // optional, e.g. a gateway exposing /v1
	Model   string
}

// openAIClient is the CompletionClient backed by the chat completions API.
type openAIClient struct {
	client *openai.Client
	model  string
	log    *logger.Logger
	intN   func(n int) int
}

// NewOpenAIClient creates a new OpenAI client; the API key is required.
func NewOpenAIClient(cfg OpenAIConfig, log *logger.Logger) (CompletionClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing")
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT3Dot5Turbo
	}
	if log == nil {
		log = logger.Nop()
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &openAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		log:    log,
		intN:   rand.IntN,
	}, nil
}

// Complete sends the persona and prompt with a jittered token ceiling.
func (c *openAIClient) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	maxTokens := AdjustTokenCeiling(req.MaxTokens, c.intN)

	// go-openai omits a zero temperature, which the API would read as 1.
	temperature := float32(req.Temperature)
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	model := c.model
	if req.Model != "" {
		model = req.Model
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: empty choices")
	}

	c.log.Debug("chat completion",
		"model", model,
		"max_tokens", maxTokens,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)

	return &Completion{
		Text:      strings.TrimSpace(resp.Choices[0].Message.Content),
		MaxTokens: maxTokens,
		Usage: TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
