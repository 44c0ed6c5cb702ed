package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"api-testgen/internal/config"
)

// OpenAIGenerator adapts the OpenAI chat API to the Generator capability.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewOpenAIGenerator creates the adapter from provider configuration.
func NewOpenAIGenerator(p config.ProviderConfig) *OpenAIGenerator {
	cfg := openai.DefaultConfig(p.APIKey)
	if p.BaseURL != "" {
		cfg.BaseURL = p.BaseURL
	}
	model := p.Model
	if model == "" {
		model = openai.GPT4
	}
	temperature := p.Temperature
	if temperature == 0 {
		temperature = 0.3
	}
	maxTokens := p.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}
	return &OpenAIGenerator{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Name implements Generator.
func (g *OpenAIGenerator) Name() string { return "openai" }

// Generate implements Generator. Confidence is derived from the finish
// reason: a clean stop is trusted, a truncated or filtered response is
// not.
func (g *OpenAIGenerator) Generate(ctx context.Context, p Prompt) (Result, error) {
	temperature := g.temperature
	if p.Temperature > 0 {
		temperature = p.Temperature
	}
	maxTokens := g.maxTokens
	if p.MaxTokens > 0 {
		maxTokens = p.MaxTokens
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: float32(temperature),
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.System},
			{Role: openai.ChatMessageRoleUser, Content: p.User},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("no response from OpenAI")
	}

	choice := resp.Choices[0]
	confidence := 0.4
	if choice.FinishReason == openai.FinishReasonStop {
		confidence = 0.9
	}
	if choice.Message.Content == "" {
		confidence = 0
	}
	return Result{Text: choice.Message.Content, Confidence: confidence}, nil
}
