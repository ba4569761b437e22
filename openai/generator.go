package openai

import (
	"context"
	"time"

	"github.com/fwojciec/docqa"
	openai "github.com/sashabaranov/go-openai"
)

// Generation defaults.
const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 2500
)

var _ docqa.Generator = (*Generator)(nil)

// Generator implements docqa.Generator with chat completions.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	retryDelays []time.Duration
}

// Config holds Generator settings. Zero values select the defaults.
type Config struct {
	Model       string
	Temperature *float32
	MaxTokens   int
	RetryDelays []time.Duration
}

// NewGenerator creates a new Generator.
func NewGenerator(client *openai.Client, cfg Config) *Generator {
	g := &Generator{
		client:      client,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		retryDelays: docqa.DefaultRetryDelays(),
	}
	if cfg.Model != "" {
		g.model = cfg.Model
	}
	if cfg.Temperature != nil {
		g.temperature = *cfg.Temperature
	}
	if cfg.MaxTokens > 0 {
		g.maxTokens = cfg.MaxTokens
	}
	if cfg.RetryDelays != nil {
		g.retryDelays = cfg.RetryDelays
	}
	return g
}

// Generate sends the system instruction and the query as separate messages.
func (g *Generator) Generate(ctx context.Context, systemInstruction, query string) (string, error) {
	req := BuildRequest(g.model, systemInstruction, query, g.temperature, g.maxTokens)

	var text string
	err := docqa.Retry(ctx, g.retryDelays, nil, func(ctx context.Context) error {
		resp, err := g.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return docqa.Errorf(docqa.EINTERNAL, "openai returned no choices")
		}
		text = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// BuildRequest returns the chat completion request for one question.
func BuildRequest(model, systemInstruction, query string, temperature float32, maxTokens int) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}
