package gemini

import (
	"context"
	"time"

	"github.com/fwojciec/docqa"
	"google.golang.org/genai"
)

// Generation defaults.
const (
	DefaultModel           = "gemini-2.5-flash"
	DefaultTemperature     = 0.2
	DefaultMaxOutputTokens = 2500
)

// Ensure Generator implements docqa.Generator at compile time.
var _ docqa.Generator = (*Generator)(nil)

// Generator implements docqa.Generator using Gemini.
type Generator struct {
	client          *genai.Client
	model           string
	temperature     float32
	maxOutputTokens int32
	retryDelays     []time.Duration
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithModel overrides the generation model.
func WithModel(model string) GeneratorOption {
	return func(g *Generator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) GeneratorOption {
	return func(g *Generator) {
		g.temperature = t
	}
}

// WithMaxOutputTokens caps the length of the answer.
func WithMaxOutputTokens(n int) GeneratorOption {
	return func(g *Generator) {
		g.maxOutputTokens = int32(n)
	}
}

// WithRetryDelays sets the backoff between failed calls. Its length is the
// number of retries.
func WithRetryDelays(delays []time.Duration) GeneratorOption {
	return func(g *Generator) {
		g.retryDelays = delays
	}
}

// NewGenerator creates a new Generator.
func NewGenerator(client *genai.Client, opts ...GeneratorOption) *Generator {
	g := &Generator{
		client:          client,
		model:           DefaultModel,
		temperature:     DefaultTemperature,
		maxOutputTokens: DefaultMaxOutputTokens,
		retryDelays:     docqa.DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate sends the system instruction as config and the query as the
// user turn.
func (g *Generator) Generate(ctx context.Context, systemInstruction, query string) (string, error) {
	config := BuildConfig(systemInstruction, g.temperature, g.maxOutputTokens)
	contents := []*genai.Content{genai.NewContentFromText(query, genai.RoleUser)}

	var text string
	err := docqa.Retry(ctx, g.retryDelays, nil, func(ctx context.Context) error {
		result, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
		if err != nil {
			return err
		}
		if result == nil {
			return docqa.Errorf(docqa.EINTERNAL, "gemini returned nil result")
		}
		text = result.Text()
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig(systemInstruction string, temperature float32, maxOutputTokens int32) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature:     &temperature,
		MaxOutputTokens: maxOutputTokens,
	}
}
