package docqa

import "context"

// Generator produces text from a language model.
type Generator interface {
	// Generate sends the system instruction and the user query as two
	// separate turns and returns the model's text output.
	Generate(ctx context.Context, systemInstruction, query string) (string, error)
}

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
