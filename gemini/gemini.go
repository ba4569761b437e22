// Package gemini implements embedding, generation and token counting with
// Google Gemini.
package gemini

import (
	"context"

	"github.com/fwojciec/docqa"
	"google.golang.org/genai"
)

// NewClient creates a Gemini API client. An empty key is rejected up front
// so a missing credential fails at startup rather than on the first call.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, docqa.Errorf(docqa.EINVALID, "gemini API key required")
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}
