// Package openai implements embedding and generation with the OpenAI API.
package openai

import (
	"github.com/fwojciec/docqa"
	openai "github.com/sashabaranov/go-openai"
)

// NewClient creates an OpenAI client. baseURL may point at any compatible
// server; empty keeps the public API.
func NewClient(apiKey, baseURL string) (*openai.Client, error) {
	if apiKey == "" {
		return nil, docqa.Errorf(docqa.EINVALID, "openai API key required")
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(config), nil
}
