package mock

import (
	"context"

	"github.com/fwojciec/docqa"
)

var _ docqa.Generator = (*Generator)(nil)

// Generator is a mock implementation of docqa.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, systemInstruction, query string) (string, error)
}

func (g *Generator) Generate(ctx context.Context, systemInstruction, query string) (string, error) {
	return g.GenerateFn(ctx, systemInstruction, query)
}
