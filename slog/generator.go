package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docqa"
)

// Ensure LoggingGenerator implements docqa.Generator.
var _ docqa.Generator = (*LoggingGenerator)(nil)

// LoggingGenerator wraps a Generator with logging.
type LoggingGenerator struct {
	next   docqa.Generator
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator.
func NewLoggingGenerator(next docqa.Generator, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, logger: logger}
}

// Generate delegates to the wrapped generator and logs prompt and output sizes.
func (g *LoggingGenerator) Generate(ctx context.Context, systemInstruction, query string) (text string, err error) {
	defer func(begin time.Time) {
		g.logger.Info("generate",
			"system_chars", len(systemInstruction),
			"query_chars", len(query),
			"output_chars", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Generate(ctx, systemInstruction, query)
}
