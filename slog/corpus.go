package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docqa"
)

// Ensure LoggingCorpusService implements docqa.CorpusService.
var _ docqa.CorpusService = (*LoggingCorpusService)(nil)

// LoggingCorpusService logs corpus replacements. Views are not logged.
type LoggingCorpusService struct {
	next   docqa.CorpusService
	logger *slog.Logger
}

// NewLoggingCorpusService creates a new LoggingCorpusService.
func NewLoggingCorpusService(next docqa.CorpusService, logger *slog.Logger) *LoggingCorpusService {
	return &LoggingCorpusService{next: next, logger: logger}
}

// Replace delegates to the wrapped service and logs the operation.
func (s *LoggingCorpusService) Replace(ctx context.Context, chunks []*docqa.Chunk, vectors [][]float32) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("replace corpus",
			"chunks", len(chunks),
			"vectors", len(vectors),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Replace(ctx, chunks, vectors)
}

// View delegates to the wrapped service.
func (s *LoggingCorpusService) View(ctx context.Context, fn func(*docqa.Corpus) error) error {
	return s.next.View(ctx, fn)
}
