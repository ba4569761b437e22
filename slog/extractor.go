package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docqa"
)

// Ensure LoggingSectionExtractor implements docqa.SectionExtractor.
var _ docqa.SectionExtractor = (*LoggingSectionExtractor)(nil)

// LoggingSectionExtractor wraps a SectionExtractor with logging.
type LoggingSectionExtractor struct {
	next   docqa.SectionExtractor
	logger *slog.Logger
}

// NewLoggingSectionExtractor creates a new LoggingSectionExtractor.
func NewLoggingSectionExtractor(next docqa.SectionExtractor, logger *slog.Logger) *LoggingSectionExtractor {
	return &LoggingSectionExtractor{next: next, logger: logger}
}

// ExtractSections delegates to the wrapped extractor and logs the operation.
func (e *LoggingSectionExtractor) ExtractSections(ctx context.Context, url string) (sections []*docqa.RawSection, err error) {
	defer func(begin time.Time) {
		e.logger.Info("extract sections",
			"url", url,
			"count", len(sections),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractSections(ctx, url)
}
