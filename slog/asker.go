package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docqa"
)

// Ensure LoggingAsker implements docqa.Asker.
var _ docqa.Asker = (*LoggingAsker)(nil)

// LoggingAsker wraps an Asker with logging.
type LoggingAsker struct {
	next   docqa.Asker
	logger *slog.Logger
}

// NewLoggingAsker creates a new LoggingAsker.
func NewLoggingAsker(next docqa.Asker, logger *slog.Logger) *LoggingAsker {
	return &LoggingAsker{next: next, logger: logger}
}

// Ask delegates to the wrapped asker and logs the selected section.
func (a *LoggingAsker) Ask(ctx context.Context, question string) (answer *docqa.Answer, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"question", question,
			"duration", time.Since(begin),
		}
		if answer != nil {
			if answer.TopAnchorID != nil {
				attrs = append(attrs, "top_anchor_id", *answer.TopAnchorID)
			}
			if answer.Score != nil {
				attrs = append(attrs, "score", *answer.Score)
			}
		}
		attrs = append(attrs, "err", err)
		a.logger.Info("ask", attrs...)
	}(time.Now())
	return a.next.Ask(ctx, question)
}

// maxLoggedScores bounds how many scores a retrieval log line carries.
const maxLoggedScores = 5

// LogRetrieval returns a callback that logs what a question retrieved: the
// number of chunks, the leading scores and the parent sections in order.
func LogRetrieval(logger *slog.Logger) func(ctx context.Context, question string, results []docqa.RetrievalResult) {
	return func(ctx context.Context, question string, results []docqa.RetrievalResult) {
		scores := make([]float64, 0, min(len(results), maxLoggedScores))
		for _, r := range results[:min(len(results), maxLoggedScores)] {
			scores = append(scores, docqa.RoundScore(r.Score))
		}

		var parents []string
		for _, g := range docqa.GroupByParent(results) {
			label := g.ParentID
			if label == "" {
				label = docqa.UngroupedLabel
			}
			parents = append(parents, label)
		}

		logger.InfoContext(ctx, "retrieve",
			"question", question,
			"count", len(results),
			"scores", scores,
			"parents", parents,
		)
	}
}
