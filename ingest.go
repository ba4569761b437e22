package docqa

import (
	"context"
	"time"
)

// IngestResult summarizes an ingestion run.
type IngestResult struct {
	Sections int           `json:"sections"`
	Chunks   int           `json:"chunks"`
	Tokens   int           `json:"tokens"`
	Duration time.Duration `json:"duration"`
}

// Ingester rebuilds the corpus from a documentation page.
type Ingester interface {
	// Ingest scrapes url and replaces the corpus with its sections.
	// On error the previous corpus stays in place.
	Ingest(ctx context.Context, url string) (*IngestResult, error)
}
