package mock

import (
	"context"

	"github.com/fwojciec/docqa"
)

var _ docqa.Ingester = (*Ingester)(nil)

// Ingester is a mock implementation of docqa.Ingester.
type Ingester struct {
	IngestFn func(ctx context.Context, url string) (*docqa.IngestResult, error)
}

func (i *Ingester) Ingest(ctx context.Context, url string) (*docqa.IngestResult, error) {
	return i.IngestFn(ctx, url)
}
