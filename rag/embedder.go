package rag

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/docqa"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Default batching parameters for embedding a corpus.
const (
	DefaultBatchSize   = 100
	DefaultConcurrency = 4
)

// Ensure BatchEmbedder implements docqa.Embedder at compile time.
var _ docqa.Embedder = (*BatchEmbedder)(nil)

// BatchEmbedder splits large embedding jobs into provider-sized batches and
// embeds them concurrently. Failed batches are retried with backoff.
type BatchEmbedder struct {
	next docqa.Embedder

	// BatchSize is the number of texts per request. Defaults to DefaultBatchSize.
	BatchSize int

	// Concurrency bounds the requests in flight. Defaults to DefaultConcurrency.
	Concurrency int

	// Limiter, if set, paces requests to the provider.
	Limiter *rate.Limiter

	// RetryDelays are the backoff delays for a failed batch.
	// Defaults to docqa.DefaultRetryDelays.
	RetryDelays []time.Duration

	// OnBatch, if set, is called after each batch with the number of texts
	// embedded so far and the total. It may be called concurrently.
	OnBatch func(done, total int)
}

// NewBatchEmbedder wraps next.
func NewBatchEmbedder(next docqa.Embedder) *BatchEmbedder {
	return &BatchEmbedder{next: next}
}

// Embed embeds a single text.
func (e *BatchEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := e.wait(ctx); err != nil {
		return nil, err
	}
	return e.next.Embed(ctx, text)
}

// EmbedBatch embeds any number of texts. Vectors are returned in input order.
// The first failing batch cancels the rest.
func (e *BatchEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	size := e.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	delays := e.RetryDelays
	if delays == nil {
		delays = docqa.DefaultRetryDelays()
	}

	vectors := make([][]float32, len(texts))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		g.Go(func() error {
			batch := texts[start:end]
			var got [][]float32
			err := docqa.Retry(gctx, delays, nil, func(ctx context.Context) error {
				if err := e.wait(ctx); err != nil {
					return err
				}
				var err error
				got, err = e.next.EmbedBatch(ctx, batch)
				return err
			})
			if err != nil {
				return err
			}
			if len(got) != len(batch) {
				return docqa.Errorf(docqa.EINTERNAL, "embedder returned %d vectors for %d texts", len(got), len(batch))
			}
			copy(vectors[start:end], got)

			if e.OnBatch != nil {
				e.OnBatch(int(done.Add(int64(len(batch)))), len(texts))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

func (e *BatchEmbedder) wait(ctx context.Context) error {
	if e.Limiter == nil {
		return nil
	}
	return e.Limiter.Wait(ctx)
}
