// Package lru caches embeddings in an expiring LRU.
package lru

import (
	"context"
	"slices"
	"time"

	"github.com/fwojciec/docqa"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

var _ docqa.Embedder = (*Embedder)(nil)

// Embedder wraps a docqa.Embedder and remembers recent vectors by text.
// Repeated questions then skip the embedding call.
type Embedder struct {
	next  docqa.Embedder
	cache *expirable.LRU[string, []float32]
}

// NewEmbedder wraps next with a cache of size entries that expire after ttl.
// It returns next unchanged when size or ttl is not positive.
func NewEmbedder(next docqa.Embedder, size int, ttl time.Duration) docqa.Embedder {
	if next == nil || size <= 0 || ttl <= 0 {
		return next
	}
	return &Embedder{
		next:  next,
		cache: expirable.NewLRU[string, []float32](size, nil, ttl),
	}
}

// Embed returns the cached vector for text or embeds and caches it.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := e.cache.Get(text); ok {
		return slices.Clone(cached), nil
	}
	v, err := e.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	e.cache.Add(text, slices.Clone(v))
	return v, nil
}

// EmbedBatch embeds only the texts missing from the cache, in one call.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missing []string
	var positions []int
	for i, t := range texts {
		if cached, ok := e.cache.Get(t); ok {
			out[i] = slices.Clone(cached)
			continue
		}
		missing = append(missing, t)
		positions = append(positions, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	vecs, err := e.next.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missing) {
		return nil, docqa.Errorf(docqa.EINTERNAL, "embedder returned %d vectors for %d texts", len(vecs), len(missing))
	}
	for j, v := range vecs {
		out[positions[j]] = v
		e.cache.Add(missing[j], slices.Clone(v))
	}
	return out, nil
}

// Len returns the number of cached vectors.
func (e *Embedder) Len() int {
	return e.cache.Len()
}
