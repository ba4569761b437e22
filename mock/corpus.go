package mock

import (
	"context"

	"github.com/fwojciec/docqa"
)

var _ docqa.CorpusService = (*CorpusService)(nil)

// CorpusService is a mock implementation of docqa.CorpusService.
type CorpusService struct {
	ReplaceFn func(ctx context.Context, chunks []*docqa.Chunk, vectors [][]float32) error
	ViewFn    func(ctx context.Context, fn func(*docqa.Corpus) error) error
}

func (s *CorpusService) Replace(ctx context.Context, chunks []*docqa.Chunk, vectors [][]float32) error {
	return s.ReplaceFn(ctx, chunks, vectors)
}

func (s *CorpusService) View(ctx context.Context, fn func(*docqa.Corpus) error) error {
	return s.ViewFn(ctx, fn)
}
