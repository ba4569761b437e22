package mock

import (
	"context"

	"github.com/fwojciec/docqa"
)

var _ docqa.ChunkService = (*ChunkService)(nil)

// ChunkService is a mock implementation of docqa.ChunkService.
type ChunkService struct {
	CreateChunksFn    func(ctx context.Context, chunks []*docqa.Chunk) error
	FindChunkByIDFn   func(ctx context.Context, id int) (*docqa.Chunk, error)
	FindChunksByIDsFn func(ctx context.Context, ids []int) (map[int]*docqa.Chunk, error)
	CountChunksFn     func(ctx context.Context) (int, error)
}

func (s *ChunkService) CreateChunks(ctx context.Context, chunks []*docqa.Chunk) error {
	return s.CreateChunksFn(ctx, chunks)
}

func (s *ChunkService) FindChunkByID(ctx context.Context, id int) (*docqa.Chunk, error) {
	return s.FindChunkByIDFn(ctx, id)
}

func (s *ChunkService) FindChunksByIDs(ctx context.Context, ids []int) (map[int]*docqa.Chunk, error) {
	return s.FindChunksByIDsFn(ctx, ids)
}

func (s *ChunkService) CountChunks(ctx context.Context) (int, error) {
	return s.CountChunksFn(ctx)
}
