package rag_test

import (
	"context"

	"github.com/fwojciec/docqa"
	"github.com/fwojciec/docqa/mock"
)

// scored is a chunk the fake index returns with a fixed score.
type scored struct {
	chunk *docqa.Chunk
	score float32
}

func chunk(id int, anchor, parent, text string) *docqa.Chunk {
	return &docqa.Chunk{ID: id, ChunkIndex: id, AnchorID: anchor, ParentID: parent, Text: text}
}

// corpusOf returns a corpus service whose index always returns hits in the
// given order.
func corpusOf(hits ...scored) *mock.CorpusService {
	byID := make(map[int]*docqa.Chunk, len(hits))
	for _, h := range hits {
		byID[h.chunk.ID] = h.chunk
	}

	index := &mock.VectorIndex{
		SearchFn: func(_ []float32, k int) ([]docqa.Hit, error) {
			out := make([]docqa.Hit, 0, len(hits))
			for _, h := range hits {
				if len(out) == k {
					break
				}
				out = append(out, docqa.Hit{ID: h.chunk.ID, Score: h.score})
			}
			return out, nil
		},
	}
	chunks := &mock.ChunkService{
		FindChunksByIDsFn: func(_ context.Context, ids []int) (map[int]*docqa.Chunk, error) {
			out := make(map[int]*docqa.Chunk, len(ids))
			for _, id := range ids {
				if c, ok := byID[id]; ok {
					out[id] = c
				}
			}
			return out, nil
		},
	}

	return &mock.CorpusService{
		ViewFn: func(_ context.Context, fn func(*docqa.Corpus) error) error {
			return fn(&docqa.Corpus{Index: index, Chunks: chunks})
		},
	}
}

func queryEmbedder() *mock.Embedder {
	return &mock.Embedder{
		EmbedFn: func(context.Context, string) ([]float32, error) {
			return []float32{1, 0}, nil
		},
	}
}
