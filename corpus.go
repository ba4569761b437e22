package docqa

import "context"

// Corpus is a vector index loaded together with its chunk store. Every id
// in the index has exactly one chunk in the store and vice versa.
type Corpus struct {
	Index  VectorIndex
	Chunks ChunkService
}

// CorpusService persists the single corpus and serves it to queries.
type CorpusService interface {
	// Replace builds a new corpus from chunks and their vectors (vectors[i]
	// belongs to chunks[i]) and swaps it in for the previous one. On error
	// the previous corpus stays in place.
	Replace(ctx context.Context, chunks []*Chunk, vectors [][]float32) error

	// View calls fn with the current corpus. The corpus is not replaced
	// while fn runs. Returns ENOTFOUND if nothing has been ingested yet.
	View(ctx context.Context, fn func(*Corpus) error) error
}
