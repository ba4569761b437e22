package openai

import (
	"context"
	"slices"

	"github.com/fwojciec/docqa"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultEmbeddingModel is the embedding model used when none is configured.
const DefaultEmbeddingModel = "text-embedding-3-small"

// MaxBatchSize is the most texts sent in a single embedding request.
const MaxBatchSize = 100

var _ docqa.Embedder = (*Embedder)(nil)

// Embedder implements docqa.Embedder using OpenAI embeddings.
type Embedder struct {
	client     *openai.Client
	model      string
	dimensions int
}

// NewEmbedder creates a new Embedder. Empty model selects
// DefaultEmbeddingModel; zero dimensions keeps the model default.
func NewEmbedder(client *openai.Client, model string, dimensions int) *Embedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &Embedder{client: client, model: model, dimensions: dimensions}
}

// Embed returns the unit vector for text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds up to MaxBatchSize texts in one request. Vectors are
// returned in input order regardless of the order of the response.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if len(texts) > MaxBatchSize {
		return nil, docqa.Errorf(docqa.EINVALID, "batch of %d texts exceeds limit of %d", len(texts), MaxBatchSize)
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      texts,
		Model:      openai.EmbeddingModel(e.model),
		Dimensions: e.dimensions,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, docqa.Errorf(docqa.EINTERNAL, "openai returned %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	vecs := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) || vecs[d.Index] != nil {
			return nil, docqa.Errorf(docqa.EINTERNAL, "openai returned unexpected embedding index %d", d.Index)
		}
		if len(d.Embedding) == 0 {
			return nil, docqa.Errorf(docqa.EINTERNAL, "openai returned an empty embedding at %d", d.Index)
		}
		v := slices.Clone(d.Embedding)
		docqa.Normalize(v)
		vecs[d.Index] = v
	}
	return vecs, nil
}
