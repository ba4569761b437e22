package gemini

import (
	"context"
	"slices"

	"github.com/fwojciec/docqa"
	"google.golang.org/genai"
)

// DefaultEmbeddingModel is the embedding model used when none is configured.
const DefaultEmbeddingModel = "gemini-embedding-001"

// MaxBatchSize is the most texts accepted by a single embedding request.
const MaxBatchSize = 100

// Ensure Embedder implements docqa.Embedder at compile time.
var _ docqa.Embedder = (*Embedder)(nil)

// Embedder implements docqa.Embedder using the Gemini embedding API. Chunks
// and queries share one configuration so both land in the same space.
type Embedder struct {
	client     *genai.Client
	model      string
	dimensions int32
}

// EmbedderOption configures an Embedder.
type EmbedderOption func(*Embedder)

// WithEmbeddingModel overrides the embedding model.
func WithEmbeddingModel(model string) EmbedderOption {
	return func(e *Embedder) {
		if model != "" {
			e.model = model
		}
	}
}

// WithDimensions truncates embeddings to n dimensions. Zero keeps the model default.
func WithDimensions(n int) EmbedderOption {
	return func(e *Embedder) {
		e.dimensions = int32(n)
	}
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client, opts ...EmbedderOption) *Embedder {
	e := &Embedder{client: client, model: DefaultEmbeddingModel}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed returns the unit vector for text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds up to MaxBatchSize texts in one request.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if len(texts) > MaxBatchSize {
		return nil, docqa.Errorf(docqa.EINVALID, "batch of %d texts exceeds limit of %d", len(texts), MaxBatchSize)
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, BuildEmbedContents(texts), BuildEmbedConfig(e.dimensions))
	if err != nil {
		return nil, err
	}
	return VectorsFromResponse(resp, len(texts))
}

// BuildEmbedContents wraps each text in its own content.
func BuildEmbedContents(texts []string) []*genai.Content {
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}
	return contents
}

// BuildEmbedConfig returns the request config, or nil when the defaults apply.
func BuildEmbedConfig(dimensions int32) *genai.EmbedContentConfig {
	if dimensions <= 0 {
		return nil
	}
	return &genai.EmbedContentConfig{OutputDimensionality: &dimensions}
}

// VectorsFromResponse extracts want unit vectors from resp.
func VectorsFromResponse(resp *genai.EmbedContentResponse, want int) ([][]float32, error) {
	if resp == nil || len(resp.Embeddings) != want {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		return nil, docqa.Errorf(docqa.EINTERNAL, "gemini returned %d embeddings for %d texts", got, want)
	}

	vecs := make([][]float32, want)
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, docqa.Errorf(docqa.EINTERNAL, "gemini returned an empty embedding at %d", i)
		}
		v := slices.Clone(emb.Values)
		docqa.Normalize(v)
		vecs[i] = v
	}
	return vecs, nil
}
