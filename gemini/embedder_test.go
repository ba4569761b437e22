package gemini_test

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/fwojciec/docqa"
	"github.com/fwojciec/docqa/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestBuildEmbedContents(t *testing.T) {
	t.Parallel()

	contents := gemini.BuildEmbedContents([]string{"first", "second"})

	require.Len(t, contents, 2)
	assert.Equal(t, "first", contents[0].Parts[0].Text)
	assert.Equal(t, "second", contents[1].Parts[0].Text)
	assert.Equal(t, genai.RoleUser, contents[0].Role)
}

func TestBuildEmbedConfig(t *testing.T) {
	t.Parallel()

	t.Run("nil for model default", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, gemini.BuildEmbedConfig(0))
	})

	t.Run("sets output dimensionality", func(t *testing.T) {
		t.Parallel()

		config := gemini.BuildEmbedConfig(768)

		require.NotNil(t, config.OutputDimensionality)
		assert.Equal(t, int32(768), *config.OutputDimensionality)
		assert.Empty(t, config.TaskType, "chunks and queries share one task type")
	})
}

func TestVectorsFromResponse(t *testing.T) {
	t.Parallel()

	t.Run("normalizes every vector", func(t *testing.T) {
		t.Parallel()

		resp := &genai.EmbedContentResponse{
			Embeddings: []*genai.ContentEmbedding{
				{Values: []float32{3, 4}},
				{Values: []float32{0, 2}},
			},
		}

		vecs, err := gemini.VectorsFromResponse(resp, 2)

		require.NoError(t, err)
		assert.InDelta(t, 0.6, vecs[0][0], 1e-6)
		assert.InDelta(t, 0.8, vecs[0][1], 1e-6)
		assert.InDelta(t, 1.0, vecs[1][1], 1e-6)
		assert.InDelta(t, 1.0, unit(vecs[0]), 1e-6)
	})

	t.Run("does not modify the response", func(t *testing.T) {
		t.Parallel()

		resp := &genai.EmbedContentResponse{
			Embeddings: []*genai.ContentEmbedding{{Values: []float32{3, 4}}},
		}

		_, err := gemini.VectorsFromResponse(resp, 1)

		require.NoError(t, err)
		assert.Equal(t, []float32{3, 4}, resp.Embeddings[0].Values)
	})

	t.Run("rejects count mismatch", func(t *testing.T) {
		t.Parallel()

		resp := &genai.EmbedContentResponse{
			Embeddings: []*genai.ContentEmbedding{{Values: []float32{1}}},
		}

		_, err := gemini.VectorsFromResponse(resp, 2)

		assert.Equal(t, docqa.EINTERNAL, docqa.ErrorCode(err))
	})

	t.Run("rejects nil response", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.VectorsFromResponse(nil, 1)

		assert.Equal(t, docqa.EINTERNAL, docqa.ErrorCode(err))
	})

	t.Run("rejects empty embedding", func(t *testing.T) {
		t.Parallel()

		resp := &genai.EmbedContentResponse{
			Embeddings: []*genai.ContentEmbedding{{}},
		}

		_, err := gemini.VectorsFromResponse(resp, 1)

		assert.Equal(t, docqa.EINTERNAL, docqa.ErrorCode(err))
	})
}

func TestEmbedder_EmbedBatch_RejectsOversizedBatch(t *testing.T) {
	t.Parallel()

	embedder := gemini.NewEmbedder(nil) // nil client ok: rejected before any call

	texts := strings.Split(strings.Repeat("x,", gemini.MaxBatchSize+1), ",")[:gemini.MaxBatchSize+1]
	_, err := embedder.EmbedBatch(context.Background(), texts)

	assert.Equal(t, docqa.EINVALID, docqa.ErrorCode(err))
}

func TestEmbedder_EmbedBatch_EmptyInput(t *testing.T) {
	t.Parallel()

	embedder := gemini.NewEmbedder(nil)

	vecs, err := embedder.EmbedBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, vecs)
}

func TestNewClient_RequiresKey(t *testing.T) {
	t.Parallel()

	_, err := gemini.NewClient(context.Background(), "")

	assert.Equal(t, docqa.EINVALID, docqa.ErrorCode(err))
}

// unit returns the length of v, used to check normalization.
func unit(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
