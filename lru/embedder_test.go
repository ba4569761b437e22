package lru_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/docqa/lru"
	"github.com/fwojciec/docqa/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbedder_DisabledReturnsNext(t *testing.T) {
	t.Parallel()

	next := &mock.Embedder{}

	assert.Same(t, next, lru.NewEmbedder(next, 0, time.Minute))
	assert.Same(t, next, lru.NewEmbedder(next, 10, 0))
}

func TestEmbedder_Embed(t *testing.T) {
	t.Parallel()

	t.Run("second call is served from cache", func(t *testing.T) {
		t.Parallel()

		calls := 0
		next := &mock.Embedder{
			EmbedFn: func(_ context.Context, text string) ([]float32, error) {
				calls++
				return []float32{1, 0}, nil
			},
		}
		e := lru.NewEmbedder(next, 10, time.Minute)
		ctx := context.Background()

		first, err := e.Embed(ctx, "question")
		require.NoError(t, err)
		second, err := e.Embed(ctx, "question")
		require.NoError(t, err)

		assert.Equal(t, 1, calls)
		assert.Equal(t, first, second)
	})

	t.Run("callers cannot corrupt the cache", func(t *testing.T) {
		t.Parallel()

		next := &mock.Embedder{
			EmbedFn: func(context.Context, string) ([]float32, error) {
				return []float32{1, 0}, nil
			},
		}
		e := lru.NewEmbedder(next, 10, time.Minute)
		ctx := context.Background()

		v, err := e.Embed(ctx, "q")
		require.NoError(t, err)
		v[0] = 42

		cached, err := e.Embed(ctx, "q")
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 0}, cached)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		t.Parallel()

		calls := 0
		next := &mock.Embedder{
			EmbedFn: func(context.Context, string) ([]float32, error) {
				calls++
				return nil, errors.New("quota")
			},
		}
		e := lru.NewEmbedder(next, 10, time.Minute)

		_, err := e.Embed(context.Background(), "q")
		require.Error(t, err)
		_, err = e.Embed(context.Background(), "q")
		require.Error(t, err)

		assert.Equal(t, 2, calls)
	})
}

func TestEmbedder_EmbedBatch(t *testing.T) {
	t.Parallel()

	var requested [][]string
	next := &mock.Embedder{
		EmbedBatchFn: func(_ context.Context, texts []string) ([][]float32, error) {
			requested = append(requested, texts)
			out := make([][]float32, len(texts))
			for i, s := range texts {
				out[i] = []float32{float32(len(s))}
			}
			return out, nil
		},
	}
	e := lru.NewEmbedder(next, 10, time.Minute)
	ctx := context.Background()

	_, err := e.EmbedBatch(ctx, []string{"a", "bb"})
	require.NoError(t, err)

	got, err := e.EmbedBatch(ctx, []string{"bb", "ccc", "a"})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"a", "bb"}, {"ccc"}}, requested)
	assert.Equal(t, [][]float32{{2}, {3}, {1}}, got)
}
