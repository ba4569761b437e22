package rag_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/docqa"
	"github.com/fwojciec/docqa/mock"
	"github.com/fwojciec/docqa/rag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsker_Ask(t *testing.T) {
	t.Parallel()

	t.Run("reports the section with the best single chunk", func(t *testing.T) {
		t.Parallel()

		var gotSystem, gotQuery string
		asker := &rag.Asker{
			Embedder: queryEmbedder(),
			Corpus: corpusOf(
				scored{chunk(3, "intro", "", "[Section: intro]\nWelcome"), 0.95},
				scored{chunk(2, "list-invoices", "billing", "[Section: list-invoices]\nGET /invoices"), 0.90},
				scored{chunk(0, "create-account", "accounts", "[Section: create-account]\nPOST /accounts"), 0.81},
				scored{chunk(1, "delete-account", "accounts", "[Section: delete-account]\nDELETE /accounts"), 0.76},
			),
			Generator: &mock.Generator{
				GenerateFn: func(_ context.Context, system, query string) (string, error) {
					gotSystem, gotQuery = system, query
					return "Use GET /invoices.", nil
				},
			},
		}

		answer, err := asker.Ask(context.Background(), "How do I list invoices?")

		require.NoError(t, err)
		assert.Equal(t, "Use GET /invoices.", answer.Answer)
		require.NotNil(t, answer.TopAnchorID)
		assert.Equal(t, "list-invoices", *answer.TopAnchorID)
		require.NotNil(t, answer.Score)
		assert.Equal(t, 0.9, *answer.Score)

		assert.Equal(t, "How do I list invoices?", gotQuery)
		assert.Contains(t, gotSystem, "### Section: none\n[Section: intro]\nWelcome")
		assert.Contains(t, gotSystem, "### Section: billing\n[Section: list-invoices]\nGET /invoices")
		assert.Contains(t, gotSystem, "### Section: accounts\n[Section: create-account]\nPOST /accounts\n[Section: delete-account]\nDELETE /accounts")
		assert.Less(t, strings.Index(gotSystem, "Section: none"), strings.Index(gotSystem, "Section: billing"))
	})

	t.Run("returns insufficient information without calling the model when nothing is retrieved", func(t *testing.T) {
		t.Parallel()

		asker := &rag.Asker{
			Embedder: queryEmbedder(),
			Corpus:   corpusOf(),
			Generator: &mock.Generator{
				GenerateFn: func(context.Context, string, string) (string, error) {
					t.Fatal("generator must not be called")
					return "", nil
				},
			},
		}

		answer, err := asker.Ask(context.Background(), "anything")

		require.NoError(t, err)
		assert.Equal(t, docqa.NoAnswer(), answer)
		assert.Nil(t, answer.TopAnchorID)
		assert.Nil(t, answer.Score)
	})

	t.Run("returns insufficient information when only orphan chunks are retrieved", func(t *testing.T) {
		t.Parallel()

		asker := &rag.Asker{
			Embedder: queryEmbedder(),
			Corpus:   corpusOf(scored{chunk(0, "intro", "", "Welcome"), 0.9}),
			Generator: &mock.Generator{
				GenerateFn: func(context.Context, string, string) (string, error) {
					t.Fatal("generator must not be called")
					return "", nil
				},
			},
		}

		answer, err := asker.Ask(context.Background(), "anything")

		require.NoError(t, err)
		assert.Equal(t, docqa.InsufficientInformation, answer.Answer)
		assert.Nil(t, answer.TopAnchorID)
	})

	t.Run("truncates the context to the limit", func(t *testing.T) {
		t.Parallel()

		var gotSystem string
		asker := &rag.Asker{
			Embedder:     queryEmbedder(),
			Corpus:       corpusOf(scored{chunk(0, "a", "p", strings.Repeat("x", 100)), 0.5}),
			ContextLimit: 20,
			Generator: &mock.Generator{
				GenerateFn: func(_ context.Context, system, _ string) (string, error) {
					gotSystem = system
					return "ok", nil
				},
			},
		}

		_, err := asker.Ask(context.Background(), "q")

		require.NoError(t, err)
		assert.Equal(t, docqa.SystemInstruction("### Section: p\nxxxxx"), gotSystem)
	})

	t.Run("passes k to the index", func(t *testing.T) {
		t.Parallel()

		var gotK int
		index := &mock.VectorIndex{
			SearchFn: func(_ []float32, k int) ([]docqa.Hit, error) {
				gotK = k
				return nil, nil
			},
		}
		asker := &rag.Asker{
			Embedder: queryEmbedder(),
			Corpus: &mock.CorpusService{
				ViewFn: func(_ context.Context, fn func(*docqa.Corpus) error) error {
					return fn(&docqa.Corpus{Index: index})
				},
			},
			K: 5,
		}

		_, err := asker.Ask(context.Background(), "q")

		require.NoError(t, err)
		assert.Equal(t, 5, gotK)
	})

	t.Run("reports retrieval to observer", func(t *testing.T) {
		t.Parallel()

		var observed []docqa.RetrievalResult
		asker := &rag.Asker{
			Embedder:  queryEmbedder(),
			Corpus:    corpusOf(scored{chunk(0, "a", "p", "text"), 0.5}),
			Generator: &mock.Generator{GenerateFn: func(context.Context, string, string) (string, error) { return "ok", nil }},
			OnRetrieve: func(_ context.Context, _ string, results []docqa.RetrievalResult) {
				observed = results
			},
		}

		_, err := asker.Ask(context.Background(), "q")

		require.NoError(t, err)
		require.Len(t, observed, 1)
		assert.Equal(t, "a", observed[0].Chunk.AnchorID)
	})

	t.Run("rejects empty question", func(t *testing.T) {
		t.Parallel()

		asker := &rag.Asker{}

		_, err := asker.Ask(context.Background(), "  ")

		assert.Equal(t, docqa.EINVALID, docqa.ErrorCode(err))
	})

	t.Run("reports missing corpus as not found", func(t *testing.T) {
		t.Parallel()

		asker := &rag.Asker{
			Corpus: &mock.CorpusService{
				ViewFn: func(context.Context, func(*docqa.Corpus) error) error {
					return docqa.Errorf(docqa.ENOTFOUND, "no corpus found: must ingest first")
				},
			},
		}

		_, err := asker.Ask(context.Background(), "q")

		assert.Equal(t, docqa.ENOTFOUND, docqa.ErrorCode(err))
	})

	t.Run("returns embedding errors", func(t *testing.T) {
		t.Parallel()

		asker := &rag.Asker{
			Embedder: &mock.Embedder{
				EmbedFn: func(context.Context, string) ([]float32, error) {
					return nil, errors.New("quota exceeded")
				},
			},
			Corpus: corpusOf(),
		}

		_, err := asker.Ask(context.Background(), "q")

		require.EqualError(t, err, "quota exceeded")
	})

	t.Run("returns generation errors", func(t *testing.T) {
		t.Parallel()

		asker := &rag.Asker{
			Embedder: queryEmbedder(),
			Corpus:   corpusOf(scored{chunk(0, "a", "p", "text"), 0.5}),
			Generator: &mock.Generator{
				GenerateFn: func(context.Context, string, string) (string, error) {
					return "", errors.New("model overloaded")
				},
			},
		}

		_, err := asker.Ask(context.Background(), "q")

		require.EqualError(t, err, "model overloaded")
	})

	t.Run("repeated questions give the same section and score", func(t *testing.T) {
		t.Parallel()

		asker := &rag.Asker{
			Embedder: queryEmbedder(),
			Corpus: corpusOf(
				scored{chunk(0, "a", "p", "one"), 0.71234},
				scored{chunk(1, "b", "q", "two"), 0.61},
			),
			Generator: &mock.Generator{GenerateFn: func(context.Context, string, string) (string, error) { return "ok", nil }},
		}

		first, err := asker.Ask(context.Background(), "q")
		require.NoError(t, err)
		second, err := asker.Ask(context.Background(), "q")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 0.7123, *first.Score)
	})
}
