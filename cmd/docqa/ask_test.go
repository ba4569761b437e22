package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fwojciec/docqa"
	main "github.com/fwojciec/docqa/cmd/docqa"
	"github.com/fwojciec/docqa/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints answer with section and score", func(t *testing.T) {
		t.Parallel()

		anchor := "list-invoices"
		score := 0.9
		asker := &mock.Asker{
			AskFn: func(_ context.Context, question string) (*docqa.Answer, error) {
				assert.Equal(t, "How do I list invoices?", question)
				return &docqa.Answer{Answer: "Call GET /invoices.", TopAnchorID: &anchor, Score: &score}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Asker:  asker,
		}

		cmd := &main.AskCmd{Question: "How do I list invoices?"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Call GET /invoices.")
		assert.Contains(t, stdout.String(), "#list-invoices")
		assert.Contains(t, stdout.String(), "0.9000")
	})

	t.Run("omits section line when nothing was retrieved", func(t *testing.T) {
		t.Parallel()

		asker := &mock.Asker{
			AskFn: func(_ context.Context, _ string) (*docqa.Answer, error) {
				return docqa.NoAnswer(), nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Asker:  asker,
		}

		err := (&main.AskCmd{Question: "anything"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), docqa.InsufficientInformation)
		assert.NotContains(t, stdout.String(), "Section:")
	})

	t.Run("prints JSON with null fields", func(t *testing.T) {
		t.Parallel()

		asker := &mock.Asker{
			AskFn: func(_ context.Context, _ string) (*docqa.Answer, error) {
				return docqa.NoAnswer(), nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Asker:  asker,
		}

		err := (&main.AskCmd{Question: "anything", JSON: true}).Run(deps)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		assert.Equal(t, docqa.InsufficientInformation, got["answer"])
		assert.Nil(t, got["top_anchor_id"])
		assert.Nil(t, got["score"])
	})

	t.Run("suggests ingest when corpus is missing", func(t *testing.T) {
		t.Parallel()

		asker := &mock.Asker{
			AskFn: func(_ context.Context, _ string) (*docqa.Answer, error) {
				return nil, docqa.Errorf(docqa.ENOTFOUND, "no corpus")
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Asker:  asker,
		}

		err := (&main.AskCmd{Question: "anything"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "docqa ingest")
		assert.Empty(t, stdout.String())
	})

	t.Run("prints error message", func(t *testing.T) {
		t.Parallel()

		asker := &mock.Asker{
			AskFn: func(_ context.Context, _ string) (*docqa.Answer, error) {
				return nil, docqa.Errorf(docqa.EINVALID, "query required")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Asker:  asker,
		}

		err := (&main.AskCmd{Question: ""}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, "error: query required\n", stderr.String())
	})
}
