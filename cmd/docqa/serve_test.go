package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	main "github.com/fwojciec/docqa/cmd/docqa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type server struct {
	opened, closed bool
	openErr        error
}

func (s *server) Open() error  { s.opened = true; return s.openErr }
func (s *server) Close() error { s.closed = true; return nil }
func (s *server) URL() string  { return "http://127.0.0.1:8000" }

func TestServeCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("serves until context is cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		srv := &server{}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    ctx,
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Server: srv,
		}

		err := (&main.ServeCmd{}).Run(deps)

		require.NoError(t, err)
		assert.True(t, srv.opened)
		assert.True(t, srv.closed)
		assert.Contains(t, stdout.String(), "Listening on http://127.0.0.1:8000")
	})

	t.Run("returns open error", func(t *testing.T) {
		t.Parallel()

		srv := &server{openErr: errors.New("address in use")}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Server: srv,
		}

		err := (&main.ServeCmd{}).Run(deps)

		require.Error(t, err)
		assert.False(t, srv.closed)
		assert.Contains(t, stderr.String(), "error:")
	})
}
