package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docqa"
	"github.com/fwojciec/docqa/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		index   int
		section *docqa.RawSection
		want    string
	}{
		{
			name:    "slugifies anchor",
			index:   3,
			section: &docqa.RawSection{AnchorID: "Create User"},
			want:    "0003-create-user.md",
		},
		{
			name:    "keeps simple anchor",
			index:   0,
			section: &docqa.RawSection{AnchorID: "auth"},
			want:    "0000-auth.md",
		},
		{
			name:    "falls back when anchor has no letters",
			index:   12,
			section: &docqa.RawSection{AnchorID: "##"},
			want:    "0012-section.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, fs.SectionPath(tt.index, tt.section))
		})
	}
}

func TestFormatSection(t *testing.T) {
	t.Parallel()

	got := fs.FormatSection(&docqa.RawSection{
		AnchorID:  "create-user",
		ParentID:  "users",
		Text:      "POST /users creates a user.",
		SourceURL: "https://example.com/api",
	})

	want := `---
source: https://example.com/api
anchor: create-user
parent: users
---

POST /users creates a user.`

	assert.Equal(t, want, got)
}

func TestSectionWriter_WriteSections(t *testing.T) {
	t.Parallel()

	t.Run("writes one file per section", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		w := fs.NewSectionWriter(base, "sections")

		err := w.WriteSections([]*docqa.RawSection{
			{AnchorID: "a", Text: "first"},
			{AnchorID: "b", Text: "second"},
		})

		require.NoError(t, err)
		entries, err := os.ReadDir(w.Dir())
		require.NoError(t, err)
		assert.Len(t, entries, 2)

		_, err = os.Stat(filepath.Join(base, "sections.tmp"))
		assert.True(t, os.IsNotExist(err), "temp directory should be gone")
	})

	t.Run("replaces previous output", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		w := fs.NewSectionWriter(base, "sections")
		require.NoError(t, w.WriteSections([]*docqa.RawSection{
			{AnchorID: "a", Text: "first"},
			{AnchorID: "b", Text: "second"},
		}))

		require.NoError(t, w.WriteSections([]*docqa.RawSection{{AnchorID: "c", Text: "third"}}))

		entries, err := os.ReadDir(w.Dir())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "0000-c.md", entries[0].Name())
	})
}
