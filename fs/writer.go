// Package fs provides file-based storage for the corpus and extracted sections.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docqa"
)

// SectionPath returns the file name for the i-th extracted section.
// Example: 3, anchor "Create User" → 0003-create-user.md
func SectionPath(i int, s *docqa.RawSection) string {
	slug := docqa.Slugify(s.AnchorID)
	if slug == "" {
		slug = "section"
	}
	return fmt.Sprintf("%04d-%s.md", i, slug)
}

// FormatSection formats a section with YAML frontmatter.
func FormatSection(s *docqa.RawSection) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(s.SourceURL)
	b.WriteString("\nanchor: ")
	b.WriteString(s.AnchorID)
	b.WriteString("\nparent: ")
	b.WriteString(s.ParentID)
	b.WriteString("\n---\n\n")
	b.WriteString(s.Text)
	return b.String()
}

// SectionWriter dumps extracted sections as markdown files for inspection.
// Files are written to a temporary directory first and moved into place
// once every section is written.
type SectionWriter struct {
	baseDir string
	name    string
}

// NewSectionWriter creates a SectionWriter that writes to baseDir/name.
func NewSectionWriter(baseDir, name string) *SectionWriter {
	return &SectionWriter{baseDir: baseDir, name: name}
}

func (w *SectionWriter) tempDir() string {
	return filepath.Join(w.baseDir, w.name+".tmp")
}

// Dir returns the directory the sections end up in.
func (w *SectionWriter) Dir() string {
	return filepath.Join(w.baseDir, w.name)
}

// WriteSections replaces the output directory with one file per section.
func (w *SectionWriter) WriteSections(sections []*docqa.RawSection) error {
	tmp := w.tempDir()
	if err := os.RemoveAll(tmp); err != nil {
		return err
	}
	if err := os.MkdirAll(tmp, 0755); err != nil {
		return err
	}

	for i, s := range sections {
		path := filepath.Join(tmp, SectionPath(i, s))
		if err := os.WriteFile(path, []byte(FormatSection(s)), 0644); err != nil {
			_ = os.RemoveAll(tmp)
			return err
		}
	}

	if err := os.RemoveAll(w.Dir()); err != nil {
		_ = os.RemoveAll(tmp)
		return err
	}
	return os.Rename(tmp, w.Dir())
}
