// Package rag wires extraction, embedding, retrieval and generation into
// the ingestion and question answering pipelines.
package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/docqa"
)

// SectionDumper saves extracted sections for inspection.
type SectionDumper interface {
	WriteSections(sections []*docqa.RawSection) error
}

// Ensure Ingester implements docqa.Ingester at compile time.
var _ docqa.Ingester = (*Ingester)(nil)

// Ingester builds a new corpus from a documentation page.
type Ingester struct {
	Extractor docqa.SectionExtractor
	Splitter  *docqa.Splitter
	Embedder  docqa.Embedder
	Corpus    docqa.CorpusService

	// TokenCounter, if set, counts the tokens of the extracted text.
	TokenCounter docqa.TokenCounter

	// Dumper, if set, receives the extracted sections.
	Dumper SectionDumper
}

// Ingest extracts the sections of the page at url, chunks and embeds them,
// and replaces the corpus. Any error leaves the previous corpus in place.
func (i *Ingester) Ingest(ctx context.Context, url string) (*docqa.IngestResult, error) {
	start := time.Now()

	url = strings.TrimSpace(url)
	if url == "" {
		return nil, docqa.Errorf(docqa.EINVALID, "source URL required")
	}

	splitter := i.Splitter
	if splitter == nil {
		splitter = docqa.NewSplitter()
	}
	if err := splitter.Validate(); err != nil {
		return nil, err
	}

	sections, err := i.Extractor.ExtractSections(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, docqa.Errorf(docqa.EINVALID, "no sections found at %s", url)
	}

	if i.Dumper != nil {
		if err := i.Dumper.WriteSections(sections); err != nil {
			return nil, fmt.Errorf("dump sections: %w", err)
		}
	}

	chunks := splitter.SplitSections(sections)
	if len(chunks) == 0 {
		return nil, docqa.Errorf(docqa.EINVALID, "no text to index at %s", url)
	}

	texts := make([]string, len(chunks))
	for j, c := range chunks {
		texts[j] = docqa.EmbeddingText(c)
	}

	vectors, err := i.Embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}

	if err := i.Corpus.Replace(ctx, chunks, vectors); err != nil {
		return nil, fmt.Errorf("replace corpus: %w", err)
	}

	var tokens int
	if i.TokenCounter != nil {
		for _, s := range sections {
			if n, err := i.TokenCounter.CountTokens(ctx, s.Text); err == nil {
				tokens += n
			}
		}
	}

	return &docqa.IngestResult{
		Sections: len(sections),
		Chunks:   len(chunks),
		Tokens:   tokens,
		Duration: time.Since(start),
	}, nil
}
