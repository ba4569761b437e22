package docqa

import (
	"context"
	"fmt"
)

// Chunk is a bounded-size slice of a section's text, the unit that is
// embedded, indexed and stored. Chunks are immutable once created.
type Chunk struct {
	// ID is dense and zero-based. It equals ChunkIndex and is the id of
	// the chunk's vector in the index.
	ID int `json:"id"`

	// Text is prefixed with a "[Section: <anchor>]" header line.
	Text string `json:"text"`

	AnchorID  string `json:"anchorId"`
	ParentID  string `json:"parentId,omitempty"`
	SourceURL string `json:"sourceUrl"`

	// ContentLength is the character length of the whole source section,
	// not of the chunk.
	ContentLength int `json:"contentLength"`

	// HasCode is true if the source section contains fenced code.
	HasCode bool `json:"hasCode"`

	// ChunkIndex is the position in the global chunk sequence of an ingestion run.
	ChunkIndex int `json:"chunkIndex"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.ID < 0 {
		return Errorf(EINVALID, "chunk ID must not be negative")
	}
	if c.ID != c.ChunkIndex {
		return Errorf(EINVALID, "chunk ID %d does not match chunk index %d", c.ID, c.ChunkIndex)
	}
	if c.Text == "" {
		return Errorf(EINVALID, "chunk content required")
	}
	return nil
}

// SectionHeader returns the header line prepended to every chunk of a section.
func SectionHeader(anchorID string) string {
	return fmt.Sprintf("[Section: %s]", anchorID)
}

// ChunkService represents a service for managing chunks.
type ChunkService interface {
	// CreateChunks stores chunks in a single batch.
	CreateChunks(ctx context.Context, chunks []*Chunk) error

	// FindChunkByID retrieves a chunk by ID.
	// Returns ENOTFOUND if chunk does not exist.
	FindChunkByID(ctx context.Context, id int) (*Chunk, error)

	// FindChunksByIDs retrieves the chunks with the given IDs, keyed by ID.
	// Unknown IDs are absent from the result.
	FindChunksByIDs(ctx context.Context, ids []int) (map[int]*Chunk, error)

	// CountChunks returns the number of stored chunks.
	CountChunks(ctx context.Context) (int, error)
}
