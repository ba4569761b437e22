package docqa

import (
	"context"
	"math"
	"strings"
)

// Embedder maps text to unit-length vectors. The same encoder embeds both
// chunks at ingestion and raw queries at question time.
type Embedder interface {
	// Embed returns the unit vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one unit vector per text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingText returns the text embedded for a chunk at ingestion: the
// chunk text prefixed with its parent section and subsection names.
func EmbeddingText(c *Chunk) string {
	parts := make([]string, 0, 3)
	if c.ParentID != "" {
		parts = append(parts, "Document section: "+c.ParentID)
	}
	if c.AnchorID != "" {
		parts = append(parts, "Subsection: "+c.AnchorID)
	}
	parts = append(parts, c.Text)
	return strings.Join(parts, "\n")
}

// Normalize scales v in place to unit length. Zero vectors are left unchanged.
func Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}
