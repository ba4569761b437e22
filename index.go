package docqa

// DefaultK is the number of nearest neighbors retrieved per query.
const DefaultK = 20

// Hit is a single nearest-neighbor match.
type Hit struct {
	ID    int
	Score float32
}

// VectorIndex supports nearest-neighbor search over unit vectors by inner product.
type VectorIndex interface {
	// Search returns up to k hits ordered by descending score. Ties keep a
	// deterministic order for a fixed index.
	Search(query []float32, k int) ([]Hit, error)

	// IDs returns the ids stored in the index, in insertion order.
	IDs() []int

	// Len returns the number of stored vectors.
	Len() int
}
