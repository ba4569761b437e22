// Package vector implements an exact inner-product index over unit vectors.
package vector

import (
	"encoding/gob"
	"fmt"
	"io"
	"slices"

	"github.com/fwojciec/docqa"
)

// Ensure FlatIndex implements docqa.VectorIndex.
var _ docqa.VectorIndex = (*FlatIndex)(nil)

// FlatIndex scores every stored vector against the query. Vectors are
// expected to be unit length, so the inner product is cosine similarity.
type FlatIndex struct {
	dim     int
	ids     []int
	vectors [][]float32
}

// Build creates an index from ids and their vectors; vectors[i] belongs to ids[i].
func Build(ids []int, vectors [][]float32) (*FlatIndex, error) {
	if len(ids) != len(vectors) {
		return nil, docqa.Errorf(docqa.EINVALID, "%d ids for %d vectors", len(ids), len(vectors))
	}

	idx := &FlatIndex{
		ids:     make([]int, 0, len(ids)),
		vectors: make([][]float32, 0, len(vectors)),
	}
	seen := make(map[int]struct{}, len(ids))
	for i, id := range ids {
		if id < 0 {
			return nil, docqa.Errorf(docqa.EINVALID, "negative vector id %d", id)
		}
		if _, ok := seen[id]; ok {
			return nil, docqa.Errorf(docqa.EINVALID, "duplicate vector id %d", id)
		}
		seen[id] = struct{}{}

		v := vectors[i]
		if len(v) == 0 {
			return nil, docqa.Errorf(docqa.EINVALID, "empty vector for id %d", id)
		}
		if idx.dim == 0 {
			idx.dim = len(v)
		} else if len(v) != idx.dim {
			return nil, docqa.Errorf(docqa.EINVALID, "vector %d has dimension %d, want %d", id, len(v), idx.dim)
		}

		idx.ids = append(idx.ids, id)
		idx.vectors = append(idx.vectors, slices.Clone(v))
	}
	return idx, nil
}

// Dim returns the vector dimension, or 0 for an empty index.
func (x *FlatIndex) Dim() int {
	return x.dim
}

// Len returns the number of stored vectors.
func (x *FlatIndex) Len() int {
	return len(x.ids)
}

// IDs returns a copy of the stored ids in insertion order.
func (x *FlatIndex) IDs() []int {
	return slices.Clone(x.ids)
}

// Search returns the k ids with the highest inner product against query.
// Equal scores keep insertion order. k <= 0 means docqa.DefaultK.
func (x *FlatIndex) Search(query []float32, k int) ([]docqa.Hit, error) {
	if k <= 0 {
		k = docqa.DefaultK
	}
	if len(x.ids) == 0 {
		return nil, nil
	}
	if len(query) != x.dim {
		return nil, docqa.Errorf(docqa.EINVALID, "query has dimension %d, index has %d", len(query), x.dim)
	}

	hits := make([]docqa.Hit, len(x.ids))
	for i, v := range x.vectors {
		hits[i] = docqa.Hit{ID: x.ids[i], Score: dot(query, v)}
	}

	slices.SortStableFunc(hits, func(a, b docqa.Hit) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// snapshot is the gob-encoded form of a FlatIndex.
type snapshot struct {
	Dim     int
	IDs     []int
	Vectors [][]float32
}

// Encode writes the index to w in gob format.
func (x *FlatIndex) Encode(w io.Writer) error {
	s := snapshot{Dim: x.dim, IDs: x.ids, Vectors: x.vectors}
	if err := gob.NewEncoder(w).Encode(&s); err != nil {
		return fmt.Errorf("encode vector index: %w", err)
	}
	return nil
}

// Decode reads an index written by Encode. The decoded index is validated
// the same way Build validates its input.
func Decode(r io.Reader) (*FlatIndex, error) {
	var s snapshot
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode vector index: %w", err)
	}
	idx, err := Build(s.IDs, s.Vectors)
	if err != nil {
		return nil, err
	}
	if idx.Len() > 0 && idx.dim != s.Dim {
		return nil, docqa.Errorf(docqa.EINVALID, "vector index dimension %d does not match header %d", idx.dim, s.Dim)
	}
	return idx, nil
}
