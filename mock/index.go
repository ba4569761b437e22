package mock

import "github.com/fwojciec/docqa"

var _ docqa.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a mock implementation of docqa.VectorIndex.
type VectorIndex struct {
	SearchFn func(query []float32, k int) ([]docqa.Hit, error)
	IDsFn    func() []int
	LenFn    func() int
}

func (v *VectorIndex) Search(query []float32, k int) ([]docqa.Hit, error) {
	return v.SearchFn(query, k)
}

func (v *VectorIndex) IDs() []int {
	return v.IDsFn()
}

func (v *VectorIndex) Len() int {
	return v.LenFn()
}
