package docqa

import (
	"context"
	"math"
)

// RetrievalResult is a retrieved chunk with its similarity to the query.
type RetrievalResult struct {
	Chunk *Chunk
	Score float32
}

// Retrieve searches the corpus for the k chunks nearest to the query vector.
// Hits without a stored chunk are dropped. Results keep the index order.
func Retrieve(ctx context.Context, corpus *Corpus, query []float32, k int) ([]RetrievalResult, error) {
	if k <= 0 {
		k = DefaultK
	}

	hits, err := corpus.Index.Search(query, k)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(hits))
	for _, h := range hits {
		if h.ID >= 0 {
			ids = append(ids, h.ID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	chunks, err := corpus.Chunks.FindChunksByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	results := make([]RetrievalResult, 0, len(hits))
	for _, h := range hits {
		c, ok := chunks[h.ID]
		if !ok {
			continue
		}
		results = append(results, RetrievalResult{Chunk: c, Score: h.Score})
	}
	return results, nil
}

// SectionGroup holds the retrieved chunks that share a parent section.
type SectionGroup struct {
	ParentID string
	Results  []RetrievalResult
}

// GroupByParent groups results by parent id, in order of first appearance.
// Results without a parent form a group of their own keyed by "".
func GroupByParent(results []RetrievalResult) []*SectionGroup {
	var groups []*SectionGroup
	index := make(map[string]*SectionGroup)
	for _, r := range results {
		g, ok := index[r.Chunk.ParentID]
		if !ok {
			g = &SectionGroup{ParentID: r.Chunk.ParentID}
			index[r.Chunk.ParentID] = g
			groups = append(groups, g)
		}
		g.Results = append(g.Results, r)
	}
	return groups
}

// SectionAggregate scores a parent section by its best-matching chunk.
type SectionAggregate struct {
	ParentID  string
	BestScore float32
	Results   []RetrievalResult
}

// BestChunk returns the highest scoring member. The first one wins ties.
func (a *SectionAggregate) BestChunk() RetrievalResult {
	best := a.Results[0]
	for _, r := range a.Results[1:] {
		if r.Score > best.Score {
			best = r
		}
	}
	return best
}

// AggregateSections groups results by parent id and scores every group by
// the maximum of its member scores. Results without a parent are left out:
// they can never be the best section.
func AggregateSections(results []RetrievalResult) []*SectionAggregate {
	var aggs []*SectionAggregate
	index := make(map[string]*SectionAggregate)
	for _, r := range results {
		parent := r.Chunk.ParentID
		if parent == "" {
			continue
		}
		a, ok := index[parent]
		if !ok {
			a = &SectionAggregate{ParentID: parent, BestScore: r.Score}
			index[parent] = a
			aggs = append(aggs, a)
		}
		a.Results = append(a.Results, r)
		if r.Score > a.BestScore {
			a.BestScore = r.Score
		}
	}
	return aggs
}

// BestSection returns the aggregate with the highest score, or nil if there
// are none. The first one wins ties.
func BestSection(aggs []*SectionAggregate) *SectionAggregate {
	var best *SectionAggregate
	for _, a := range aggs {
		if best == nil || a.BestScore > best.BestScore {
			best = a
		}
	}
	return best
}

// RoundScore rounds a similarity score to 4 decimal digits.
func RoundScore(score float32) float64 {
	return math.Round(float64(score)*1e4) / 1e4
}
