package mock

import "github.com/fwojciec/docqa"

var _ docqa.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docqa.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docqa.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*docqa.ExtractResult, error) {
	return e.ExtractFn(html)
}
