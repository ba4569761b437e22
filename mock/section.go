package mock

import (
	"context"

	"github.com/fwojciec/docqa"
)

var _ docqa.SectionExtractor = (*SectionExtractor)(nil)

// SectionExtractor is a mock implementation of docqa.SectionExtractor.
type SectionExtractor struct {
	ExtractSectionsFn func(ctx context.Context, url string) ([]*docqa.RawSection, error)
}

func (e *SectionExtractor) ExtractSections(ctx context.Context, url string) ([]*docqa.RawSection, error) {
	return e.ExtractSectionsFn(ctx, url)
}
