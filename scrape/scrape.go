// Package scrape turns a documentation page into clean, unique sections.
package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docqa"
)

// Ensure Extractor implements docqa.SectionExtractor at compile time.
var _ docqa.SectionExtractor = (*Extractor)(nil)

// Extractor decorates a SectionExtractor. It retries failed extractions,
// drops blank sections and keeps the first of any sections with identical
// text. When no section survives and a fallback is configured, the main
// content of the page becomes a single section.
type Extractor struct {
	next docqa.SectionExtractor

	// RetryDelays are the backoff delays between attempts.
	// Defaults to docqa.DefaultRetryDelays.
	RetryDelays []time.Duration

	// OnRetry is called before each retry.
	OnRetry docqa.RetryFunc

	// Fallback extracts the whole page when it has no sections. Optional.
	Fallback *Fallback
}

// Fallback extracts the main content of a page with no anchored sections.
type Fallback struct {
	Fetcher   docqa.Fetcher
	Extractor docqa.Extractor
	Converter docqa.Converter
}

// NewExtractor wraps next.
func NewExtractor(next docqa.SectionExtractor) *Extractor {
	return &Extractor{next: next}
}

// ExtractSections extracts the sections of the page at url.
func (e *Extractor) ExtractSections(ctx context.Context, url string) ([]*docqa.RawSection, error) {
	delays := e.RetryDelays
	if delays == nil {
		delays = docqa.DefaultRetryDelays()
	}

	var raw []*docqa.RawSection
	err := docqa.Retry(ctx, delays, e.OnRetry, func(ctx context.Context) error {
		var err error
		raw, err = e.next.ExtractSections(ctx, url)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("extract sections from %s: %w", url, err)
	}

	sections := Dedupe(raw)
	if len(sections) > 0 || e.Fallback == nil {
		return sections, nil
	}

	section, err := e.Fallback.extract(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("extract page content from %s: %w", url, err)
	}
	if section == nil {
		return nil, nil
	}
	return []*docqa.RawSection{section}, nil
}

// Dedupe returns sections with blank text removed and, among sections with
// identical text, only the first. Order is preserved.
func Dedupe(sections []*docqa.RawSection) []*docqa.RawSection {
	seen := make(map[uint64]struct{}, len(sections))
	out := make([]*docqa.RawSection, 0, len(sections))
	for _, s := range sections {
		if s == nil || strings.TrimSpace(s.Text) == "" {
			continue
		}
		h := xxhash.Sum64String(s.Text)
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, s)
	}
	return out
}

// extract returns the main content of the page as one section anchored at
// the slug of its title, or nil when the page has no content.
func (f *Fallback) extract(ctx context.Context, url string) (*docqa.RawSection, error) {
	html, err := f.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	result, err := f.Extractor.Extract(html)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.ContentHTML) == "" {
		return nil, nil
	}

	text, err := f.Converter.Convert(result.ContentHTML)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	anchor := docqa.Slugify(result.Title)
	if anchor == "" {
		anchor = "page"
	}

	return &docqa.RawSection{
		AnchorID:  anchor,
		ParentID:  anchor,
		Text:      text,
		SourceURL: url,
	}, nil
}
