// Package goquery reads documentation sections from static HTML.
package goquery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docqa"
)

// Ensure SectionExtractor implements docqa.SectionExtractor at compile time.
var _ docqa.SectionExtractor = (*SectionExtractor)(nil)

// SectionExtractor extracts sections from pages that are fully rendered
// on the server. It is the cheap alternative to the browser extractor.
type SectionExtractor struct {
	fetcher   docqa.Fetcher
	converter docqa.Converter
	selector  docqa.SectionSelector
}

// Option configures a SectionExtractor.
type Option func(*SectionExtractor)

// WithSelector overrides the section and content selectors.
func WithSelector(sel docqa.SectionSelector) Option {
	return func(e *SectionExtractor) {
		if sel.Section != "" {
			e.selector.Section = sel.Section
		}
		if sel.Content != "" {
			e.selector.Content = sel.Content
		}
	}
}

// WithConverter renders section content as Markdown instead of plain text.
func WithConverter(c docqa.Converter) Option {
	return func(e *SectionExtractor) {
		e.converter = c
	}
}

// NewSectionExtractor creates a SectionExtractor that loads pages with fetcher.
func NewSectionExtractor(fetcher docqa.Fetcher, opts ...Option) *SectionExtractor {
	e := &SectionExtractor{
		fetcher:  fetcher,
		selector: docqa.DefaultSelector(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractSections fetches url and parses its sections.
func (e *SectionExtractor) ExtractSections(ctx context.Context, url string) ([]*docqa.RawSection, error) {
	html, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return ParseSections(html, url, e.selector, e.converter)
}

// ParseSections returns the sections of html matched by sel, in document
// order. Elements without an id are ignored, as are sections whose content
// is empty. The parent id is the id of the immediate parent element.
func ParseSections(html, url string, sel docqa.SectionSelector, conv docqa.Converter) ([]*docqa.RawSection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docqa.Errorf(docqa.EINVALID, "failed to parse HTML: %v", err)
	}

	var sections []*docqa.RawSection
	doc.Find(sel.Section).Each(func(_ int, s *goquery.Selection) {
		id, ok := s.Attr("id")
		if !ok || id == "" {
			return
		}

		content := s.Find(sel.Content).First()
		if content.Length() == 0 {
			return
		}

		text := contentText(content, conv)
		if text == "" {
			return
		}

		parentID, _ := s.Parent().Attr("id")
		sections = append(sections, &docqa.RawSection{
			AnchorID:  id,
			ParentID:  parentID,
			Text:      text,
			SourceURL: url,
		})
	})

	return sections, nil
}

// contentText renders content as Markdown, or as plain text when there is
// no converter or conversion fails.
func contentText(content *goquery.Selection, conv docqa.Converter) string {
	text := strings.TrimSpace(content.Text())
	if conv == nil || text == "" {
		return text
	}

	html, err := goquery.OuterHtml(content)
	if err != nil {
		return text
	}
	md, err := conv.Convert(html)
	if err != nil || strings.TrimSpace(md) == "" {
		return text
	}
	return strings.TrimSpace(md)
}
