package docqa

import (
	"context"
	"strings"
	"unicode"
)

// Default selectors for scroll-spy style API documentation pages.
const (
	DefaultSectionSelector = "div.scroll-spy"
	DefaultContentSelector = ".api-content-main"
)

// RawSection is one addressable section of a scraped documentation page.
type RawSection struct {
	// AnchorID is the element id of the section. Unique per ingestion run.
	AnchorID string `json:"anchorId"`

	// ParentID is the id of the enclosing element, if any. Sections that
	// share a parent form one logical document section at query time.
	ParentID string `json:"parentId,omitempty"`

	Text      string `json:"text"`
	SourceURL string `json:"sourceUrl"`
}

// Validate returns an error if the section contains invalid fields.
func (s *RawSection) Validate() error {
	if s.AnchorID == "" {
		return Errorf(EINVALID, "section anchor ID required")
	}
	if strings.TrimSpace(s.Text) == "" {
		return Errorf(EINVALID, "section %q has no text", s.AnchorID)
	}
	return nil
}

// HasCode reports whether the section text contains a fenced code block marker.
func (s *RawSection) HasCode() bool {
	return strings.Contains(s.Text, "```")
}

// SectionSelector locates sections within a rendered page.
type SectionSelector struct {
	// Section matches the section elements. Only elements with an id are used.
	Section string

	// Content matches the element holding the section text, searched
	// within each section element.
	Content string
}

// DefaultSelector returns the selector used by scroll-spy documentation sites.
func DefaultSelector() SectionSelector {
	return SectionSelector{
		Section: DefaultSectionSelector,
		Content: DefaultContentSelector,
	}
}

// SectionExtractor crawls a documentation page and returns its sections in
// document order. Implementations skip sections whose text is empty.
// Removing repeated content is left to the scrape package.
type SectionExtractor interface {
	ExtractSections(ctx context.Context, url string) ([]*RawSection, error)
}

// Slugify creates a URL-safe anchor from a title.
// Converts to lowercase, replaces spaces with hyphens, removes special chars.
func Slugify(title string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevHyphen = false
		} else if unicode.IsSpace(r) || r == '-' {
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}
