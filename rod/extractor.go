package rod

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/docqa"
	"github.com/go-rod/rod"
)

// DefaultScrollDelay is the pause after scrolling a section into view so
// that lazily rendered content can appear.
const DefaultScrollDelay = 500 * time.Millisecond

const listSectionsJS = `(selector) => Array.from(document.querySelectorAll(selector))
	.map(el => ({ id: el.id, parentId: el.parentElement ? el.parentElement.id : "" }))
	.filter(s => s.id)`

const scrollJS = `(id) => {
	const el = document.getElementById(id);
	if (el) el.scrollIntoView({ block: "start" });
}`

const contentJS = `(id, selector) => {
	const section = document.getElementById(id);
	if (!section) return "";
	const content = section.querySelector(selector);
	return content ? content.innerText.trim() : "";
}`

// sectionRef is an anchored section found on the page.
type sectionRef struct {
	ID       string `json:"id"`
	ParentID string `json:"parentId"`
}

// Ensure SectionExtractor implements docqa.SectionExtractor at compile time.
var _ docqa.SectionExtractor = (*SectionExtractor)(nil)

// SectionExtractor reads anchored sections from a single-page documentation
// site. Each section is scrolled into view before its text is read, since
// such sites render content on scroll.
type SectionExtractor struct {
	manager     *BrowserManager
	selector    docqa.SectionSelector
	scrollDelay time.Duration
	timeout     time.Duration
}

// ExtractorOption configures a SectionExtractor.
type ExtractorOption func(*SectionExtractor)

// WithSelector overrides the section and content selectors.
func WithSelector(sel docqa.SectionSelector) ExtractorOption {
	return func(e *SectionExtractor) {
		if sel.Section != "" {
			e.selector.Section = sel.Section
		}
		if sel.Content != "" {
			e.selector.Content = sel.Content
		}
	}
}

// WithScrollDelay sets the pause after each scroll.
func WithScrollDelay(d time.Duration) ExtractorOption {
	return func(e *SectionExtractor) {
		e.scrollDelay = d
	}
}

// WithNavigationTimeout bounds loading the page.
func WithNavigationTimeout(d time.Duration) ExtractorOption {
	return func(e *SectionExtractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewSectionExtractor creates a SectionExtractor that opens pages through manager.
func NewSectionExtractor(manager *BrowserManager, opts ...ExtractorOption) *SectionExtractor {
	e := &SectionExtractor{
		manager:     manager,
		selector:    docqa.DefaultSelector(),
		scrollDelay: DefaultScrollDelay,
		timeout:     DefaultNavigationTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractSections returns the sections of the page at url in document
// order. Sections whose content is empty are skipped.
func (e *SectionExtractor) ExtractSections(ctx context.Context, url string) ([]*docqa.RawSection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := e.manager.NewPage()
	if err != nil {
		return nil, err
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := load(page, url, e.timeout); err != nil {
		return nil, err
	}

	refs, err := listSections(page, e.selector.Section)
	if err != nil {
		return nil, err
	}

	var sections []*docqa.RawSection
	for _, ref := range refs {
		if _, err := page.Eval(scrollJS, ref.ID); err != nil {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(e.scrollDelay):
		}

		text, err := sectionText(page, ref.ID, e.selector.Content)
		if err != nil {
			return nil, err
		}
		if text == "" {
			continue
		}

		sections = append(sections, &docqa.RawSection{
			AnchorID:  ref.ID,
			ParentID:  ref.ParentID,
			Text:      text,
			SourceURL: url,
		})
	}

	return sections, nil
}

func listSections(page *rod.Page, selector string) ([]sectionRef, error) {
	res, err := page.Eval(listSectionsJS, selector)
	if err != nil {
		return nil, err
	}
	var refs []sectionRef
	if err := res.Value.Unmarshal(&refs); err != nil {
		return nil, err
	}
	return refs, nil
}

func sectionText(page *rod.Page, id, selector string) (string, error) {
	res, err := page.Eval(contentJS, id, selector)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Value.Str()), nil
}
