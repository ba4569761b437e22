package docqa

// ExtractResult holds the main content of a page.
type ExtractResult struct {
	// Title is the page title from metadata.
	Title string

	// ContentHTML is the main content with boilerplate removed.
	ContentHTML string
}

// Extractor extracts the main content from a whole page. It is used when a
// page has no recognizable sections.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
