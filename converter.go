package docqa

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment into Markdown. Code blocks
	// become fenced blocks so that HasCode can detect them.
	Convert(html string) (string, error)
}
