package docqa

import "context"

// Fetcher retrieves the HTML of a documentation page.
// Implementations may render the page in a browser first.
type Fetcher interface {
	// Fetch returns the HTML of the page at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}
