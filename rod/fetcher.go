package rod

import (
	"context"
	"time"

	"github.com/fwojciec/docqa"
	"github.com/go-rod/rod"
)

// DefaultNavigationTimeout bounds page navigation and loading.
const DefaultNavigationTimeout = 60 * time.Second

// networkIdle is how long the network must be quiet before a page counts as loaded.
const networkIdle = 500 * time.Millisecond

// Ensure Fetcher implements docqa.Fetcher at compile time.
var _ docqa.Fetcher = (*Fetcher)(nil)

// Fetcher returns the HTML of a page after Chrome has rendered it.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout bounds navigation and loading.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// NewFetcher creates a Fetcher that opens pages through manager. Closing
// the Fetcher closes nothing; the manager's owner closes Chrome.
func NewFetcher(manager *BrowserManager, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{manager: manager, timeout: DefaultNavigationTimeout}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch navigates to url, waits for the network to go idle and returns the
// rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page, err := f.manager.NewPage()
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := load(page, url, f.timeout); err != nil {
		return "", err
	}
	return page.HTML()
}

// Close is a no-op. The BrowserManager owns the browser.
func (f *Fetcher) Close() error {
	return nil
}

// load navigates page to url and waits for load and network idle, all
// within timeout.
func load(page *rod.Page, url string, timeout time.Duration) error {
	nav := page.Timeout(timeout)
	defer nav.CancelTimeout()

	idle := nav.WaitRequestIdle(networkIdle, nil, nil, nil)
	if err := nav.Navigate(url); err != nil {
		return err
	}
	if err := nav.WaitLoad(); err != nil {
		return err
	}
	idle()
	return nil
}
