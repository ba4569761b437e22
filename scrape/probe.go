package scrape

import (
	"context"

	"github.com/fwojciec/docqa"
)

// ChooseFetcher decides whether a page needs a browser to render. It fetches
// url over plain HTTP and with the browser and returns the browser fetcher
// only if rendering adds meaningful content. If the HTTP fetch fails the
// browser is used; if the browser fetch fails HTTP is used.
func ChooseFetcher(ctx context.Context, url string, httpFetcher, browserFetcher docqa.Fetcher, extractor docqa.Extractor) docqa.Fetcher {
	httpHTML, err := httpFetcher.Fetch(ctx, url)
	if err != nil {
		return browserFetcher
	}

	browserHTML, err := browserFetcher.Fetch(ctx, url)
	if err != nil {
		return httpFetcher
	}

	if ContentDiffers(httpHTML, browserHTML, extractor) {
		return browserFetcher
	}
	return httpFetcher
}

// ContentDiffers reports whether the rendered page has significantly more
// main content (over 50% longer) than the static one. Extraction errors
// count as differing.
func ContentDiffers(staticHTML, renderedHTML string, extractor docqa.Extractor) bool {
	static, err := extractor.Extract(staticHTML)
	if err != nil {
		return true
	}

	rendered, err := extractor.Extract(renderedHTML)
	if err != nil {
		return true
	}

	staticLen := len(static.ContentHTML)
	renderedLen := len(rendered.ContentHTML)

	if staticLen == 0 && renderedLen > 0 {
		return true
	}

	return float64(renderedLen) > float64(staticLen)*1.5
}
