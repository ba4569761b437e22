package scrape_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/docqa"
	"github.com/fwojciec/docqa/mock"
	"github.com/fwojciec/docqa/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func section(anchor, parent, text string) *docqa.RawSection {
	return &docqa.RawSection{AnchorID: anchor, ParentID: parent, Text: text, SourceURL: "https://docs.example.com"}
}

func staticExtractor(sections ...*docqa.RawSection) *mock.SectionExtractor {
	return &mock.SectionExtractor{
		ExtractSectionsFn: func(context.Context, string) ([]*docqa.RawSection, error) {
			return sections, nil
		},
	}
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	t.Run("keeps first occurrence of repeated text", func(t *testing.T) {
		t.Parallel()

		got := scrape.Dedupe([]*docqa.RawSection{
			section("a", "p", "same"),
			section("b", "p", "other"),
			section("c", "q", "same"),
		})

		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].AnchorID)
		assert.Equal(t, "b", got[1].AnchorID)
	})

	t.Run("drops blank and nil sections", func(t *testing.T) {
		t.Parallel()

		got := scrape.Dedupe([]*docqa.RawSection{
			section("a", "p", " \n\t"),
			nil,
			section("b", "p", "text"),
		})

		require.Len(t, got, 1)
		assert.Equal(t, "b", got[0].AnchorID)
	})

	t.Run("treats whitespace differences as distinct text", func(t *testing.T) {
		t.Parallel()

		got := scrape.Dedupe([]*docqa.RawSection{
			section("a", "p", "text"),
			section("b", "p", "text "),
		})

		assert.Len(t, got, 2)
	})
}

func TestExtractor_ExtractSections(t *testing.T) {
	t.Parallel()

	t.Run("returns deduplicated sections", func(t *testing.T) {
		t.Parallel()

		e := scrape.NewExtractor(staticExtractor(
			section("a", "p", "one"),
			section("b", "p", "one"),
			section("c", "p", "two"),
		))

		got, err := e.ExtractSections(context.Background(), "https://docs.example.com")

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].AnchorID)
		assert.Equal(t, "c", got[1].AnchorID)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		next := &mock.SectionExtractor{
			ExtractSectionsFn: func(context.Context, string) ([]*docqa.RawSection, error) {
				calls++
				if calls < 3 {
					return nil, errors.New("navigation timeout")
				}
				return []*docqa.RawSection{section("a", "p", "text")}, nil
			},
		}
		var retried []int

		e := scrape.NewExtractor(next)
		e.RetryDelays = []time.Duration{time.Millisecond, time.Millisecond}
		e.OnRetry = func(attempt int, _ error) { retried = append(retried, attempt) }

		got, err := e.ExtractSections(context.Background(), "u")

		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{2, 3}, retried)
	})

	t.Run("wraps error after retries are exhausted", func(t *testing.T) {
		t.Parallel()

		next := &mock.SectionExtractor{
			ExtractSectionsFn: func(context.Context, string) ([]*docqa.RawSection, error) {
				return nil, errors.New("browser crashed")
			},
		}

		e := scrape.NewExtractor(next)
		e.RetryDelays = []time.Duration{time.Millisecond}

		_, err := e.ExtractSections(context.Background(), "https://docs.example.com")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "https://docs.example.com")
		assert.Contains(t, err.Error(), "browser crashed")
	})

	t.Run("returns empty result without fallback", func(t *testing.T) {
		t.Parallel()

		e := scrape.NewExtractor(staticExtractor(section("a", "p", "  ")))

		got, err := e.ExtractSections(context.Background(), "u")

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("falls back to main page content when no sections survive", func(t *testing.T) {
		t.Parallel()

		e := scrape.NewExtractor(staticExtractor())
		e.Fallback = &scrape.Fallback{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					return "<html>" + url + "</html>", nil
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(html string) (*docqa.ExtractResult, error) {
					return &docqa.ExtractResult{Title: "Getting Started", ContentHTML: "<p>Hello</p>"}, nil
				},
			},
			Converter: &mock.Converter{
				ConvertFn: func(html string) (string, error) {
					return strings.TrimSuffix(strings.TrimPrefix(html, "<p>"), "</p>") + "\n", nil
				},
			},
		}

		got, err := e.ExtractSections(context.Background(), "https://docs.example.com/start")

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "getting-started", got[0].AnchorID)
		assert.Equal(t, "getting-started", got[0].ParentID)
		assert.Equal(t, "Hello", got[0].Text)
		assert.Equal(t, "https://docs.example.com/start", got[0].SourceURL)
	})

	t.Run("fallback anchors untitled pages at page", func(t *testing.T) {
		t.Parallel()

		e := scrape.NewExtractor(staticExtractor())
		e.Fallback = &scrape.Fallback{
			Fetcher: &mock.Fetcher{FetchFn: func(context.Context, string) (string, error) { return "<html></html>", nil }},
			Extractor: &mock.Extractor{ExtractFn: func(string) (*docqa.ExtractResult, error) {
				return &docqa.ExtractResult{ContentHTML: "<p>x</p>"}, nil
			}},
			Converter: &mock.Converter{ConvertFn: func(string) (string, error) { return "x", nil }},
		}

		got, err := e.ExtractSections(context.Background(), "u")

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "page", got[0].AnchorID)
	})

	t.Run("fallback with empty content returns no sections", func(t *testing.T) {
		t.Parallel()

		e := scrape.NewExtractor(staticExtractor())
		e.Fallback = &scrape.Fallback{
			Fetcher: &mock.Fetcher{FetchFn: func(context.Context, string) (string, error) { return "<html></html>", nil }},
			Extractor: &mock.Extractor{ExtractFn: func(string) (*docqa.ExtractResult, error) {
				return &docqa.ExtractResult{Title: "Empty"}, nil
			}},
			Converter: &mock.Converter{ConvertFn: func(string) (string, error) {
				t.Fatal("converter should not be called")
				return "", nil
			}},
		}

		got, err := e.ExtractSections(context.Background(), "u")

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("returns fallback fetch error", func(t *testing.T) {
		t.Parallel()

		e := scrape.NewExtractor(staticExtractor())
		e.Fallback = &scrape.Fallback{
			Fetcher: &mock.Fetcher{FetchFn: func(context.Context, string) (string, error) {
				return "", docqa.Errorf(docqa.ENOTFOUND, "HTTP 404 for u")
			}},
		}

		_, err := e.ExtractSections(context.Background(), "u")

		assert.Equal(t, docqa.ENOTFOUND, docqa.ErrorCode(err))
	})
}
