package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docqa"
	"github.com/fwojciec/docqa/fs"
	"github.com/fwojciec/docqa/gemini"
	docqagin "github.com/fwojciec/docqa/gin"
	"github.com/fwojciec/docqa/goquery"
	"github.com/fwojciec/docqa/htmltomarkdown"
	docqahttp "github.com/fwojciec/docqa/http"
	"github.com/fwojciec/docqa/lru"
	"github.com/fwojciec/docqa/openai"
	"github.com/fwojciec/docqa/rag"
	"github.com/fwojciec/docqa/readability"
	"github.com/fwojciec/docqa/rod"
	"github.com/fwojciec/docqa/scrape"
	docqaslog "github.com/fwojciec/docqa/slog"
	"github.com/fwojciec/docqa/trafilatura"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Query embedding cache settings.
const (
	queryCacheSize = 1024
	queryCacheTTL  = time.Hour
)

// tokenizerModel is used for counting tokens of ingested text.
const tokenizerModel = "gemini-2.5-flash"

// Main represents the program.
type Main struct {
	// Corpus is the persisted corpus. Set by Run.
	Corpus *fs.CorpusService

	// Browser is started for commands that render pages. Set by Run.
	Browser *rod.BrowserManager
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var err error
	if m.Browser != nil {
		err = m.Browser.Close()
	}
	if m.Corpus != nil {
		if cerr := m.Corpus.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docqa"),
		kong.Description("Answer questions about a documentation site"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"default_dir": defaultDir()},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docqa --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	command := strings.Fields(kongCtx.Command())[0]

	deps.Logger = slog.New(slog.DiscardHandler)
	if cli.Verbose {
		deps.Logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	// Credentials are checked before anything else is started.
	embedder, generator, err := newProvider(ctx, cli)
	if err != nil {
		return err
	}
	if cli.Verbose {
		embedder = docqaslog.NewLoggingEmbedder(embedder, deps.Logger)
		generator = docqaslog.NewLoggingGenerator(generator, deps.Logger)
	}

	m.Corpus = fs.NewCorpusService(cli.Dir)
	defer m.Close()

	var corpus docqa.CorpusService = m.Corpus
	if cli.Verbose {
		corpus = docqaslog.NewLoggingCorpusService(corpus, deps.Logger)
	}

	switch command {
	case "ingest":
		ingester, err := m.newIngester(ctx, cli.Ingest.ScrapeOptions, embedder, corpus, deps)
		if err != nil {
			return err
		}
		deps.Ingester = ingester

	case "ask":
		deps.Asker = newAsker(embedder, generator, corpus, cli.Ask.K, deps.Logger, cli.Verbose)

	case "serve":
		ingester, err := m.newIngester(ctx, cli.Serve.ScrapeOptions, embedder, corpus, deps)
		if err != nil {
			return err
		}
		server := docqagin.NewServer()
		server.Addr = cli.Serve.Addr
		server.SourceURL = cli.Serve.URL
		server.AllowedOrigins = cli.Serve.Origins
		server.Logger = deps.Logger
		server.Ingester = ingester
		server.Asker = newAsker(embedder, generator, corpus, cli.Serve.K, deps.Logger, cli.Verbose)
		deps.Server = server
	}

	return kongCtx.Run(deps)
}

// newProvider connects to the configured model provider. A missing
// credential is reported before any work starts.
func newProvider(ctx context.Context, cli *CLI) (docqa.Embedder, docqa.Generator, error) {
	switch cli.Provider {
	case "openai":
		if cli.OpenAIAPIKey == "" {
			return nil, nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		client, err := openai.NewClient(cli.OpenAIAPIKey, cli.OpenAIBaseURL)
		if err != nil {
			return nil, nil, err
		}
		embedder := openai.NewEmbedder(client, cli.EmbeddingModel, cli.Dimensions)
		generator := openai.NewGenerator(client, openai.Config{Model: cli.Model})
		return embedder, generator, nil

	default:
		if cli.GeminiAPIKey == "" {
			return nil, nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}
		client, err := gemini.NewClient(ctx, cli.GeminiAPIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		embedder := gemini.NewEmbedder(client,
			gemini.WithEmbeddingModel(cli.EmbeddingModel),
			gemini.WithDimensions(cli.Dimensions),
		)
		generator := gemini.NewGenerator(client, gemini.WithModel(cli.Model))
		return embedder, generator, nil
	}
}

func newAsker(embedder docqa.Embedder, generator docqa.Generator, corpus docqa.CorpusService, k int, logger *slog.Logger, verbose bool) docqa.Asker {
	asker := &rag.Asker{
		Embedder:  lru.NewEmbedder(embedder, queryCacheSize, queryCacheTTL),
		Corpus:    corpus,
		Generator: generator,
		K:         k,
	}
	if !verbose {
		return asker
	}
	asker.OnRetrieve = docqaslog.LogRetrieval(logger)
	return docqaslog.NewLoggingAsker(asker, logger)
}

// newIngester wires the scraping pipeline selected by opts.
func (m *Main) newIngester(ctx context.Context, opts ScrapeOptions, embedder docqa.Embedder, corpus docqa.CorpusService, deps *Dependencies) (*rag.Ingester, error) {
	extractor, err := m.newExtractor(ctx, opts, deps)
	if err != nil {
		return nil, err
	}

	batch := rag.NewBatchEmbedder(embedder)
	batch.Concurrency = opts.Concurrency
	if opts.RPS > 0 {
		batch.Limiter = rate.NewLimiter(rate.Limit(opts.RPS), 1)
	}
	batch.OnBatch = func(done, total int) {
		deps.Logger.Info("embedded", "done", done, "total", total)
	}

	ingester := &rag.Ingester{
		Extractor: extractor,
		Splitter: &docqa.Splitter{
			ChunkSize:    opts.ChunkSize,
			ChunkOverlap: opts.ChunkOverlap,
			Separators:   docqa.DefaultSeparators,
		},
		Embedder: batch,
		Corpus:   corpus,
	}

	if tc, err := gemini.NewTokenCounter(tokenizerModel); err == nil {
		ingester.TokenCounter = tc
	}
	if opts.DumpDir != "" {
		dir := filepath.Clean(opts.DumpDir)
		ingester.Dumper = fs.NewSectionWriter(filepath.Dir(dir), filepath.Base(dir))
	}
	return ingester, nil
}

// newExtractor builds the section extractor for the renderer in opts,
// wrapped with retries, deduplication and the whole-page fallback.
func (m *Main) newExtractor(ctx context.Context, opts ScrapeOptions, deps *Dependencies) (docqa.SectionExtractor, error) {
	selector := docqa.SectionSelector{Section: opts.SectionSelector, Content: opts.ContentSelector}
	converter := htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(opts.URL))

	var content docqa.Extractor = trafilatura.NewExtractor()
	if opts.Extractor == "readability" {
		content = readability.NewExtractor()
	}

	var httpFetcher docqa.Fetcher = docqahttp.NewFetcher()
	httpFetcher = docqaslog.NewLoggingFetcher(httpFetcher, deps.Logger)

	var extractor docqa.SectionExtractor
	switch opts.Renderer {
	case "static":
		extractor = goquery.NewSectionExtractor(httpFetcher,
			goquery.WithSelector(selector),
			goquery.WithConverter(converter),
		)

	case "auto":
		if err := m.startBrowser(deps); err != nil {
			return nil, err
		}
		var browserFetcher docqa.Fetcher = rod.NewFetcher(m.Browser, rod.WithFetchTimeout(opts.Timeout))
		browserFetcher = docqaslog.NewLoggingFetcher(browserFetcher, deps.Logger)
		fetcher := scrape.ChooseFetcher(ctx, opts.URL, httpFetcher, browserFetcher, content)
		extractor = goquery.NewSectionExtractor(fetcher,
			goquery.WithSelector(selector),
			goquery.WithConverter(converter),
		)

	default:
		if err := m.startBrowser(deps); err != nil {
			return nil, err
		}
		extractor = rod.NewSectionExtractor(m.Browser,
			rod.WithSelector(selector),
			rod.WithScrollDelay(opts.ScrollDelay),
			rod.WithNavigationTimeout(opts.Timeout),
		)
	}

	extractor = docqaslog.NewLoggingSectionExtractor(extractor, deps.Logger)

	deduped := scrape.NewExtractor(extractor)
	deduped.OnRetry = func(attempt int, err error) {
		fmt.Fprintf(deps.Stderr, "retrying extraction (attempt %d): %v\n", attempt, err)
	}
	deduped.Fallback = &scrape.Fallback{
		Fetcher:   httpFetcher,
		Extractor: content,
		Converter: converter,
	}
	return deduped, nil
}

func (m *Main) startBrowser(deps *Dependencies) error {
	if m.Browser != nil {
		return nil
	}
	browser, err := rod.NewBrowserManager()
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed, or use --renderer=static")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	m.Browser = browser
	return nil
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docqa"
	}
	return filepath.Join(home, ".docqa")
}
