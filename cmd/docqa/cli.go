package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/docqa"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Ingester docqa.Ingester
	Asker    docqa.Asker

	// Server is run by the serve command.
	Server Server
}

// Server is the HTTP server run by the serve command.
type Server interface {
	Open() error
	Close() error
	URL() string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Dir      string `help:"Directory holding the corpus" env:"DOCQA_DIR" default:"${default_dir}"`
	Provider string `help:"Model provider" enum:"gemini,openai" default:"gemini" env:"DOCQA_PROVIDER"`
	Verbose  bool   `short:"v" help:"Log pipeline steps to stderr"`

	GeminiAPIKey  string `name:"gemini-api-key" help:"Gemini API key" env:"GEMINI_API_KEY,GOOGLE_API_KEY"`
	OpenAIAPIKey  string `name:"openai-api-key" help:"OpenAI API key" env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `name:"openai-base-url" help:"OpenAI-compatible API base URL" env:"OPENAI_BASE_URL"`

	Model          string `help:"Generation model (provider default if empty)" env:"DOCQA_MODEL"`
	EmbeddingModel string `help:"Embedding model (provider default if empty)" env:"DOCQA_EMBEDDING_MODEL"`
	Dimensions     int    `help:"Embedding dimensions (model default if 0)" env:"DOCQA_DIMENSIONS"`

	Ingest IngestCmd `cmd:"" help:"Scrape a documentation page and rebuild the corpus"`
	Ask    AskCmd    `cmd:"" help:"Ask a question about the ingested documentation"`
	Serve  ServeCmd  `cmd:"" help:"Serve the ingestion and question endpoints over HTTP"`
}

// ScrapeOptions configure how pages are scraped and chunked.
type ScrapeOptions struct {
	URL             string        `name:"url" help:"Documentation page to ingest" env:"DOCQA_URL" default:"https://api.freshservice.com/"`
	Renderer        string        `help:"How pages are loaded: browser scrolls each section into view, static parses the served HTML, auto picks per page" enum:"browser,static,auto" default:"browser" env:"DOCQA_RENDERER"`
	SectionSelector string        `help:"CSS selector of section elements" default:"div.scroll-spy"`
	ContentSelector string        `help:"CSS selector of the content inside a section" default:".api-content-main"`
	ScrollDelay     time.Duration `help:"Pause after scrolling a section into view" default:"500ms"`
	Timeout         time.Duration `help:"Page navigation timeout" default:"60s"`
	Extractor       string        `help:"Main-content extractor used for pages without sections" enum:"trafilatura,readability" default:"trafilatura"`
	ChunkSize       int           `help:"Chunk size in characters" default:"500"`
	ChunkOverlap    int           `help:"Overlap between chunks in characters" default:"120"`
	Concurrency     int           `help:"Concurrent embedding requests" default:"4"`
	RPS             float64       `name:"rps" help:"Embedding requests per second (0 for unlimited)" default:"0"`
	DumpDir         string        `help:"Also write extracted sections as markdown files to this directory"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	ScrapeOptions `embed:""`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask about the documentation"`
	K        int    `short:"k" help:"Number of chunks to retrieve" default:"20"`
	JSON     bool   `help:"Print the answer as JSON"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	ScrapeOptions `embed:""`

	Addr    string   `help:"Listen address" default:":8000" env:"DOCQA_ADDR"`
	Origins []string `help:"Allowed CORS origins" default:"http://localhost:3000" env:"DOCQA_CORS_ORIGINS"`
	K       int      `short:"k" help:"Number of chunks to retrieve" default:"20"`
}
