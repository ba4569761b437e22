// Package gin serves the ingestion and question endpoints over HTTP.
package gin

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/docqa"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// Defaults for the HTTP server.
const (
	DefaultAddr          = ":8000"
	DefaultAllowedOrigin = "http://localhost:3000"
	shutdownTimeout      = 10 * time.Second
)

// IngestedMessage is returned after a successful ingestion.
const IngestedMessage = "Data ingested successfully"

// Server exposes an Ingester and an Asker over HTTP.
type Server struct {
	ln     net.Listener
	server *http.Server
	router *gin.Engine

	// ingestMu serializes ingestion requests.
	ingestMu sync.Mutex

	Addr           string
	SourceURL      string
	AllowedOrigins []string

	Ingester docqa.Ingester
	Asker    docqa.Asker
	Logger   *slog.Logger
}

// NewServer returns a Server with default settings. Services must be set
// before Open is called.
func NewServer() *Server {
	s := &Server{
		Addr:           DefaultAddr,
		AllowedOrigins: []string{DefaultAllowedOrigin},
		Logger:         slog.New(slog.DiscardHandler),
	}
	s.server = &http.Server{ReadHeaderTimeout: 10 * time.Second}
	return s
}

// Handler builds the router. It is exposed for tests.
func (s *Server) Handler() http.Handler {
	if s.router != nil {
		return s.router
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), CORS(s.AllowedOrigins), gzip.Gzip(gzip.DefaultCompression))
	r.GET("/ingest-data", s.handleIngest)
	r.POST("/get-answer", s.handleAsk)
	s.router = r
	return r
}

// Open starts listening on Addr and serves requests in the background.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	s.server.Handler = s.Handler()

	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("http server stopped", "err", err)
		}
	}()
	return nil
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	addr := s.ln.Addr().(*net.TCPAddr)
	host := "localhost"
	if ip := addr.IP; ip != nil && !ip.IsUnspecified() {
		host = ip.String()
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(addr.Port))
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()
		s.Logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(begin),
		)
	}
}

// CORS allows cross-origin requests from the listed origins. An empty list
// allows every origin. Preflight requests are answered with 204.
func CORS(allowlist []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowlist))
	for _, origin := range allowlist {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		allowed[trimmed] = struct{}{}
	}
	allowAll := len(allowed) == 0

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		h := c.Writer.Header()
		if allowAll {
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
		} else if _, ok := allowed[origin]; ok && origin != "" {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Vary", "Origin")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
