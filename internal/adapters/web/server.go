// Package web serves the glossary as a JSON API over HTTP.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/corey/rfcguide/internal/common"
	"github.com/corey/rfcguide/internal/ports"
	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/time/rate"
)

// MaxAnnotateBytes caps the request body of POST /api/annotate.
const MaxAnnotateBytes = 1 << 20

// Options tunes the server. A zero RateLimit disables rate limiting.
type Options struct {
	PortFilePath string // where the bound port is written for discovery; empty skips it
	RateLimit    float64
	Burst        int
	Gzip         bool
}

// Server serves the JSON API over HTTP.
type Server struct {
	queries ports.GlossaryQueries
	logger  *common.Logger
	opts    Options
	limiter *rate.Limiter

	listener net.Listener
	httpSrv  *http.Server
	port     int
	started  time.Time
	stopOnce sync.Once
}

// NewServer creates an HTTP server over the running application.
func NewServer(queries ports.GlossaryQueries, logger *common.Logger, opts Options) *Server {
	s := &Server{
		queries: queries,
		logger:  logger,
		opts:    opts,
		started: time.Now(),
	}
	if opts.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst)
	}
	return s
}

// Handler returns the routed API wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/entries", s.handleEntries)
	mux.HandleFunc("GET /api/entries/{id}", s.handleEntry)
	mux.HandleFunc("GET /api/resolve", s.handleResolve)
	mux.HandleFunc("POST /api/annotate", s.handleAnnotate)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("DELETE /api/stats", s.handleResetStats)

	var h http.Handler = mux
	if s.opts.Gzip {
		h = gzhttp.GzipHandler(h)
	}
	if s.limiter != nil {
		h = rateLimitMiddleware(s.limiter)(h)
	}
	h = loggingMiddleware(s.logger)(h)
	h = correlationIDMiddleware(h)
	h = recoveryMiddleware(s.logger)(h)
	return h
}

// Start binds host:port (port 0 picks a free port) and writes the bound port
// to the port file. Serve must be called to accept connections.
func (s *Server) Start(host string, port int) error {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln
	s.port = ln.Addr().(*net.TCPAddr).Port
	s.started = time.Now()
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.opts.PortFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(s.opts.PortFilePath), 0755); err != nil {
			ln.Close()
			return fmt.Errorf("create run dir: %w", err)
		}
		if err := os.WriteFile(s.opts.PortFilePath, []byte(strconv.Itoa(s.port)), 0644); err != nil {
			ln.Close()
			return fmt.Errorf("write port file: %w", err)
		}
	}
	return nil
}

// Serve accepts connections until Stop. Returns nil on a clean shutdown.
func (s *Server) Serve() error {
	if s.httpSrv == nil {
		return errors.New("server not started")
	}
	if err := s.httpSrv.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the HTTP server and removes the port file. Idempotent.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpSrv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.httpSrv.Shutdown(ctx)
		}
		if s.opts.PortFilePath != "" {
			os.Remove(s.opts.PortFilePath)
		}
	})
}

// Port returns the bound port number.
func (s *Server) Port() int {
	return s.port
}

// URL returns the base URL of the API.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}
