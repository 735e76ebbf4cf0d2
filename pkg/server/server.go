// Package server exposes the web navigator over HTTP: a JSON task API,
// conversation and export endpoints, a websocket chat, Prometheus metrics
// and a health check.
//
//	srv := server.New(manager, orch,
//	    server.WithOutputDir(cfg.Output.Dir),
//	    server.WithMetrics(collector))
//	err := srv.ListenAndServe(ctx, ":8000")
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/chat"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/logging"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/metrics"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/orchestrator"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/summarizer/export"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

const (
	defaultRateLimit = 2.0
	defaultBurst     = 5
	shutdownTimeout  = 10 * time.Second
	maxBodyBytes     = 64 << 10
)

// Conversations is the chat surface served over HTTP and websocket.
type Conversations interface {
	NewConversation() *chat.Conversation
	Get(id string) (*chat.Conversation, error)
	Delete(id string) error
	List() []chat.Summary
	Process(ctx context.Context, input, id string, sink types.EventSink) chat.Response
}

// Runner executes a single navigation request.
type Runner interface {
	ExecuteTask(ctx context.Context, request string, opts ...orchestrator.TaskOption) types.TaskResult
}

// Server serves the navigator API.
type Server struct {
	conversations  Conversations
	runner         Runner
	logger         *logging.Logger
	metrics        *metrics.Collector
	limiter        *visitorLimiter
	handler        http.Handler
	outputDir      string
	originPatterns []string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics records request metrics on m and serves it on /metrics.
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithRateLimit allows rps requests per second per client address, with
// bursts of up to burst requests.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.limiter = newVisitorLimiter(rps, burst)
	}
}

// WithOutputDir sets the directory exports are served from.
func WithOutputDir(dir string) Option {
	return func(s *Server) {
		s.outputDir = dir
	}
}

// WithOriginPatterns sets the cross-origin hosts allowed to open the
// websocket, e.g. "localhost:3000".
func WithOriginPatterns(patterns ...string) Option {
	return func(s *Server) {
		s.originPatterns = patterns
	}
}

// New creates a Server.
func New(conversations Conversations, runner Runner, opts ...Option) *Server {
	s := &Server{
		conversations: conversations,
		runner:        runner,
		logger:        logging.Nop(),
		limiter:       newVisitorLimiter(defaultRateLimit, defaultBurst),
		outputDir:     export.DefaultDir,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/tasks", s.handleTask)
	mux.HandleFunc("GET /api/conversations", s.handleListConversations)
	mux.HandleFunc("POST /api/conversations", s.handleNewConversation)
	mux.HandleFunc("GET /api/conversations/{id}", s.handleGetConversation)
	mux.HandleFunc("DELETE /api/conversations/{id}", s.handleDeleteConversation)
	mux.HandleFunc("GET /api/files", s.handleListFiles)
	mux.HandleFunc("GET /api/files/{name}", s.handleDownload)
	mux.HandleFunc("GET /ws", s.handleWebsocket)
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("GET /healthz", handleHealth)

	return Chain(mux,
		Recovery(s.logger),
		Metrics(s.metrics),
		RateLimit(s.limiter, "/healthz", "/metrics"),
	)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Infof("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		s.logger.Infof("server stopped")
		return nil
	})
	return g.Wait()
}
