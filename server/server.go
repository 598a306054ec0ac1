// Package server exposes the vector store service over HTTP using gin.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/viant/vecnode/logging"
	"github.com/viant/vecnode/metrics"
	"github.com/viant/vecnode/service"
)

// Server serves the vector store routes.
type Server struct {
	svc     *service.Service
	router  *gin.Engine
	logger  *logging.Logger
	metrics *metrics.Prometheus

	shutdownTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for access and error logs.
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics instruments requests and mounts GET /metrics.
func WithMetrics(p *metrics.Prometheus) Option {
	return func(s *Server) { s.metrics = p }
}

// WithShutdownTimeout bounds how long Serve waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// New creates a Server for svc.
func New(svc *service.Service, opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		svc:             svc,
		router:          gin.New(),
		logger:          logging.NoopLogger(),
		shutdownTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware())
	}
	s.router.Use(accessLogMiddleware(s.logger))
}

func (s *Server) setupRoutes() {
	h := &handlers{svc: s.svc, logger: s.logger}

	s.router.GET("/health", h.health)
	vectors := s.router.Group("/vectors")
	{
		vectors.POST("/upsert", h.upsert)
		vectors.GET("/count", h.count)
	}
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("http server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		s.logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
