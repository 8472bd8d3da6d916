// Package api exposes the chat orchestrator over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edgard/commerce-agent/internal/chat"
	"github.com/edgard/commerce-agent/internal/config"
	"github.com/edgard/commerce-agent/internal/logger"
)

// Processor handles chat requests.
type Processor interface {
	Process(ctx context.Context, req chat.Request) chat.Response
}

// Deps contains the dependencies of the HTTP API server.
type Deps struct {
	Processor Processor
	Recorder  chat.Recorder
	Logger    *slog.Logger
	Server    config.ServerConfig
	Proxy     config.ProxyConfig
	// HTTPClient fetches proxied images. Defaults to a client with Proxy.Timeout.
	HTTPClient *http.Client
}

// Server is the HTTP API server.
type Server struct {
	deps       Deps
	log        *slog.Logger
	engine     *gin.Engine
	httpClient *http.Client
}

// NewServer creates a Server and registers its routes.
func NewServer(deps Deps) (*Server, error) {
	if deps.Processor == nil {
		return nil, errors.New("api server requires a chat processor")
	}
	if deps.Recorder == nil {
		deps.Recorder = chat.NopRecorder{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	httpClient := deps.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: deps.Proxy.Timeout}
	}

	s := &Server{
		deps:       deps,
		log:        deps.Logger.With("component", "api"),
		httpClient: httpClient,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.HTTPMiddleware(s.log))
	engine.Use(CORSMiddleware(deps.Server.AllowedOrigins))
	s.registerRoutes(engine)
	s.engine = engine

	return s, nil
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/", s.handleRoot)
	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	api.POST("/chat", s.handleChat)
	api.GET("/proxy-image", s.handleProxyImage)
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.deps.Server.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.deps.Server.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is like Run but accepts connections on ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.engine,
		ReadTimeout:  s.deps.Server.ReadTimeout,
		WriteTimeout: s.deps.Server.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server", "timeout", s.deps.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.deps.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	s.log.Info("HTTP server stopped")
	return nil
}
