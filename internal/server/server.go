package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vitormoschetta/secretai-gateway/internal/config"
	"github.com/vitormoschetta/secretai-gateway/internal/handler"
	"github.com/vitormoschetta/secretai-gateway/internal/mcptool"
	"github.com/vitormoschetta/secretai-gateway/internal/metrics"
	"github.com/vitormoschetta/secretai-gateway/internal/provider"
	"github.com/vitormoschetta/secretai-gateway/internal/realtime"
	"github.com/vitormoschetta/secretai-gateway/internal/service"
)

// Version is reported by the MCP endpoint.
var Version = "dev"

// Server holds the HTTP server and all its dependencies.
type Server struct {
	Gateway  *service.Gateway
	Registry *realtime.Registry
	Metrics  *metrics.Metrics
	Router   chi.Router

	cfg    *config.Config
	logger *slog.Logger
}

// New wires the providers into a Server. Call SetupRouter before serving.
func New(cfg *config.Config, logger *slog.Logger, completer provider.Completer, checkout provider.CheckoutCreator) *Server {
	m := metrics.New()

	gw := service.NewGateway(completer, checkout, service.CheckoutConfig{
		PriceID:    cfg.StripePriceID,
		SuccessURL: cfg.CheckoutSuccessURL,
		CancelURL:  cfg.CheckoutCancelURL,
	}, cfg.ProviderTimeout, m, logger)

	return &Server{
		Gateway:  gw,
		Registry: realtime.NewRegistry(),
		Metrics:  m,
		cfg:      cfg,
		logger:   logger,
	}
}

// SetupRouter configures routes and middleware.
func (s *Server) SetupRouter() {
	h := handler.NewHandler(s.Gateway, s.logger, s.cfg.ExposeErrorDetails)
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader, "Mcp-Session-Id", "Mcp-Protocol-Version"},
		ExposedHeaders: []string{requestIDHeader, "Mcp-Session-Id"},
		MaxAge:         3600,
	}))

	r.Get("/health", h.HandleHealth)
	r.Get("/info", h.HandleInfo)
	r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.WriteTimeout))
		r.Post("/chat", h.HandleChat)
		r.Post("/create-checkout-session", h.HandleCreateCheckoutSession)
	})

	// Long-lived connections stay outside the timeout group.
	if s.cfg.RealtimeEnabled {
		hooks := realtime.LogHooks{Logger: s.logger}
		r.Method(http.MethodGet, "/ws", realtime.NewHandler(s.Registry, hooks, s.Metrics, s.logger, s.cfg.AllowedOrigins()))
	}
	if s.cfg.MCPEnabled {
		r.Handle("/mcp", mcptool.NewHTTPHandler(mcptool.NewServer(s.Gateway, s.logger, Version)))
	}

	if isDir(s.cfg.StaticDir) {
		r.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
	} else {
		r.Get("/", h.HandleInfo)
	}

	s.Router = r
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener and shuts down gracefully when ctx is done:
// open realtime connections are closed and in-flight requests get
// SHUTDOWN_TIMEOUT to finish.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if s.Router == nil {
		s.SetupRouter()
	}

	httpServer := &http.Server{
		Handler:      s.Router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("server started",
			"address", listener.Addr().String(),
			"completion_provider", s.cfg.CompletionProvider,
			"checkout_enabled", s.cfg.CheckoutEnabled(),
			"realtime_enabled", s.cfg.RealtimeEnabled,
			"mcp_enabled", s.cfg.MCPEnabled,
		)
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down server")
	case err := <-errChan:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	closed := s.Registry.CloseAll()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("graceful shutdown timed out, closing remaining connections", "error", err)
		_ = httpServer.Close()
	}

	s.logger.Info("server stopped gracefully", "realtime_connections_closed", closed)
	return nil
}
