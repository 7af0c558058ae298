package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newthinker/elite/internal/api/handler"
	"github.com/newthinker/elite/internal/api/middleware"
	"github.com/newthinker/elite/internal/api/response"
	"github.com/newthinker/elite/internal/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Server is the HTTP front end of the analysis service
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	providers  []ProviderHealth
}

// Config holds server configuration
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	APIKey       string
	MetricsPath  string
}

// Service is what the API needs from service.Service
type Service interface {
	handler.Analyzer
	handler.HotScanner
}

// ProviderHealth reports a market data provider's circuit breaker
type ProviderHealth interface {
	Name() string
	State() gobreaker.State
}

// Dependencies holds the collaborators behind the routes. Everything but
// Service may be nil; the archive routes only exist with an Archive.
type Dependencies struct {
	Service   Service
	Narrator  handler.Narrator
	Archive   handler.ArchiveReader
	Metrics   *metrics.Registry
	Providers []ProviderHealth
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if deps.Service == nil {
		return nil, fmt.Errorf("api server requires a service")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 60 * time.Second
	}

	s := &Server{
		logger:    logger,
		mux:       http.NewServeMux(),
		providers: deps.Providers,
	}
	s.setupRoutes(cfg, deps)

	// logging stays outermost; it hands a copied request downstream
	var h http.Handler = s.mux
	if deps.Metrics != nil {
		h = metrics.HTTPMiddleware(deps.Metrics)(h)
	}
	h = metrics.LoggingMiddleware(logger)(h)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) setupRoutes(cfg Config, deps Dependencies) {
	auth := middleware.APIKeyAuth(cfg.APIKey)

	analysisHandler := handler.NewAnalysisHandler(deps.Service, deps.Narrator, s.logger)
	hotHandler := handler.NewHotHandler(deps.Service)

	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.Handle("GET /api/v1/analysis", auth(http.HandlerFunc(analysisHandler.Get)))
	s.mux.Handle("GET /api/v1/hot", auth(http.HandlerFunc(hotHandler.Get)))

	if deps.Archive != nil {
		archiveHandler := handler.NewArchiveHandler(deps.Archive)
		s.mux.Handle("GET /api/v1/analysis/latest", auth(http.HandlerFunc(archiveHandler.Latest)))
		s.mux.Handle("GET /api/v1/history", auth(http.HandlerFunc(archiveHandler.History)))
	}

	if deps.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle("GET "+path, deps.Metrics.Handler())
	}
}

// Handler returns the fully wrapped root handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start blocks serving HTTP until Shutdown
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// handleHealth reports "degraded" while any provider breaker is open
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	providers := make(map[string]string, len(s.providers))
	for _, p := range s.providers {
		state := p.State()
		providers[p.Name()] = state.String()
		if state == gobreaker.StateOpen {
			status = "degraded"
		}
	}
	response.JSON(w, r, http.StatusOK, map[string]any{
		"status":    status,
		"providers": providers,
	})
}
