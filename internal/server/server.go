// Package server provides the HTTP API for StudentGear.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/studentgear/internal/auth"
	"github.com/hyperjump/studentgear/internal/catalog"
	"github.com/hyperjump/studentgear/internal/chat"
	"github.com/hyperjump/studentgear/internal/config"
	"github.com/hyperjump/studentgear/internal/marketplace"
	"github.com/hyperjump/studentgear/internal/metrics"
	"github.com/hyperjump/studentgear/internal/search"
	"github.com/hyperjump/studentgear/internal/storage"
)

// Server is the HTTP server for the StudentGear API.
type Server struct {
	catalog     *catalog.Catalog
	engine      *search.Engine
	chat        *chat.Responder
	auth        *auth.Service
	links       *marketplace.Resolver
	storage     storage.Storage
	metrics     *metrics.Metrics
	config      *config.Config
	logger      *zap.Logger
	chatLimiter *clientLimiter
	server      *http.Server
}

// NewServer creates a server with the given dependencies. m may be nil.
func NewServer(
	cat *catalog.Catalog,
	engine *search.Engine,
	store storage.Storage,
	links *marketplace.Resolver,
	m *metrics.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		catalog:     cat,
		engine:      engine,
		chat:        chat.NewResponder(cat, logger),
		auth:        auth.NewService(store),
		links:       links,
		storage:     store,
		metrics:     m,
		config:      cfg,
		logger:      logger,
		chatLimiter: newClientLimiter(cfg.Server.ChatRateLimit.RequestsPerSecond, cfg.Server.ChatRateLimit.Burst),
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if s.config.Debug {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	if s.config.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.config.Server.RequestTimeout))
	}
	r.Use(middleware.Compress(5))
	r.Use(corsMiddleware(s.config.Server.AllowedOrigins))
	if s.metrics != nil {
		r.Use(metricsMiddleware(s.metrics))
	}

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/products", s.handleListProducts)

	r.Post("/auth/login", s.handleLogin)

	r.Get("/cart", s.handleGetCart)
	r.Post("/cart", s.handleAddCartItem)
	r.Put("/cart", s.handleUpdateCartItem)
	r.Delete("/cart/{name}", s.handleRemoveCartItem)

	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/api/v1/branches", s.handleBranches)
	r.Post("/api/v1/products", s.handleInsertProduct)
	r.Get("/api/v1/products/{name}/buy", s.handleBuyOptions)
	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/search/explain", s.handleExplain)
	r.Get("/api/v1/suggest", s.handleSuggest)
	r.With(s.rateLimit("/api/v1/chat", s.chatLimiter)).Post("/api/v1/chat", s.handleChat)

	if s.metrics != nil && s.config.Metrics.Enabled {
		r.Handle(s.config.Metrics.Path, s.metrics.Handler())
	}
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
