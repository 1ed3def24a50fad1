package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/daotrack/governance-indexer/internal/adapter"
	"github.com/daotrack/governance-indexer/internal/aggregation"
	"github.com/daotrack/governance-indexer/internal/api/middleware"
	"github.com/daotrack/governance-indexer/internal/api/rest"
	"github.com/daotrack/governance-indexer/internal/api/rest/dto"
	"github.com/daotrack/governance-indexer/internal/cache"
	"github.com/daotrack/governance-indexer/internal/governor"
	"github.com/daotrack/governance-indexer/internal/logger"
	"github.com/daotrack/governance-indexer/internal/store"
)

// Config holds the server configuration
type Config struct {
	Debug          bool
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	ParamsCacheTTL time.Duration
}

// Server wraps the HTTP server
type Server struct {
	config      Config
	store       store.Store
	registry    *governor.Registry
	aggregation *aggregation.Service
	httpServer  *http.Server
}

// New creates a new API server
func New(cfg Config, store store.Store, registry *governor.Registry, aggregationService *aggregation.Service) *Server {
	return &Server{
		config:      cfg,
		store:       store,
		registry:    registry,
		aggregation: aggregationService,
	}
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Setup middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS())

	paramsCacheTTL := s.config.ParamsCacheTTL
	if paramsCacheTTL <= 0 {
		paramsCacheTTL = 5 * time.Minute
	}
	paramsCache := cache.NewTTL[dto.DaoParameters](paramsCacheTTL, adapter.NewClock())

	// Create REST handler
	restHandler := rest.NewHandler(s.store, s.registry, s.aggregation, paramsCache)

	// Setup REST routes
	rest.SetupRoutes(router, restHandler)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
