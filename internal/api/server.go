package api

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/fergoeqs/second-service/internal/api/dto"
	"github.com/fergoeqs/second-service/internal/api/handler"
	"github.com/fergoeqs/second-service/internal/api/middleware"
	"github.com/fergoeqs/second-service/internal/core/service"
	"github.com/fergoeqs/second-service/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Server struct {
	router *gin.Engine
	srv    *http.Server
	config *config.Config
	logger zerolog.Logger
	ready  atomic.Bool
}

// NewServer creates a new API server. authService may be nil, in which case
// /orgdirectory is served without authentication.
func NewServer(
	cfg *config.Config,
	orgDirectoryService *service.OrgDirectoryService,
	authService *service.AuthService,
	logger zerolog.Logger,
) *Server {
	// Set Gin mode
	if !cfg.IsDevMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.ErrorHandlerMiddleware(logger))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	server := &Server{
		router: router,
		config: cfg,
		logger: logger,
	}

	orgDirectoryHandler := handler.NewOrgDirectoryHandler(orgDirectoryService, logger)

	// Organization directory
	orgdirectory := router.Group("/orgdirectory")
	orgdirectory.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	if authService != nil {
		orgdirectory.Use(middleware.AuthMiddleware(authService))
	}
	{
		orgdirectory.POST("/filter/turnover", orgDirectoryHandler.FilterByTurnover)
		orgdirectory.POST("/order", orgDirectoryHandler.OrderOrganizations)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status: "ok",
			Time:   time.Now().Format(time.RFC3339),
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		if !server.ready.Load() {
			c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
				Status: "not_ready",
				Time:   time.Now().Format(time.RFC3339),
				Reason: "server is not accepting traffic",
			})
			return
		}
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status: "ready",
			Time:   time.Now().Format(time.RFC3339),
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	server.srv = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort),
		Handler: router,
		// Longer than the upstream timeout so a slow search still gets relayed
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   cfg.Upstream.Timeout + 15*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	return server
}

// Handler returns the routed HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetReady marks the server as ready to serve traffic
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	addr := s.srv.Addr
	s.SetReady(true)

	// Start with or without SSL
	if s.config.SSLCert != "" && s.config.SSLKey != "" {
		s.logger.Info().Str("addr", addr).Msg("starting HTTPS server")
		return s.srv.ListenAndServeTLS(s.config.SSLCert, s.config.SSLKey)
	}

	s.logger.Info().Str("addr", addr).Msg("starting HTTP server")
	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.SetReady(false)
	return s.srv.Shutdown(ctx)
}
