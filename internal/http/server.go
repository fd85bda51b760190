// Package http provides the HTTP server hosting the policy admin API.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authzHTTP "github.com/allisson/gatekeeper/internal/authz/http"
	"github.com/allisson/gatekeeper/internal/endpoint"
)

// Server represents the HTTP server.
type Server struct {
	db     *sql.DB
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server. The router is assembled separately via
// SetupRouter so tests can install a minimal one.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterConfig carries the handlers and middleware wired into the router.
type RouterConfig struct {
	// PolicyHandler serves the policy admin API under /v1/policies.
	PolicyHandler *authzHTTP.PolicyHandler

	// Authorization is the authorization middleware guarding the admin API.
	Authorization gin.HandlerFunc

	// AdminPolicyName is the policy referenced by the admin API endpoints.
	// Empty means the provider's default policy applies.
	AdminPolicyName string

	// RateLimit is applied to the admin API when non-nil.
	RateLimit gin.HandlerFunc

	// HTTPMetrics records request metrics when non-nil.
	HTTPMetrics gin.HandlerFunc

	// CORSEnabled and CORSAllowOrigins configure cross-origin access.
	CORSEnabled      bool
	CORSAllowOrigins string
}

// SetupRouter builds the gin router with all middleware and routes.
func (s *Server) SetupRouter(cfg RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.HTTPMetrics != nil {
		router.Use(cfg.HTTPMetrics)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	if cfg.PolicyHandler != nil {
		policies := router.Group("/v1/policies")
		if cfg.RateLimit != nil {
			policies.Use(cfg.RateLimit)
		}

		adminRoute := func(name string) gin.HandlerFunc {
			return authzHTTP.EndpointMiddleware(
				endpoint.New(name, endpoint.AuthorizeData{Policy: cfg.AdminPolicyName}),
			)
		}

		policies.POST("", adminRoute("policies:create"), cfg.Authorization, cfg.PolicyHandler.CreateHandler)
		policies.GET("", adminRoute("policies:list"), cfg.Authorization, cfg.PolicyHandler.ListHandler)
		policies.GET("/:name", adminRoute("policies:get"), cfg.Authorization, cfg.PolicyHandler.GetHandler)
		policies.DELETE("/:name", adminRoute("policies:delete"), cfg.Authorization, cfg.PolicyHandler.DeleteHandler)
	}

	s.router = router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic, checking the
// database connection.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Error("readiness check failed", slog.Any("error", err))
			components["database"] = "error"
			ready = false
		} else {
			components["database"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		s.SetupRouter(RouterConfig{})
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
