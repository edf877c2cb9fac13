// file: internal/server/server.go
// version: 1.3.0
// guid: 4d5e6f7a-8b9c-0d1e-2f3a-4b5c6d7e8f9a

package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inpsyde/users-table/internal/metrics"
	"github.com/inpsyde/users-table/internal/nonce"
	"github.com/inpsyde/users-table/internal/server/middleware"
	"github.com/inpsyde/users-table/internal/users"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	users      *users.Service
	nonces     *nonce.Issuer
	startedAt  time.Time
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// GetDefaultServerConfig returns the stock listen configuration.
func GetDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Host:         "localhost",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Options carries the collaborators and knobs the server needs beyond the
// user service itself.
type Options struct {
	NonceSecret     string
	NonceLifetime   time.Duration
	RateLimitPerMin int
	RateLimitBurst  int
}

// NewServer creates a new server instance around the given user service.
func NewServer(svc *users.Service, opts Options) *Server {
	router := gin.Default()

	// Set up middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	if opts.RateLimitPerMin > 0 {
		limiter := middleware.NewIPRateLimiter(opts.RateLimitPerMin, opts.RateLimitBurst)
		router.Use(limiter.Middleware())
	}

	// Register metrics (idempotent)
	metrics.Register()

	server := &Server{
		router:    router,
		users:     svc,
		nonces:    nonce.NewIssuer(opts.NonceSecret, opts.NonceLifetime),
		startedAt: time.Now(),
	}

	server.setupTemplates()
	server.setupRoutes()

	return server
}

// Start starts the HTTP server and blocks until an interrupt arrives, then
// drains outstanding requests before returning.
func (s *Server) Start(cfg ServerConfig) error {
	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exited")
	return nil
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint (standard path)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check endpoint
	s.router.GET("/api/health", s.healthCheck)

	// The rendered users table page
	s.router.GET("/users-table", s.usersTablePage)

	// Browser-facing detail lookup, called from the table page
	s.router.GET("/ajax/user-details", s.userDetails)

	// Static assets for the table page
	s.setupStaticFiles()

	// Return 404 for unknown API/AJAX routes, send everything else to the page
	s.router.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/ajax/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
			return
		}
		c.Redirect(http.StatusFound, "/users-table")
	})
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// healthCheck reports liveness and uptime.
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    int64(time.Since(s.startedAt).Seconds()),
		Timestamp: time.Now().Unix(),
	})
}
