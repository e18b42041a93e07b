// Package server provides HTTP server initialization and lifecycle management.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"fastai/src/app/http/handler"
	"fastai/src/app/http/response"
	"fastai/src/app/middleware"
	"fastai/src/core/ports"
	"fastai/src/core/usecase"
	"fastai/src/infra/config"
	"fastai/src/infra/logger"
	"fastai/src/infra/metrics"
	"fastai/src/infra/password"
	"fastai/src/infra/repo"
)

// Engine is the database engine the server owns for its lifetime.
// Close must be safe to call more than once.
type Engine interface {
	ports.SessionRunner
	Close()
}

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg     *config.Config
	log     *slog.Logger
	engine  Engine
	metrics *metrics.Metrics
	router  *gin.Engine
	http    *http.Server

	shutdownOnce sync.Once
	shutdownErr  error

	// Handlers
	healthHandler *handler.HealthHandler
	itemHandler   *handler.ItemHandler
	userHandler   *handler.UserHandler
}

// New creates a new Server with all dependencies wired up. The logger must
// already be configured; the server takes ownership of engine and disposes
// it on Shutdown.
func New(cfg *config.Config, log *slog.Logger, engine Engine) *Server {
	// Set Gin mode based on log level
	if cfg.Log.Level == config.LevelDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router without default middleware
	router := gin.New()

	// Create services
	healthService := usecase.NewHealthService(engine, cfg.Server.ReadinessTimeout, logger.WithComponent(log, "health"))
	itemService := usecase.NewItemService(engine, repo.NewItemRepository(), log)
	userService := usecase.NewUserService(engine, repo.NewUserRepository(), password.NewBcryptHasher(bcrypt.DefaultCost), log)

	s := &Server{
		cfg:           cfg,
		log:           log,
		engine:        engine,
		metrics:       metrics.New(),
		router:        router,
		healthHandler: handler.NewHealthHandler(healthService),
		itemHandler:   handler.NewItemHandler(itemService),
		userHandler:   handler.NewUserHandler(userService),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupHTTPServer()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	// Order matters: Recovery first to catch all panics, and the request id
	// must exist before Logging binds it.
	s.router.Use(middleware.Recovery(s.log))
	s.router.Use(middleware.RequestID(s.log))
	s.router.Use(middleware.Logging(s.log))
	s.router.Use(middleware.Metrics(s.metrics))
	s.router.Use(middleware.CORS(s.cfg.Server.CORSOrigin))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Probes and metrics
	s.router.GET("/livez", s.healthHandler.Livez)
	s.router.GET("/readyz", s.healthHandler.Readyz)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	// API v1 routes
	v1 := s.router.Group("/v1")
	{
		v1.GET("/items", s.itemHandler.List)
		v1.POST("/items", s.itemHandler.Create)
		v1.GET("/items/:id", s.itemHandler.Get)
		v1.PUT("/items/:id", s.itemHandler.Update)
		v1.DELETE("/items/:id", s.itemHandler.Delete)

		v1.POST("/users", s.userHandler.Create)
		v1.GET("/users/:id", s.userHandler.Get)
	}

	s.router.NoRoute(func(c *gin.Context) {
		response.RouteNotFound(c, middleware.GetRequestID(c))
	})
}

// setupHTTPServer configures the underlying HTTP server.
func (s *Server) setupHTTPServer() {
	s.http = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		ErrorLog:     logger.HTTPErrorLog(s.log),
	}
}

// Run listens on the configured address and serves until ctx is cancelled
// or SIGINT/SIGTERM arrives, then shuts down. Shutdown also runs when the
// listener fails, so the engine is always disposed.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		shutdownErr := s.Shutdown()
		return errors.Join(fmt.Errorf("server error: %w", err), shutdownErr)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Channel to receive server errors
	errCh := make(chan error, 1)

	go func() {
		s.log.Info("starting HTTP server", "addr", ln.Addr().String())
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for shutdown signal or error
	var serveErr error
	select {
	case <-ctx.Done():
		s.log.Info("received shutdown signal", "cause", context.Cause(ctx).Error())
	case serveErr = <-errCh:
	}

	return errors.Join(serveErr, s.Shutdown())
}

// Shutdown gracefully stops the server, then disposes the engine.
// Only the first call does any work.
func (s *Server) Shutdown() error {
	s.shutdownOnce.Do(func() {
		s.log.Info("shutting down server", "timeout", s.cfg.Server.ShutdownTimeout)

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := s.http.Shutdown(ctx); err != nil {
			s.shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		if s.engine != nil {
			s.engine.Close()
		}
		s.log.Info("shutting down api")
	})
	return s.shutdownErr
}

// Router returns the Gin router for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}
