package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/smartnote/core/docs"
	httpHandlers "github.com/smartnote/core/internal/adapters/http"
	"github.com/smartnote/core/internal/adapters/repository"
	"github.com/smartnote/core/internal/adapters/store"
	"github.com/smartnote/core/internal/application/services"
	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/infrastructure/config"
	"github.com/smartnote/core/internal/infrastructure/logger"
	"github.com/smartnote/core/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo     *echo.Echo
	config   *config.Config
	logger   *logger.Logger
	store    ports.DocumentStore
	registry *prometheus.Registry
}

// New creates a new server instance on top of an open document store
func New(cfg *config.Config, docs ports.DocumentStore, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = NewValidator()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		store:  docs,
	}

	if cfg.Metrics.Enabled {
		server.registry = prometheus.NewRegistry()
		instrumented, err := store.NewInstrumentedStore(docs, server.registry)
		if err != nil {
			return nil, fmt.Errorf("failed to register store metrics: %w", err)
		}
		docs = instrumented
	}

	// Initialize repositories
	noteRepo := repository.NewNoteRepository(docs)
	taskRepo := repository.NewTaskRepository(docs)
	userRepo := repository.NewUserRepository(docs, services.BcryptHasher(cfg.Security.BcryptCost))

	// Initialize services
	noteService := services.NewNoteService(noteRepo, appLogger)
	taskService := services.NewTaskService(taskRepo, appLogger)
	userService := services.NewUserService(userRepo, appLogger)

	server.setupMiddleware()

	if server.registry != nil {
		if err := server.setupMetrics(); err != nil {
			return nil, err
		}
	}

	server.setupRoutes(
		httpHandlers.NewCRUDHandler(httpHandlers.NoteResource(noteService), appLogger),
		httpHandlers.NewCRUDHandler(httpHandlers.TaskResource(taskService), appLogger),
		httpHandlers.NewCRUDHandler(httpHandlers.UserResource(userService), appLogger),
		httpHandlers.NewAuthHandler(userService, appLogger),
	)

	return server, nil
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(
	noteHandler *httpHandlers.CRUDHandler[entities.Note],
	taskHandler *httpHandlers.CRUDHandler[entities.Task],
	userHandler *httpHandlers.CRUDHandler[entities.User],
	authHandler *httpHandlers.AuthHandler,
) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// Swagger documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	api := s.echo.Group("/api")

	// login is registered before the /:id routes of the same group
	users := api.Group("/users")
	users.POST("/login", authHandler.Login)
	userHandler.Register(users)

	noteHandler.Register(api.Group("/notes"))
	taskHandler.Register(api.Group("/tasks"))
}

// ServeHTTP lets the server be driven directly by tests and embedders
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.store.Ping(c.Request().Context()); err != nil {
		s.logger.Warnw("Readiness check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "store_not_ready",
		})
	}

	resp := map[string]interface{}{
		"status": "ready",
		"driver": s.config.Store.Driver,
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if pool, ok := s.store.(connectionReporter); ok {
		resp["connections"] = pool.ConnectionInfo()
	}

	return c.JSON(http.StatusOK, resp)
}

// connectionReporter is implemented by stores backed by a connection pool
type connectionReporter interface {
	ConnectionInfo() map[string]interface{}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         s.config.Server.Address(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}
	s.logger.Infow("Starting server", "address", srv.Addr, "store", s.config.Store.Driver)
	return s.echo.StartServer(srv)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// setupMetrics exposes HTTP and store metrics on /metrics
func (s *Server) setupMetrics() error {
	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	for _, c := range []prometheus.Collector{requestsTotal, requestDuration} {
		if err := s.registry.Register(c); err != nil {
			return fmt.Errorf("failed to register http metrics: %w", err)
		}
	}

	s.echo.Use(metricsMiddleware(requestsTotal, requestDuration))

	metricsHandler := promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
	return nil
}
