package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vbarros/aquaponia-monitor/internal/config"
	"github.com/vbarros/aquaponia-monitor/internal/relay"
	"github.com/vbarros/aquaponia-monitor/internal/store"
)

// Server exposes the read/query, control and settings endpoints consumed by
// the browser dashboard.
type Server struct {
	readings *store.ReadingStore
	settings *store.SettingsStore
	stats    *store.StatsStore
	relay    *relay.Relay
	db       *gorm.DB
	logger   *slog.Logger

	engine     *gin.Engine
	httpServer *http.Server
}

// New creates the HTTP server and registers all routes.
func New(
	cfg config.ServerConfig,
	db *gorm.DB,
	readings *store.ReadingStore,
	settings *store.SettingsStore,
	stats *store.StatsStore,
	deviceRelay *relay.Relay,
	logger *slog.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		readings: readings,
		settings: settings,
		stats:    stats,
		relay:    deviceRelay,
		db:       db,
		logger:   logger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))

	// The dashboard is served from a separate origin.
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	server.registerRoutes(engine)
	server.engine = engine

	server.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return server
}

func (s *Server) registerRoutes(engine *gin.Engine) {
	api := engine.Group("/api")
	{
		api.GET("/temperature/latest", s.getLatestReadings)
		api.GET("/temperature", s.getReadingsRange)
		api.POST("/control/:device", s.setDeviceState)
		api.GET("/settings", s.getSettings)
		api.POST("/settings", s.updateSettings)
		api.GET("/stats/daily", s.getDailyStats)
		api.GET("/health", s.getHealth)
	}
}

// Handler returns the route handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start begins serving and blocks until the listener fails or is shut down.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}

	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// requestLogger logs one line per request with method, path, status and
// duration.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		logger.Debug("Request handled",
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", ctx.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
