package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/config"
	"github.com/building-analyzer/internal/delivery/http/handler"
	"github.com/building-analyzer/internal/delivery/http/middleware"
	"github.com/building-analyzer/internal/pkg/metrics"
)

// bodyLimit - вставленный город и фильтры укладываются с запасом
const bodyLimit = 16 * 1024 * 1024

// Handlers - обработчики, которые регистрирует сервер
type Handlers struct {
	Dataset  *handler.DatasetHandler
	Analysis *handler.AnalysisHandler
	Catalog  *handler.CatalogHandler
	City     *handler.CityHandler
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	metrics  *metrics.Metrics
	handlers Handlers
}

// NewServer - создание нового HTTP сервера. m может быть nil.
func NewServer(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics, handlers Handlers) *Server {
	writeTimeout := cfg.Server.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 2 * time.Minute
	}

	app := fiber.New(fiber.Config{
		AppName:      "Building Analyzer",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    bodyLimit,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:      app,
		config:   cfg,
		logger:   logger,
		metrics:  m,
		handlers: handlers,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App - доступ к fiber.App для тестов
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	if s.metrics != nil {
		s.app.Use(middleware.Metrics(s.metrics))
	}
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	if s.metrics != nil && s.config.Metrics.Enabled {
		s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))
	}

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", s.handlers.Dataset.Health)

	// Dataset
	api.Get("/dataset", s.handlers.Dataset.GetDataset)
	api.Post("/dataset/reload", s.handlers.Dataset.Reload)

	// Catalog
	api.Get("/eras", s.handlers.Catalog.Eras)
	api.Get("/columns", s.handlers.Catalog.Columns)
	api.Get("/era-stats", s.handlers.Catalog.EraStats)
	api.Get("/weights/presets/ranking-points", s.handlers.Catalog.RankingPointsPreset)

	// Analysis
	api.Get("/buildings", s.handlers.Analysis.Buildings)
	api.Post("/analysis", s.handlers.Analysis.Analyze)
	api.Post("/analysis/export", s.handlers.Analysis.Export)

	// City
	api.Post("/city/analyze", s.handlers.City.Analyze)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := "INTERNAL_SERVER_ERROR"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			if code == fiber.StatusNotFound {
				errCode = "NOT_FOUND"
			}
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    errCode,
				"message": err.Error(),
			},
		})
	}
}
