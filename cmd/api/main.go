package main

// @title Building Analyzer API
// @version 1.0.0
// @description Сервис анализа эффективности зданий Forge of Empires. Загружает метаданные зданий, строит таблицу по эпохам и оценивает здания по весам.
// @description
// @description Основные возможности:
// @description - Загрузка датасета из файла, http(s) или s3:// с кешем в Redis и снимками в SQLite/PostgreSQL
// @description - Оценка Total Score и Weighted Efficiency в режимах direct и legacy
// @description - Фильтры, пересчёт на клетку, выгрузка CSV/JSON
// @description - Анализ вставленного инвентаря или города

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/building-analyzer/docs"
	"github.com/building-analyzer/internal/bootstrap"
	"github.com/building-analyzer/internal/config"
	httpDelivery "github.com/building-analyzer/internal/delivery/http"
	"github.com/building-analyzer/internal/delivery/http/handler"
	"github.com/building-analyzer/internal/pkg/logger"
	"github.com/building-analyzer/internal/pkg/metrics"
	"github.com/building-analyzer/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "building-analyzer-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Building Analyzer API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("dataset_source", cfg.Dataset.Source),
		zap.String("store", cfg.Store.Driver),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	// 3. Metrics
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// 4. Connect to Redis
	redisClient, err := bootstrap.Redis(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
	}

	// 5. Snapshot store
	snapshots, err := bootstrap.SnapshotStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to open snapshot store", zap.Error(err))
	}
	if snapshots != nil {
		defer func() {
			if err := snapshots.Close(); err != nil {
				log.Error("Failed to close snapshot store", zap.Error(err))
			}
		}()
	}

	// 6. Dataset sources
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Dataset.ParseTimeout+cfg.Remote.Timeout)
	defer cancel()
	sources := bootstrap.Sources(ctx, cfg, log)

	// 7. Initialize Use Cases
	datasetUC := bootstrap.DatasetUseCase(cfg, sources, redisClient, snapshots, m, log)
	analysisUC := usecase.NewAnalysisUseCase(datasetUC, log)
	exportUC := usecase.NewExportUseCase(datasetUC, log)
	catalogUC := usecase.NewCatalogUseCase(datasetUC)
	cityUC := usecase.NewCityUseCase(datasetUC, log)

	log.Info("Use cases initialized")

	// 8. Initial dataset load
	if cfg.Dataset.LoadOnStart {
		if _, err := datasetUC.LoadOrRestore(ctx); err != nil {
			log.Warn("Starting without dataset, use POST /api/v1/dataset/reload", zap.Error(err))
		}
	}

	// 9. Initialize HTTP Handlers and Server
	server := httpDelivery.NewServer(cfg, log, m, httpDelivery.Handlers{
		Dataset:  handler.NewDatasetHandler(datasetUC, log),
		Analysis: handler.NewAnalysisHandler(analysisUC, exportUC, datasetUC, log),
		Catalog:  handler.NewCatalogHandler(catalogUC),
		City:     handler.NewCityHandler(cityUC, log),
	})

	log.Info("HTTP server initialized")

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
