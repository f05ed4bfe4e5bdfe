package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/building-analyzer/internal/bootstrap"
	"github.com/building-analyzer/internal/config"
	"github.com/building-analyzer/internal/pkg/logger"
	redisRepo "github.com/building-analyzer/internal/repository/redis"
	"github.com/building-analyzer/internal/worker"
	"github.com/building-analyzer/internal/worker/dataset"
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

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "building-analyzer-worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Dataset Refresh Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.String("store", cfg.Store.Driver))

	// 3. Connect to Redis. Стримы нужны всегда, кеш датасета - по CACHE_ENABLED.
	streamCfg := *cfg
	streamCfg.Cache.Enabled = true
	redisClient, err := bootstrap.Redis(&streamCfg, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 4. Snapshot store
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

	// 5. Initialize repositories and use cases
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cacheClient := redisClient
	if !cfg.Cache.Enabled {
		cacheClient = nil
	}
	datasetUC := bootstrap.DatasetUseCase(cfg, bootstrap.Sources(ctx, cfg, log), cacheClient, snapshots, nil, log)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), cfg.Worker.StreamReadTimeout, log)

	// 6. Initialize workers
	refreshWorker := dataset.NewRefreshWorker(streamRepo, datasetUC, dataset.RefreshOptions{
		ConsumerGroup: cfg.Worker.ConsumerGroup,
		MaxRetries:    cfg.Worker.MaxRetries,
	}, log)

	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(refreshWorker)

	// 7. Start workers
	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 8. Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := workerManager.Stop(stopCtx); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	log.Info("Worker shutdown complete")
}
