package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/routing-microservice/internal/config"
	"github.com/routing-microservice/internal/infrastructure/osrm"
	"github.com/routing-microservice/internal/pkg/logger"
	"github.com/routing-microservice/internal/repository/cache"
	"github.com/routing-microservice/internal/repository/postgres"
	redisRepo "github.com/routing-microservice/internal/repository/redis"
	"github.com/routing-microservice/internal/usecase"
	"github.com/routing-microservice/internal/worker"
	"github.com/routing-microservice/internal/worker/optimization"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Route Optimization Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("batch_size", cfg.Worker.BatchSize),
		zap.String("osrm_base_url", cfg.Routing.OSRMBaseURL))

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories
	pointRepo := postgres.NewPointRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	depotRepo := postgres.NewDepotRepository(db)
	itineraryRepo := postgres.NewItineraryRepository(db)
	optimizationRepo := postgres.NewOptimizationRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log, cfg.Worker.StreamReadTimeout)

	routingRepo := osrm.NewClient(&cfg.Routing, log)
	fallbackRepo := osrm.NewEstimator(&cfg.Routing, log)

	// 6. Initialize use cases
	optimizationUC := usecase.NewOptimizationUseCase(
		pointRepo,
		vehicleRepo,
		depotRepo,
		itineraryRepo,
		optimizationRepo,
		routingRepo,
		fallbackRepo,
		cacheRepo,
		log,
		usecase.OptimizerOptions{
			DefaultPointDemand: cfg.Optimizer.DefaultPointDemand,
			StopServiceTime:    cfg.Optimizer.StopServiceTime,
			RequestTimeout:     cfg.Optimizer.RequestTimeout,
			TwoOptMaxPasses:    cfg.Optimizer.TwoOptMaxPasses,
			ResultCacheTTL:     cfg.Cache.ResultCacheTTL,
		},
	)

	// 7. Initialize workers
	optimizationWorker := optimization.NewWorker(
		streamRepo,
		optimizationUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.BatchSize,
		log,
	)

	// 8. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(optimizationWorker)

	// 9. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start workers
	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Cancel context to stop workers
	cancel()

	// Stop worker manager
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
