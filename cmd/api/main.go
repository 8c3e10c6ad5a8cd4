package main

// @title Routing Microservice API
// @version 1.0.0
// @description Микросервис построения маршрутов сбора отходов. Распределяет заявленные точки сбора по машинам организации с учётом вместимости и лимита времени смены, минимизируя суммарный пробег.
// @description
// @description Основные возможности:
// @description - Построение маршрутов (CVRP) по матрице расстояний OSRM
// @description - Оценка матрицы по прямым расстояниям при недоступности OSRM
// @description - Хранение и выдача результатов оптимизации
// @description - Управление статусами маршрутов машин

// @contact.name API Support
// @contact.email support@routing-microservice.com

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

	_ "github.com/routing-microservice/docs"
	"github.com/routing-microservice/internal/config"
	httpDelivery "github.com/routing-microservice/internal/delivery/http"
	"github.com/routing-microservice/internal/delivery/http/handler"
	"github.com/routing-microservice/internal/infrastructure/osrm"
	"github.com/routing-microservice/internal/pkg/logger"
	"github.com/routing-microservice/internal/repository/cache"
	"github.com/routing-microservice/internal/repository/postgres"
	"github.com/routing-microservice/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Routing Microservice")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("osrm_base_url", cfg.Routing.OSRMBaseURL),
	)

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
	log.Info("PostgreSQL connected")

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
	log.Info("Redis connected")

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}

	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize Repositories
	pointRepo := postgres.NewPointRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	depotRepo := postgres.NewDepotRepository(db)
	itineraryRepo := postgres.NewItineraryRepository(db)
	optimizationRepo := postgres.NewOptimizationRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)

	routingRepo := osrm.NewClient(&cfg.Routing, log)
	fallbackRepo := osrm.NewEstimator(&cfg.Routing, log)

	log.Info("Repositories initialized")

	// 7. Initialize Use Cases
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

	itineraryUC := usecase.NewItineraryUseCase(itineraryRepo, log)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP Handlers
	optimizationHandler := handler.NewOptimizationHandler(optimizationUC, log)
	itineraryHandler := handler.NewItineraryHandler(itineraryUC, log)

	log.Info("HTTP handlers initialized")

	// 9. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		optimizationHandler,
		itineraryHandler,
	)

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

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
