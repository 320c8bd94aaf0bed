package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/midastechnical/storefront-sync/internal/catalog"
	"github.com/midastechnical/storefront-sync/internal/inventory"
	"github.com/midastechnical/storefront-sync/internal/orders"
	"github.com/midastechnical/storefront-sync/internal/scheduler"
	"github.com/midastechnical/storefront-sync/pkg/config"
	"github.com/midastechnical/storefront-sync/pkg/db"
	"github.com/midastechnical/storefront-sync/pkg/fourseller"
	"github.com/midastechnical/storefront-sync/pkg/logger"
	"github.com/midastechnical/storefront-sync/pkg/metrics"
	"github.com/midastechnical/storefront-sync/pkg/migrate"
	"github.com/midastechnical/storefront-sync/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "sync-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "sync-worker"

	logg = logger.New(logger.Options{
		ServiceName: "sync-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	channelMetrics := metrics.NewChannelMetrics(prometheus.DefaultRegisterer)
	channelClient, err := fourseller.NewClient(context.Background(), fourseller.ClientParams{
		Config:  cfg.FourSeller,
		Logger:  logg,
		Audit:   fourseller.NewGormAuditLog(dbClient.DB()),
		Metrics: channelMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create marketplace client", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventory.ServiceParams{
		Store:   inventory.NewRepository(dbClient.DB()),
		Channel: channelClient,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Store:   catalog.NewRepository(dbClient.DB()),
		Channel: channelClient,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Store:     orders.NewRepository(dbClient.DB()),
		Channel:   channelClient,
		Logger:    logg,
		BatchSize: cfg.Scheduler.OrdersBatch,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	taskStore := scheduler.NewRepository(dbClient.DB())
	if err := scheduler.SeedDefaults(context.Background(), taskStore); err != nil {
		logg.Error(context.Background(), "failed to seed task definitions", err)
		os.Exit(1)
	}

	registry, err := buildRegistry(cfg, logg, dbClient, redisClient, inventoryService, catalogService, ordersService)
	if err != nil {
		logg.Error(context.Background(), "failed to build task registry", err)
		os.Exit(1)
	}

	lock, err := scheduler.NewRedisLock(redisClient, cfg.Scheduler.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create task lock", err)
		os.Exit(1)
	}

	runner, err := scheduler.NewRunner(scheduler.RunnerParams{
		Logger:      logg,
		Store:       taskStore,
		Registry:    registry,
		Lock:        lock,
		Metrics:     metrics.NewTaskMetrics(prometheus.DefaultRegisterer),
		ReloadEvery: cfg.Scheduler.ReloadEvery,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create task runner", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting sync worker")

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "sync worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "sync worker shutting down gracefully")
}

func buildRegistry(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	inventoryService *inventory.Service,
	catalogService *catalog.Service,
	ordersService *orders.Service,
) (*scheduler.Registry, error) {
	maintenance := scheduler.NewMaintenanceRepository(dbClient.DB())

	healthCheck, err := scheduler.NewHealthCheckHandler(scheduler.HealthCheckHandlerParams{
		Logger: logg,
		DB:     dbClient,
		Redis:  redisClient,
	})
	if err != nil {
		return nil, err
	}

	databaseBackup, err := scheduler.NewDatabaseBackupHandler(scheduler.DatabaseBackupHandlerParams{
		Logger: logg,
		Store:  maintenance,
		Label:  cfg.Scheduler.BackupMarker,
	})
	if err != nil {
		return nil, err
	}

	imageOptimization, err := scheduler.NewImageOptimizationHandler(scheduler.ImageOptimizationHandlerParams{
		Logger: logg,
		Store:  maintenance,
	})
	if err != nil {
		return nil, err
	}

	dataRefresh, err := scheduler.NewDataRefreshHandler(scheduler.DataRefreshHandlerParams{
		Logger:    logg,
		Store:     maintenance,
		Publisher: catalogService,
	})
	if err != nil {
		return nil, err
	}

	analyticsUpdate, err := scheduler.NewAnalyticsUpdateHandler(scheduler.AnalyticsUpdateHandlerParams{
		Logger: logg,
		Store:  maintenance,
	})
	if err != nil {
		return nil, err
	}

	seoUpdate, err := scheduler.NewSEOUpdateHandler(scheduler.SEOUpdateHandlerParams{
		Logger: logg,
		Store:  maintenance,
	})
	if err != nil {
		return nil, err
	}

	marketplaceReconcile, err := scheduler.NewMarketplaceReconcileHandler(scheduler.MarketplaceReconcileHandlerParams{
		Logger:    logg,
		Inventory: inventoryService,
	})
	if err != nil {
		return nil, err
	}

	orderStatusSync, err := scheduler.NewOrderStatusSyncHandler(scheduler.OrderStatusSyncHandlerParams{
		Logger: logg,
		Orders: ordersService,
	})
	if err != nil {
		return nil, err
	}

	return scheduler.NewRegistry(
		healthCheck,
		databaseBackup,
		imageOptimization,
		dataRefresh,
		analyticsUpdate,
		seoUpdate,
		marketplaceReconcile,
		orderStatusSync,
	)
}
