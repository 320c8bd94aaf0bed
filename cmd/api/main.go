package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/midastechnical/storefront-sync/api/routes"
	"github.com/midastechnical/storefront-sync/internal/catalog"
	"github.com/midastechnical/storefront-sync/internal/inventory"
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
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Inventory: inventoryService,
			Catalog:   catalogService,
			Tasks:     scheduler.NewRepository(dbClient.DB()),
			Metrics:   prometheus.DefaultGatherer,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
