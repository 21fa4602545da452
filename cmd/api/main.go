package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/compliance-service/internal/api/http"
	"github.com/spec-kit/compliance-service/internal/api/http/handlers"
	"github.com/spec-kit/compliance-service/internal/auth"
	"github.com/spec-kit/compliance-service/internal/config"
	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/events"
	"github.com/spec-kit/compliance-service/internal/observability"
	"github.com/spec-kit/compliance-service/internal/persistence"
	"github.com/spec-kit/compliance-service/internal/repository"
	"github.com/spec-kit/compliance-service/internal/service"
	"github.com/spec-kit/compliance-service/internal/tracking"
	"github.com/spec-kit/compliance-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := pg.Migrate(ctx, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartWatermarkWorker(dispatcher, redis, logger)

	registry := tracking.DefaultRegistry()
	changeRepo := repository.NewChangeRecordRepository()
	tracker := tracking.NewTracker(tracking.Config{Enabled: cfg.Tracking.Enabled}, tracking.Dependencies{
		Registry:   registry,
		Transactor: pg,
		Resolver:   repository.NewReferenceResolver(),
		Store:      changeRepo,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger.Named("tracking"),
	})
	if !tracker.Enabled() {
		logger.Warn("change tracking disabled; mutations will not be audited")
	}

	countryService := service.NewCountryService(tracking.Wrap[*domain.Country](tracker, repository.NewCountryRepository()))
	safeguardService := service.NewSafeguardService(tracking.Wrap[*domain.SafeguardMechanism](tracker, repository.NewSafeguardRepository()))
	assetService := service.NewAssetService(tracking.Wrap[*domain.Asset](tracker, repository.NewAssetRepository()))
	activityService := service.NewActivityService(tracking.Wrap[*domain.Activity](tracker, repository.NewActivityRepository()))
	changeService := service.NewChangeService(service.ChangeDependencies{
		Reader:     changeRepo,
		DB:         pg.Handle(),
		Registry:   registry,
		Watermarks: redis,
	})

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, tracker.Enabled(), map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Countries:      handlers.NewCountriesHandler(countryService),
		Safeguards:     handlers.NewSafeguardsHandler(safeguardService),
		Assets:         handlers.NewAssetsHandler(assetService),
		Activities:     handlers.NewActivitiesHandler(activityService),
		Changes:        handlers.NewChangesHandler(changeService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
