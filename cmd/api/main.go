package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/maintenance-service/internal/api/http"
	"github.com/spec-kit/maintenance-service/internal/api/http/handlers"
	"github.com/spec-kit/maintenance-service/internal/classifier"
	"github.com/spec-kit/maintenance-service/internal/config"
	"github.com/spec-kit/maintenance-service/internal/events"
	"github.com/spec-kit/maintenance-service/internal/observability"
	"github.com/spec-kit/maintenance-service/internal/persistence"
	"github.com/spec-kit/maintenance-service/internal/repository"
	"github.com/spec-kit/maintenance-service/internal/seed"
	"github.com/spec-kit/maintenance-service/internal/service"
	"github.com/spec-kit/maintenance-service/internal/worker"
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

	metrics := observability.NewMetrics()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher(logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	var relay *events.RedisRelay
	if redis.Enabled() {
		relay = events.NewRedisRelay(redis.Publisher(), cfg.Redis.EventsChannel, logger)
	}
	worker.StartEventSubscribers(dispatcher, notificationService, relay)

	ticketRepo := repository.NewTicketStore()
	residentRepo := repository.NewResidentDirectory()
	if err := loadSeed(ctx, cfg.Maintenance, ticketRepo, residentRepo, logger); err != nil {
		logger.Fatal("failed to load seed data", zap.Error(err))
	}

	gateway := classifier.NewFromConfig(cfg.Classifier, logger, metrics)
	if !gateway.Configured() {
		logger.Warn("classifier credential missing, using fallback classification")
	}

	maintenanceService := service.NewMaintenanceService(service.MaintenanceDependencies{
		TicketRepo:   ticketRepo,
		ResidentRepo: residentRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
		ActingUser:   cfg.Maintenance.ActingUser,
	})
	draftService := service.NewDraftService(maintenanceService, gateway, logger)

	app := httptransport.NewApp(cfg.App.Name)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis, gateway.Configured(), metrics),
		Maintenance: handlers.NewMaintenanceHandler(maintenanceService, gateway),
		Drafts:      handlers.NewDraftsHandler(draftService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func loadSeed(ctx context.Context, cfg config.MaintenanceConfig, tickets repository.TicketRepository, residents repository.ResidentRepository, logger *zap.Logger) error {
	var (
		data *seed.Data
		err  error
	)
	switch {
	case cfg.SeedFile != "":
		data, err = seed.LoadFile(cfg.SeedFile)
	case cfg.SeedDemoData:
		data, err = seed.Demo()
	default:
		return nil
	}
	if err != nil {
		return err
	}
	return seed.Apply(ctx, data, tickets, residents, cfg.ActingUser, logger)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
