package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/scentwork/partner-console/internal/api/http"
	"github.com/scentwork/partner-console/internal/api/http/handlers"
	"github.com/scentwork/partner-console/internal/auth"
	"github.com/scentwork/partner-console/internal/config"
	"github.com/scentwork/partner-console/internal/events"
	"github.com/scentwork/partner-console/internal/observability"
	"github.com/scentwork/partner-console/internal/persistence"
	"github.com/scentwork/partner-console/internal/repository"
	"github.com/scentwork/partner-console/internal/seed"
	"github.com/scentwork/partner-console/internal/service"
	"github.com/scentwork/partner-console/internal/worker"
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

	metrics := observability.NewMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	ambassadorRepo := repository.NewAmbassadorRepository()
	partnerRepo := repository.NewPartnerRepository()
	approvalRepo := repository.NewApprovalRepository()

	dispatcher := events.NewInMemoryDispatcher()

	qualificationService := service.NewQualificationService(service.QualificationDependencies{
		AmbassadorRepo: ambassadorRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	partnerService := service.NewPartnerService(service.PartnerDependencies{
		PartnerRepo:    partnerRepo,
		AmbassadorRepo: ambassadorRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	approvalService := service.NewApprovalService(service.ApprovalDependencies{
		ApprovalRepo:   approvalRepo,
		AmbassadorRepo: ambassadorRepo,
		Partners:       partnerService,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})

	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))

	var (
		sinks   []events.Sink
		journal repository.EventJournalRepository
	)
	if pg.Enabled() {
		journal = repository.NewEventJournalRepository(pg.PoolHandle())
		sinks = append(sinks, events.NewJournalSink(journal))
	}
	if redis.Enabled() {
		sinks = append(sinks, events.NewRedisStreamSink(redis.Client, cfg.Events.RedisStream, cfg.Events.RedisStreamMaxLen))
	}
	if cfg.Events.AMQPURL != "" {
		broker, err := events.ConnectAMQP(cfg.Events.AMQPURL, cfg.Events.AMQPExchange, logger)
		if err != nil {
			logger.Fatal("failed to connect rabbitmq", zap.Error(err))
		}
		defer broker.Close() //nolint:errcheck
		sinks = append(sinks, events.NewAMQPSink(broker.Channel, cfg.Events.AMQPExchange))
	}

	forwarder := worker.NewEventForwarder(sinks, cfg.Events.Workers, cfg.Events.BufferSize, logger, metrics)
	forwarder.Register(dispatcher)
	forwarder.Start(ctx)

	if cfg.Seed.File != "" {
		summary, err := seed.LoadFile(ctx, cfg.Seed.File, seed.Stores{
			Ambassadors: ambassadorRepo,
			Partners:    partnerRepo,
			Approvals:   approvalRepo,
		}, time.Now().UTC())
		if err != nil {
			logger.Fatal("failed to load seed fixtures", zap.String("file", cfg.Seed.File), zap.Error(err))
		}
		logger.Info("seed fixtures loaded",
			zap.Int("ambassadors", summary.Ambassadors),
			zap.Int("partners", summary.Partners),
			zap.Int("requests", summary.Requests),
		)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokens, ambassadorRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name, Immutable: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Ambassadors:    handlers.NewAmbassadorsHandler(qualificationService, partnerService, approvalService),
		Partners:       handlers.NewPartnersHandler(partnerService),
		Admin:          handlers.NewAdminHandler(qualificationService, approvalService, partnerService),
		Events:         handlers.NewEventsHandler(journal),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	forwarder.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
