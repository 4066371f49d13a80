package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tareqmahmood/greenshop-backend/internal/badges"
	"github.com/tareqmahmood/greenshop-backend/internal/cron"
	"github.com/tareqmahmood/greenshop-backend/internal/impact"
	"github.com/tareqmahmood/greenshop-backend/internal/notifications"
	"github.com/tareqmahmood/greenshop-backend/pkg/config"
	"github.com/tareqmahmood/greenshop-backend/pkg/db"
	"github.com/tareqmahmood/greenshop-backend/pkg/instance"
	"github.com/tareqmahmood/greenshop-backend/pkg/logger"
	"github.com/tareqmahmood/greenshop-backend/pkg/metrics"
	"github.com/tareqmahmood/greenshop-backend/pkg/migrate"
	"github.com/tareqmahmood/greenshop-backend/pkg/outbox"
	"github.com/tareqmahmood/greenshop-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(lockName(cfg.App.Env)), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	outboxRepo := outbox.NewRepository(dbClient.DB())
	outboxService := outbox.NewService(outboxRepo, logg)
	impactRepo := impact.NewRepository(dbClient.DB())
	notificationService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}
	badgeService, err := badges.NewService(badges.NewRepository(dbClient.DB()), dbClient, nil, nil, nil, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create badge service", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry()

	cleanupJob, err := cron.NewNotificationCleanupJob(cron.NotificationCleanupJobParams{
		Logger:    logg,
		Store:     notificationService,
		Retention: cfg.Impact.NotificationRetention,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification cleanup job", err)
		os.Exit(1)
	}
	registry.Register(cleanupJob)

	retentionJob, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger: logg,
		Store:  outboxRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox retention job", err)
		os.Exit(1)
	}
	registry.Register(retentionJob)

	badgeJob, err := cron.NewBadgeCatalogJob(cron.BadgeCatalogJobParams{
		Logger: logg,
		Badges: badgeService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create badge catalog job", err)
		os.Exit(1)
	}
	registry.Register(badgeJob)

	if cfg.Cron.MonthRollover {
		rolloverJob, err := cron.NewMonthRolloverJob(cron.MonthRolloverJobParams{
			Logger:     logg,
			DB:         dbClient,
			Repository: impactRepo,
			Outbox:     outboxService,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create month rollover job", err)
			os.Exit(1)
		}
		registry.Register(rolloverJob)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"instance":    instance.GetID(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockName(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("cron-worker:%s", env)
}
