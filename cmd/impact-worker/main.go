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
	"github.com/tareqmahmood/greenshop-backend/internal/budget"
	"github.com/tareqmahmood/greenshop-backend/internal/carbon"
	impactconsumer "github.com/tareqmahmood/greenshop-backend/internal/consumers/impact"
	"github.com/tareqmahmood/greenshop-backend/internal/impact"
	"github.com/tareqmahmood/greenshop-backend/internal/notifications"
	"github.com/tareqmahmood/greenshop-backend/pkg/config"
	"github.com/tareqmahmood/greenshop-backend/pkg/db"
	"github.com/tareqmahmood/greenshop-backend/pkg/instance"
	"github.com/tareqmahmood/greenshop-backend/pkg/logger"
	"github.com/tareqmahmood/greenshop-backend/pkg/metrics"
	"github.com/tareqmahmood/greenshop-backend/pkg/migrate"
	"github.com/tareqmahmood/greenshop-backend/pkg/outbox"
	"github.com/tareqmahmood/greenshop-backend/pkg/outbox/idempotency"
	"github.com/tareqmahmood/greenshop-backend/pkg/pubsub"
	"github.com/tareqmahmood/greenshop-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "impact-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "impact-worker"

	logg = logger.New(logger.Options{
		ServiceName: "impact-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		requireResource(ctx, logg, "dev migrations", err)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "error closing pubsub client", err)
		}
	}()

	subscription := pubsubClient.OrdersSubscription()
	if subscription == nil {
		requireResource(ctx, logg, "orders subscription", errors.New("subscription not configured"))
	}

	manager, err := idempotency.NewManager(redisClient, cfg.Eventing.OutboxIdempotencyTTL)
	requireResource(ctx, logg, "idempotency manager", err)

	impactMetrics := metrics.NewImpactMetrics(prometheus.DefaultRegisterer)

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	carbonService, err := carbon.NewService(carbon.NewRepository(dbClient.DB()))
	requireResource(ctx, logg, "carbon service", err)

	notificationService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	requireResource(ctx, logg, "notification service", err)

	badgeService, err := badges.NewService(
		badges.NewRepository(dbClient.DB()),
		dbClient,
		outboxService,
		notificationService,
		impactMetrics,
		logg,
	)
	requireResource(ctx, logg, "badge service", err)

	if err := badgeService.EnsureCatalog(ctx); err != nil {
		requireResource(ctx, logg, "badge catalog", err)
	}

	impactService, err := impact.NewService(
		impact.NewRepository(dbClient.DB()),
		carbonService,
		dbClient,
		outboxService,
		badgeService,
		notificationService,
		impactMetrics,
		logg,
	)
	requireResource(ctx, logg, "impact service", err)

	budgetService, err := budget.NewService(budget.NewRepository(dbClient.DB()))
	requireResource(ctx, logg, "budget service", err)

	consumer, err := impactconsumer.NewService(
		subscription,
		impactService,
		budgetService,
		notificationService,
		manager,
		impactMetrics,
		logg,
	)
	requireResource(ctx, logg, "impact consumer", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"instance":    instance.GetID(),
	})
	logg.Info(runCtx, "impact worker ready")

	if err := consumer.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "impact worker failed", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
