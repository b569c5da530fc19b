package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/parshwa-io/adminconsole-backend/internal/catalog"
	"github.com/parshwa-io/adminconsole-backend/internal/catalog/consumer"
	"github.com/parshwa-io/adminconsole-backend/pkg/config"
	"github.com/parshwa-io/adminconsole-backend/pkg/db"
	"github.com/parshwa-io/adminconsole-backend/pkg/logger"
	"github.com/parshwa-io/adminconsole-backend/pkg/pubsub"
	"github.com/parshwa-io/adminconsole-backend/pkg/storage/gcs"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "image-deletion-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "image-deletion-worker"

	logg = logger.New(logger.Options{
		ServiceName: "image-deletion-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	requireResource(ctx, logg, "object storage", err)

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer pubsubClient.Close()

	catalogRepo := catalog.NewRepository(dbClient.DB())
	deletionConsumer, err := consumer.NewDeletionConsumer(
		catalogRepo,
		gcsClient,
		pubsubClient.ImageDeletionSubscription(),
		logg,
	)
	requireResource(ctx, logg, "image deletion consumer", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"serviceKind": cfg.Service.Kind,
		"env":         cfg.App.Env,
	})
	logg.Info(runCtx, "image deletion worker ready")

	if err := deletionConsumer.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "image deletion worker not working", err)
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
