package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/parshwa-io/adminconsole-backend/api/routes"
	"github.com/parshwa-io/adminconsole-backend/internal/allowlist"
	"github.com/parshwa-io/adminconsole-backend/internal/auth"
	"github.com/parshwa-io/adminconsole-backend/internal/catalog"
	"github.com/parshwa-io/adminconsole-backend/pkg/auth/session"
	"github.com/parshwa-io/adminconsole-backend/pkg/config"
	"github.com/parshwa-io/adminconsole-backend/pkg/db"
	"github.com/parshwa-io/adminconsole-backend/pkg/logger"
	"github.com/parshwa-io/adminconsole-backend/pkg/metrics"
	"github.com/parshwa-io/adminconsole-backend/pkg/migrate"
	"github.com/parshwa-io/adminconsole-backend/pkg/redis"
	"github.com/parshwa-io/adminconsole-backend/pkg/storage/gcs"
	"github.com/prometheus/client_golang/prometheus"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap object storage", err)
		os.Exit(1)
	}

	verifier, err := auth.NewGoogleVerifier(cfg.Auth.GoogleClientID)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity verifier", err)
		os.Exit(1)
	}

	gate := allowlist.NewGate(cfg.Auth.AllowlistEmails)
	if gate.Size() == 0 {
		logg.Warn(context.Background(), "operator allowlist is empty, all sign-ins will be denied")
	}

	broadcaster := auth.NewBroadcaster()
	broadcaster.Subscribe(func(identity *auth.Identity) {
		if identity == nil {
			logg.Info(context.Background(), "current operator cleared")
			return
		}
		logg.Info(logg.WithOperator(context.Background(), identity.Email), "current operator changed")
	})

	authService, err := auth.NewService(auth.ServiceParams{
		Verifier:       verifier,
		Gate:           gate,
		SessionManager: sessionManager,
		Broadcaster:    broadcaster,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Store:        gcsClient,
		Repo:         catalog.NewRepository(dbClient.DB()),
		Logger:       logg,
		Metrics:      metrics.NewCatalogMetrics(registry),
		Config:       cfg.Catalog,
		ObjectPrefix: cfg.GCS.ObjectPrefix,
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
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			GCS:            gcsClient,
			SessionManager: sessionManager,
			AuthService:    authService,
			CatalogService: catalogService,
			Registry:       registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
