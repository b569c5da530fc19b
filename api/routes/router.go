package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parshwa-io/adminconsole-backend/api/controllers"
	"github.com/parshwa-io/adminconsole-backend/api/middleware"
	authsvc "github.com/parshwa-io/adminconsole-backend/internal/auth"
	"github.com/parshwa-io/adminconsole-backend/internal/catalog"
	"github.com/parshwa-io/adminconsole-backend/pkg/auth/session"
	"github.com/parshwa-io/adminconsole-backend/pkg/config"
	"github.com/parshwa-io/adminconsole-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             pinger
	Redis          pinger
	GCS            pinger
	SessionManager *session.Manager
	AuthService    authsvc.Service
	CatalogService catalog.Service
	Registry       *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Registry),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis, deps.GCS))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/google", controllers.GoogleSignIn(deps.AuthService, logg))
		r.Post("/logout", controllers.Logout(deps.AuthService, logg))
		r.Post("/refresh", controllers.Refresh(deps.AuthService, logg))
	})

	deleteGuard := middleware.NewDeleteGuard()

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))

		r.Get("/", controllers.ListProducts(deps.CatalogService, logg))
		r.Post("/", controllers.CreateProduct(deps.CatalogService, cfg.Catalog, logg))
		r.With(middleware.SingleDelete(deleteGuard, logg)).
			Delete("/{productId}", controllers.DeleteProduct(deps.CatalogService, logg))
	})

	return r
}
