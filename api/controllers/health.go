package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/parshwa-io/adminconsole-backend/api/responses"
	"github.com/parshwa-io/adminconsole-backend/pkg/config"
	pkgerrors "github.com/parshwa-io/adminconsole-backend/pkg/errors"
	"github.com/parshwa-io/adminconsole-backend/pkg/logger"
)

const readyCheckTimeout = 5 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-AdminConsole-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every backing dependency before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP, gcsP pinger) http.HandlerFunc {
	checks := []struct {
		name   string
		pinger pinger
	}{
		{"db", dbP},
		{"redis", redisP},
		{"gcs", gcsP},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-AdminConsole-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		status := map[string]string{}
		for _, check := range checks {
			if check.pinger == nil {
				status[check.name] = "skipped"
				continue
			}
			if err := check.pinger.Ping(ctx); err != nil {
				status[check.name] = "down"
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, check.name+" unavailable").WithDetails(status))
				return
			}
			status[check.name] = "up"
		}

		status["status"] = "ready"
		responses.WriteSuccess(w, status)
	}
}
