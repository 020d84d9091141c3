package controllers

import (
	"net/http"

	"github.com/health-optimised/directory-backend/api/responses"
	"github.com/health-optimised/directory-backend/pkg/config"
	"github.com/health-optimised/directory-backend/pkg/errors"
	"github.com/health-optimised/directory-backend/pkg/kv"
	"github.com/health-optimised/directory-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-HealthOptimised-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, store kv.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-HealthOptimised-Env", cfg.App.Env)
		if err := store.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, errors.Wrap(errors.CodeDependency, err, "storage unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
