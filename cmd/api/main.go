package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/health-optimised/directory-backend/api/routes"
	"github.com/health-optimised/directory-backend/internal/accounts"
	"github.com/health-optimised/directory-backend/internal/admin"
	"github.com/health-optimised/directory-backend/internal/anon"
	"github.com/health-optimised/directory-backend/internal/ratings"
	"github.com/health-optimised/directory-backend/internal/suppliers"
	"github.com/health-optimised/directory-backend/pkg/config"
	"github.com/health-optimised/directory-backend/pkg/db"
	"github.com/health-optimised/directory-backend/pkg/idgen"
	"github.com/health-optimised/directory-backend/pkg/kv"
	"github.com/health-optimised/directory-backend/pkg/logger"
	"github.com/health-optimised/directory-backend/pkg/metrics"
	"github.com/health-optimised/directory-backend/pkg/migrate"
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

	store, cleanup, err := buildStore(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap storage", err)
		os.Exit(1)
	}
	defer cleanup()

	repo := suppliers.NewRepository(store, logg)
	dir := accounts.NewDirectory(context.Background(), store, logg)
	ratingStore := ratings.NewStore(store, logg)
	ids := idgen.New()
	anonProvider := anon.NewProvider(store, ids, logg)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	engine := admin.NewEngine(context.Background(), admin.Params{
		Repo:             repo,
		Store:            store,
		Accounts:         dir,
		IDs:              ids,
		Logger:           logg,
		Metrics:          metrics.NewAdminMetrics(registry),
		FeedbackTTL:      cfg.Admin.FeedbackTTL,
		CredentialDomain: cfg.Admin.CredentialDomain,
	})
	defer engine.Close()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":       cfg.App.Env,
		"addr":      addr,
		"kv_driver": cfg.KV.Driver,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			Store:    store,
			Repo:     repo,
			Accounts: dir,
			Ratings:  ratingStore,
			Anon:     anonProvider,
			Engine:   engine,
			Registry: registry,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

// buildStore wires the configured key-value driver. The returned cleanup is
// safe to call even when there is nothing to close.
func buildStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (kv.Store, func(), error) {
	noop := func() {}

	switch cfg.KV.Driver {
	case config.KVDriverMemory:
		return kv.NewMemory(), noop, nil

	case config.KVDriverRedis:
		redisStore, err := kv.NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		return redisStore, func() {
			if err := redisStore.Close(); err != nil {
				logg.Error(ctx, "error closing redis", err)
			}
		}, nil

	case config.KVDriverSQLite, config.KVDriverPostgres:
		client, err := db.New(ctx, cfg.KV, logg)
		if err != nil {
			return nil, noop, err
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				logg.Error(ctx, "error closing database", err)
			}
		}

		if cfg.KV.Driver == config.KVDriverSQLite {
			if err := client.DB().WithContext(ctx).AutoMigrate(&kv.Record{}); err != nil {
				cleanup()
				return nil, noop, err
			}
		} else if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
			cleanup()
			return nil, noop, err
		}

		return kv.NewGormStore(client), cleanup, nil

	default:
		return nil, noop, fmt.Errorf("unknown kv driver %q", cfg.KV.Driver)
	}
}
