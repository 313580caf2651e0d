package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/ultistats/app/modules/game"
	gamecache "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/cache"
	"github.com/Black-And-White-Club/ultistats/config"
	"github.com/Black-And-White-Club/ultistats/internal/db/bundb"
	"github.com/Black-And-White-Club/ultistats/internal/observability/gamemetrics"
	watermillutil "github.com/Black-And-White-Club/ultistats/internal/watermill"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

const shutdownTimeout = 10 * time.Second

// App holds the shared resources and the game module.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *bun.DB
	Bus      *watermillutil.GoChannelBus
	Registry *prometheus.Registry
	Game     *game.Module

	deps  game.Deps
	cache *gamecache.RedisStandingsCache
}

// New connects to Postgres (and Redis when configured) and builds the game module.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.RequirePostgres(); err != nil {
		return nil, err
	}

	db, err := bundb.Open(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Bus:      watermillutil.NewGoChannelBus(logger),
		Registry: prometheus.NewRegistry(),
	}

	var cache gamecache.StandingsCache = gamecache.NoOp{}
	if cfg.Redis.URL != "" {
		a.cache, err = gamecache.NewRedisStandingsCache(ctx, cfg.Redis.URL, cfg.Redis.StandingsTTL)
		if err != nil {
			db.Close()
			return nil, err
		}
		cache = a.cache
	} else {
		logger.InfoContext(ctx, "Redis not configured, standings cache disabled")
	}

	var metrics gamemetrics.GameMetrics = gamemetrics.NoOp{}
	if cfg.Observability.MetricsEnabled {
		a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err = gamemetrics.NewPrometheus(a.Registry)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	a.deps = game.Deps{
		DB:         db,
		Publisher:  a.Bus,
		Subscriber: a.Bus,
		Cache:      cache,
		Metrics:    metrics,
		Tracer:     otel.Tracer("ultistats/game"),
		Logger:     logger,
	}
	if cfg.Observability.MetricsEnabled {
		a.deps.Registry = a.Registry
	}
	a.Game = game.NewGameModule(cfg, a.deps)

	return a, nil
}

// Serve runs the event router and the HTTP server until ctx is canceled.
func (a *App) Serve(ctx context.Context) error {
	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(a.Logger))
	if err != nil {
		return fmt.Errorf("failed to create router: %w", err)
	}
	if err := a.Game.ConfigureRouter(ctx, router, a.deps); err != nil {
		return err
	}

	httpRouter := chi.NewRouter()
	httpRouter.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	httpRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := a.DB.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	if a.Config.Observability.MetricsEnabled {
		httpRouter.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))
	}
	a.Game.RegisterHTTP(httpRouter)

	server := &http.Server{
		Addr:              a.Config.HTTP.Addr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		if err := router.Run(ctx); err != nil {
			errCh <- fmt.Errorf("event router stopped: %w", err)
		}
	}()
	go func() {
		a.Logger.InfoContext(ctx, "HTTP server listening", attr.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server stopped: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("HTTP server shutdown failed", attr.Error(err))
	}
	if err := router.Close(); err != nil {
		a.Logger.Error("Event router shutdown failed", attr.Error(err))
	}
	return runErr
}

// Close releases the bus, cache and database connections.
func (a *App) Close() error {
	var errs []error
	if err := a.Bus.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.DB.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
