package game

import (
	"context"
	"fmt"
	"log/slog"

	gameservice "github.com/Black-And-White-Club/ultistats/app/modules/game/application"
	gamecache "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/cache"
	gamehandlers "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/handlers"
	gamedb "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/repositories"
	gamerouter "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/router"
	"github.com/Black-And-White-Club/ultistats/config"
	"github.com/Black-And-White-Club/ultistats/internal/observability/gamemetrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// Module represents the game module.
type Module struct {
	Service    gameservice.Service
	GameRouter *gamerouter.GameRouter
	handlers   *gamehandlers.GameHandlers
	logger     *slog.Logger
	cfg        *config.Config
}

// Deps are the shared resources the module is built from.
type Deps struct {
	DB         *bun.DB
	Publisher  message.Publisher
	Subscriber message.Subscriber
	Cache      gamecache.StandingsCache
	Metrics    gamemetrics.GameMetrics
	Registry   prometheus.Registerer
	Tracer     trace.Tracer
	Logger     *slog.Logger
}

// NewGameModule creates the game service and its HTTP handlers.
func NewGameModule(cfg *config.Config, deps Deps) *Module {
	repo := gamedb.NewRepository(deps.DB)
	service := gameservice.NewGameService(
		repo,
		deps.Publisher,
		deps.Cache,
		deps.Logger,
		deps.Metrics,
		deps.Tracer,
		deps.DB,
	)

	return &Module{
		Service:  service,
		handlers: gamehandlers.NewGameHandlers(service, deps.Logger, gamehandlers.Limits{
			Read:  gamehandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst),
			Write: gamehandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.ImportRateLimit), cfg.HTTP.ImportRateBurst),
		}),
		logger:   deps.Logger,
		cfg:      cfg,
	}
}

// ConfigureRouter registers the module's event handlers on router.
func (m *Module) ConfigureRouter(ctx context.Context, router *message.Router, deps Deps) error {
	m.GameRouter = gamerouter.NewGameRouter(deps.Logger, router, deps.Subscriber, deps.Tracer, deps.Registry)
	if err := m.GameRouter.Configure(ctx, m.Service); err != nil {
		return fmt.Errorf("failed to configure game router: %w", err)
	}
	return nil
}

// RegisterHTTP mounts the game API under /api.
func (m *Module) RegisterHTTP(httpRouter chi.Router) {
	httpRouter.Route("/api", m.handlers.Routes)
}
