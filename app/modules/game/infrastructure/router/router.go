package gamerouter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	gameevents "github.com/Black-And-White-Club/ultistats/app/modules/game/domain/events"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// GameRouter routes game events from the bus to their handlers.
type GameRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     message.Subscriber
	tracer         trace.Tracer
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewGameRouter creates a GameRouter. A nil registry disables router metrics.
func NewGameRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	tracer trace.Tracer,
	prometheusRegistry prometheus.Registerer,
) *GameRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "ultistats", "router")
		metricsBuilder = &builder
	}
	return &GameRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
	}
}

// Configure adds middleware and registers the game event handlers.
func (r *GameRouter) Configure(routerCtx context.Context, svc StandingsService) error {
	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{MaxRetries: 3}.Middleware,
	)

	h := &handlers{service: svc, logger: r.logger, tracer: r.tracer}
	if err := r.registerHandlers(routerCtx, h); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}
	return nil
}

// registerHandlers registers event handlers using V1 versioned event constants.
// The handlers emit no messages, so they are registered without a publisher.
func (r *GameRouter) registerHandlers(ctx context.Context, h *handlers) error {
	eventsToHandlers := map[string]message.NoPublishHandlerFunc{
		gameevents.GameImportedV1: h.HandleGameImported,
	}

	for topic, handlerFunc := range eventsToHandlers {
		handlerName := fmt.Sprintf("game.%s", topic)
		r.Router.AddNoPublisherHandler(
			handlerName,
			topic,
			r.subscriber,
			func(msg *message.Message) error {
				if err := handlerFunc(msg); err != nil {
					r.logger.ErrorContext(ctx, "Error processing message",
						attr.String("message_id", msg.UUID),
						attr.String("handler", handlerName),
						attr.Error(err),
					)
					return err
				}
				return nil
			},
		)
	}
	return nil
}

// Close stops the router.
func (r *GameRouter) Close() error {
	return r.Router.Close()
}

type handlers struct {
	service StandingsService
	logger  *slog.Logger
	tracer  trace.Tracer
}

// HandleGameImported recomputes the standings from storage and replaces the
// cached copy, so a stale entry stored by a concurrent read does not survive
// the import.
func (h *handlers) HandleGameImported(msg *message.Message) error {
	payload, err := gameevents.DecodeGameImported(msg)
	if err != nil {
		// Malformed payloads are not retried.
		h.logger.Error("Dropping malformed game imported event",
			attr.String("message_id", msg.UUID),
			attr.Error(err),
		)
		return nil
	}

	ctx, span := h.tracer.Start(msg.Context(), "HandleGameImported", trace.WithAttributes(
		attribute.Int64("game_id", payload.GameID),
	))
	defer span.End()

	teams, err := h.service.RefreshStandings(ctx)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to refresh standings: %w", err)
	}

	h.logger.InfoContext(ctx, "Standings refreshed",
		attr.Int64("game_id", payload.GameID),
		attr.String("correlation_id", msg.Metadata.Get("correlation_id")),
		attr.Int("teams", len(teams)),
	)
	return nil
}
