package gameservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	gamecache "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/cache"
	gamedb "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/ultistats/internal/observability/gamemetrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// GameService implements the Service interface.
type GameService struct {
	repo      gamedb.Repository
	publisher message.Publisher
	cache     gamecache.StandingsCache
	logger    *slog.Logger
	metrics   gamemetrics.GameMetrics
	tracer    trace.Tracer
	db        *bun.DB
}

// NewGameService creates a new GameService. A nil cache disables standings caching.
func NewGameService(
	repo gamedb.Repository,
	publisher message.Publisher,
	cache gamecache.StandingsCache,
	logger *slog.Logger,
	metrics gamemetrics.GameMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *GameService {
	if cache == nil {
		cache = gamecache.NoOp{}
	}
	return &GameService{
		repo:      repo,
		publisher: publisher,
		cache:     cache,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
	}
}

// operationFunc is the signature for service operation functions.
type operationFunc[T any] func(ctx context.Context) (T, error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[T any](
	s *GameService,
	ctx context.Context,
	operationName string,
	subject string,
	op operationFunc[T],
) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("subject", subject),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	s.logger.DebugContext(ctx, operationName+" triggered",
		attr.String("operation", operationName),
		attr.String("subject", subject),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.String("operation", operationName),
				attr.String("subject", subject),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			var zero T
			result = zero
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.WarnContext(ctx, "Operation failed",
			attr.String("operation", operationName),
			attr.String("subject", subject),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	s.logger.DebugContext(ctx, operationName+" completed successfully",
		attr.String("operation", operationName),
		attr.String("subject", subject),
	)
	s.metrics.RecordOperationSuccess(ctx, operationName)
	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[T any](
	s *GameService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (T, error),
) (T, error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result T
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}

var _ Service = (*GameService)(nil)
