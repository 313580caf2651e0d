// Package gamemetrics records Prometheus metrics for game operations.
package gamemetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GameMetrics is the metrics surface used by the game service.
type GameMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, d time.Duration)
	RecordGameImported(ctx context.Context)
	RecordCreditsAssigned(ctx context.Context, players int)
	RecordUnknownPlayer(ctx context.Context, code string)
}

const namespace = "ultistats"

type prometheusMetrics struct {
	attempts       *prometheus.CounterVec
	successes      *prometheus.CounterVec
	failures       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	gamesImported  prometheus.Counter
	creditsApplied prometheus.Counter
	unknownPlayers prometheus.Counter
}

// NewPrometheus registers the game collectors on reg.
func NewPrometheus(reg prometheus.Registerer) (GameMetrics, error) {
	m := &prometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_attempts_total",
			Help:      "Game service operations started.",
		}, []string{"operation"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_success_total",
			Help:      "Game service operations that completed.",
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failure_total",
			Help:      "Game service operations that returned an error.",
		}, []string{"operation"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Game service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		gamesImported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_imported_total",
			Help:      "Game sheets stored.",
		}),
		creditsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "player_credits_applied_total",
			Help:      "Player credit rows updated by imports.",
		}),
		unknownPlayers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_player_codes_total",
			Help:      "Player codes in imported sheets with no registered player.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.attempts, m.successes, m.failures, m.duration,
		m.gamesImported, m.creditsApplied, m.unknownPlayers,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *prometheusMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.attempts.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.successes.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.failures.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationDuration(_ context.Context, operation string, d time.Duration) {
	m.duration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *prometheusMetrics) RecordGameImported(context.Context) {
	m.gamesImported.Inc()
}

func (m *prometheusMetrics) RecordCreditsAssigned(_ context.Context, players int) {
	m.creditsApplied.Add(float64(players))
}

// Codes are not used as labels to keep cardinality bounded.
func (m *prometheusMetrics) RecordUnknownPlayer(context.Context, string) {
	m.unknownPlayers.Inc()
}

// NoOp discards all measurements.
type NoOp struct{}

func (NoOp) RecordOperationAttempt(context.Context, string)                 {}
func (NoOp) RecordOperationSuccess(context.Context, string)                 {}
func (NoOp) RecordOperationFailure(context.Context, string)                 {}
func (NoOp) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOp) RecordGameImported(context.Context)                             {}
func (NoOp) RecordCreditsAssigned(context.Context, int)                     {}
func (NoOp) RecordUnknownPlayer(context.Context, string)                    {}
