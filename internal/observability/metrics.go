// Package observability provides logging, metrics, and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quad_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quad_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// BoardPruneRuns counts retention sweeps triggered by board listings.
	BoardPruneRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quad_board_prune_runs_total",
		Help: "Total number of retention sweeps triggered by board reads",
	})

	// BoardPrunedRequests counts requests deleted by the retention sweeper.
	BoardPrunedRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quad_board_pruned_requests_total",
		Help: "Total number of stale requests deleted by the retention sweeper",
	})

	// HelpOfferEvents counts help-offer ledger mutations by kind.
	HelpOfferEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quad_help_offer_events_total",
		Help: "Total help-offer ledger events by kind (offered, repeat, withdrawn)",
	}, []string{"kind"})

	// NotificationPublishes counts notification gateway publishes by event and outcome.
	NotificationPublishes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quad_notification_publishes_total",
		Help: "Total notification gateway publishes by event type and outcome",
	}, []string{"event", "outcome"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
