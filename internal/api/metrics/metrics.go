// Package metrics defines and registers all custom Prometheus metrics for the
// compliance API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dsalta/compliance-api/internal/core/bus"
	"github.com/dsalta/compliance-api/internal/core/domain"
)

const namespace = "compliance"

// ── Bus metrics ───────────────────────────────────────────────────────────────

// BusDispatchTotal counts dispatched commands and queries.
// Labels:
//   - kind: request kind (e.g. "task.create")
//   - outcome: "ok", "not_found" or "error"
var BusDispatchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bus_dispatch_total",
		Help:      "Total number of commands and queries dispatched, by kind and outcome.",
	},
	[]string{"kind", "outcome"},
)

// BusDispatchDuration measures handler latency per request kind.
var BusDispatchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "bus_dispatch_duration_seconds",
		Help:      "Duration of a single command or query handler invocation.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts rejected requests.
// Label:
//   - reason: "missing_token", "invalid_token" or "forbidden"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by authentication or authorization.",
	},
	[]string{"reason"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events handled by the dispatcher.
// Labels:
//   - action: "created", "updated" or "deleted"
//   - outcome: "stored", "failed" or "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of task audit events, by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// AuditQueueDepth tracks the number of events waiting in each worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// BusMiddleware records count and latency of every dispatch. Handler errors
// pass through unchanged.
func BusMiddleware() bus.Middleware {
	return func(kind bus.Kind, next bus.HandlerFunc) bus.HandlerFunc {
		return func(ctx context.Context, req bus.Request) (any, error) {
			start := time.Now()
			res, err := next(ctx, req)
			BusDispatchDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
			BusDispatchTotal.WithLabelValues(string(kind), outcome(err)).Inc()
			return res, err
		}
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrTaskNotFound):
		return "not_found"
	default:
		return "error"
	}
}
