// Package metrics defines and registers all custom Prometheus metrics for the
// PrepInter API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto; HTTP request metrics come from echoprometheus instead.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "prepinter"

// ── Boundary metrics ──────────────────────────────────────────────────────────

// CORSRejectionsTotal counts requests denied by the origin policy.
var CORSRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cors_rejections_total",
		Help:      "Total number of requests rejected by the origin policy.",
	},
)

// AuthFailuresTotal counts requests stopped by the auth guard.
// Label:
//   - reason: "missing_token", "malformed_header" or "invalid_token"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by the auth guard.",
	},
	[]string{"reason"},
)

// PanicsRecoveredTotal counts recovered panics.
// Label:
//   - where: "http" or "worker"
var PanicsRecoveredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "panics_recovered_total",
		Help:      "Total number of panics recovered without stopping the process.",
	},
	[]string{"where"},
)

// ── Domain metrics ────────────────────────────────────────────────────────────

// InterviewsCreatedTotal counts newly created interviews.
// Labels:
//   - type: "technical", "behavioral" or "mixed"
//   - status: initial status, "scheduled" or "in_progress"
var InterviewsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interviews_created_total",
		Help:      "Total number of interviews created, by type and initial status.",
	},
	[]string{"type", "status"},
)

// PaymentsTotal counts payment state changes.
// Label:
//   - status: "pending", "succeeded" or "failed"
var PaymentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_total",
		Help:      "Total number of payments reaching each status.",
	},
	[]string{"status"},
)

// ── Activity pipeline metrics ─────────────────────────────────────────────────

// ActivityEventsTotal counts activity events handled by the dispatcher.
// Labels:
//   - type: activity type (e.g. "interview_completed")
//   - result: "recorded", "error" or "dropped"
var ActivityEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_events_total",
		Help:      "Total number of activity events, by type and outcome.",
	},
	[]string{"type", "result"},
)

// ActivityQueueDepth tracks events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityProcessingDuration measures how long recording one event takes.
var ActivityProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "activity_processing_duration_seconds",
		Help:      "Duration of activity event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"type"},
)
