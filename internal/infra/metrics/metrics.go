// Package metrics provides Prometheus metrics for FitCoach: gate decisions,
// webhook transport, and the reward ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Gate ───────────────────────────────────────────────────────────────────

// MessagesSent tracks messages that passed the gate and were dispatched.
var MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "fitcoach",
	Name:      "messages_sent_total",
	Help:      "Total messages dispatched to the coach webhook.",
})

// MessagesRejected tracks gate rejections by reason.
var MessagesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fitcoach",
	Name:      "messages_rejected_total",
	Help:      "Total messages rejected by the gate.",
}, []string{"reason"})

// ─── Webhook transport ──────────────────────────────────────────────────────

// WebhookLatency tracks webhook round-trip duration in seconds.
var WebhookLatency = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "fitcoach",
	Name:      "webhook_latency_seconds",
	Help:      "Coach webhook round-trip duration in seconds.",
	Buckets:   prometheus.DefBuckets,
})

// WebhookFailures tracks failed webhook calls by status code.
var WebhookFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fitcoach",
	Name:      "webhook_failures_total",
	Help:      "Total failed coach webhook calls.",
}, []string{"status"})

// ─── Reward ledger ──────────────────────────────────────────────────────────

// BadgeUnlocks tracks badge unlocks by badge id.
var BadgeUnlocks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fitcoach",
	Name:      "badge_unlocks_total",
	Help:      "Total badges unlocked.",
}, []string{"badge"})

// StreakDays tracks the current streak length.
var StreakDays = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "fitcoach",
	Name:      "streak_days",
	Help:      "Current consecutive-day activity streak.",
})

// Level tracks the current level.
var Level = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "fitcoach",
	Name:      "level",
	Help:      "Current level derived from total XP.",
})

// TotalXP tracks the cumulative XP balance.
var TotalXP = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "fitcoach",
	Name:      "xp_total",
	Help:      "Cumulative XP balance.",
})

// ─── Health ─────────────────────────────────────────────────────────────────

// HealthCheckStatus tracks health check results (1=healthy, 0=unhealthy).
var HealthCheckStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "fitcoach",
	Name:      "health_check_status",
	Help:      "Health check result per component (1=healthy, 0=unhealthy).",
}, []string{"check"})
