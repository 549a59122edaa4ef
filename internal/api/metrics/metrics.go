// Package metrics defines the custom Prometheus metrics of the storefront API.
// It is the single source of truth for metric names, labels, and help strings.
//
// Call Register once at startup with the registry served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled", "error"
var LoginAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "duplicate", "invalid", "error"
var RegistrationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// GuardRejectionsTotal counts requests stopped by the access guard.
// Label:
//   - reason: "missing_token", "invalid_header", "expired", "malformed", "forbidden"
var GuardRejectionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_rejections_total",
		Help:      "Total number of requests rejected by the access guard, by reason.",
	},
	[]string{"reason"},
)

// ── Admin metrics ─────────────────────────────────────────────────────────────

// AdminActionsTotal counts successful admin mutations.
// Labels:
//   - resource: "user" or "product"
//   - action: "create", "update", "delete"
var AdminActionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_actions_total",
		Help:      "Total number of admin mutations, by resource and action.",
	},
	[]string{"resource", "action"},
)

// Register adds every custom collector to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		LoginAttemptsTotal,
		RegistrationsTotal,
		GuardRejectionsTotal,
		AdminActionsTotal,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
