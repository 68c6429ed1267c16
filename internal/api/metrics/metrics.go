// Package metrics defines and registers all custom Prometheus metrics for the
// MinuteHire auth gateway. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "minutehire"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthOperationsTotal counts auth operations by outcome.
// Labels:
//   - operation: "login", "signup", "demo_login", "verify_otp", "oauth_callback", ...
//   - result: "success", "failure", "verification_required", "warning"
var AuthOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_operations_total",
		Help:      "Total number of auth operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// DemoLoginsTotal counts demo sessions created.
// Label:
//   - role: the demo role
var DemoLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "demo_logins_total",
		Help:      "Total number of demo sessions created, by role.",
	},
	[]string{"role"},
)

// SessionHydrationsTotal counts session initialisations.
// Label:
//   - result: "authenticated", "anonymous", "expired"
var SessionHydrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_hydrations_total",
		Help:      "Total number of session hydrations, by resulting state.",
	},
	[]string{"result"},
)

// DashboardResolutionsTotal counts recruiter dashboard get-or-create outcomes.
// Label:
//   - result: "found", "created", "conflict", "error"
var DashboardResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dashboard_resolutions_total",
		Help:      "Total number of recruiter dashboard get-or-create calls, by result.",
	},
	[]string{"result"},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestDuration measures calls to the MinuteHire backend.
// Labels:
//   - endpoint: logical endpoint name (e.g. "user_login")
//   - code: HTTP status code, or "error" on transport failure
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests to the MinuteHire backend.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"endpoint", "code"},
)

// ── Payment metrics ───────────────────────────────────────────────────────────

// PaymentWebhooksTotal counts payment webhook outcomes.
// Label:
//   - result: "completed", "pending", "failed", "duplicate", "amount_mismatch", "error"
var PaymentWebhooksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_webhooks_total",
		Help:      "Total number of payment webhooks handled, by result.",
	},
	[]string{"result"},
)
