// Package metrics defines and registers all custom Prometheus metrics for
// the OTP service. It is the single source of truth for metric names,
// labels, and help strings. Metrics self-register with the default registry
// via promauto on first import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "otp"

// CodesGeneratedTotal counts successfully issued codes.
// Label:
//   - operation: the operation tag the code authorizes (e.g. "withdraw")
var CodesGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "codes_generated_total",
		Help:      "Total number of one-time codes issued, by operation tag.",
	},
	[]string{"operation"},
)

// CodesValidatedTotal counts validation outcomes.
// Label:
//   - result: "ok", "rejected" (invalid/expired/used, indistinguishable by
//     design) or "operation_mismatch"
var CodesValidatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "codes_validated_total",
		Help:      "Total number of validation attempts, by result.",
	},
	[]string{"result"},
)

// GenerationRetriesTotal counts value collisions that forced regeneration.
// A non-trivial rate means the configured code space is too small.
var GenerationRetriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_retries_total",
		Help:      "Total number of code regenerations caused by value collisions.",
	},
)

// UsersRegisteredTotal counts completed registrations.
// Label:
//   - role: "admin" or "user"
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of users registered, by role.",
	},
	[]string{"role"},
)

// AuditQueueDepth tracks the number of audit events waiting in each worker
// channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
