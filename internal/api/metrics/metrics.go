// Package metrics defines and registers all custom Prometheus metrics for
// the clinic API. It is the single source of truth for metric names, labels,
// and help strings. Metrics self-register with the default registry via
// promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome ("success", "failure").
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// GuardRedirectsTotal counts route-guard redirects.
// Label:
//   - target: "login", "clinic_home", or "admin_home"
var GuardRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of page requests redirected by the route guard.",
	},
	[]string{"target"},
)

// ── Messaging metrics ─────────────────────────────────────────────────────────

// MessagesSentTotal counts delivered outbound messages.
// Labels:
//   - channel: "whatsapp" or "viber"
//   - kind: "confirmation", "reminder", or "magic_link"
var MessagesSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total number of outbound messages delivered, by channel and kind.",
	},
	[]string{"channel", "kind"},
)

// MessagesErrorsTotal counts failed deliveries by channel.
var MessagesErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_errors_total",
		Help:      "Total number of outbound messages that failed delivery.",
	},
	[]string{"channel"},
)

// MessageQueueDepth tracks the current number of messages waiting in each
// dispatcher worker channel.
var MessageQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "message_queue_depth",
		Help:      "Current number of messages pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Appointment metrics ───────────────────────────────────────────────────────

// AppointmentsCreatedTotal counts new bookings per clinic.
var AppointmentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_created_total",
		Help:      "Total number of appointments created, by clinic.",
	},
	[]string{"clinic_id"},
)
