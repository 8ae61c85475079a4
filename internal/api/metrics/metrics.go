// Package metrics defines and registers the custom Prometheus metrics of the
// catalog API. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto); HTTP request metrics come from echoprometheus.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cinefavs/catalog-api/internal/core/domain"
)

const namespace = "catalog"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "invalid", "conflict" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, labelled by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid", "rejected" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// AuthFailuresTotal counts requests rejected by the auth middleware.
// Label:
//   - reason: "missing", "expired" or "invalid"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected for a missing or bad token.",
	},
	[]string{"reason"},
)

// ── Favorites metrics ─────────────────────────────────────────────────────────

// FavoritesAddedTotal counts favorites successfully stored.
var FavoritesAddedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "favorites_added_total",
		Help:      "Total number of favorites added.",
	},
)

// FavoritesRemovedTotal counts favorites successfully removed.
var FavoritesRemovedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "favorites_removed_total",
		Help:      "Total number of favorites removed.",
	},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// MovieSearchesTotal counts catalog searches.
// Label:
//   - result: "hit" (at least one movie) or "empty"
var MovieSearchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "movie_searches_total",
		Help:      "Total number of catalog searches, labelled by whether anything matched.",
	},
	[]string{"result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsDroppedTotal counts security events the dispatcher could not
// queue.
// Label:
//   - action: the audit action prefix (e.g. "LOGIN_ATTEMPT")
var AuditEventsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of security events dropped because the audit queue was full or stopped.",
	},
	[]string{"action"},
)

// AuditDropped is the drop callback handed to the audit dispatcher. Actions
// carry a ":<detail>" suffix that is cut off to keep label cardinality fixed.
func AuditDropped(event domain.SecurityEvent) {
	action, _, _ := strings.Cut(event.Action, ":")
	AuditEventsDroppedTotal.WithLabelValues(action).Inc()
}
