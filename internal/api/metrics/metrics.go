// Package metrics defines and registers the custom Prometheus metrics for
// the RoadMaster project API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default registry at package init; the router
// exposes them on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "roadmaster"

// UsersCreatedTotal counts created users.
// Label:
//   - source: "direct" (POST /users) or "approval" (registration approval)
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created, by creation source.",
	},
	[]string{"source"},
)

// RegistrationsSubmittedTotal counts signup requests accepted into the
// pending set.
var RegistrationsSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_submitted_total",
		Help:      "Total number of pending registrations submitted.",
	},
)

// RegistrationsResolvedTotal counts registrations leaving the pending set.
// Label:
//   - outcome: "approved" or "deleted"
var RegistrationsResolvedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_resolved_total",
		Help:      "Total number of pending registrations resolved, by outcome.",
	},
	[]string{"outcome"},
)

// ProjectWritesTotal counts mutations of the project aggregate.
// Label:
//   - op: "create", "update", or "delete"
var ProjectWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "project_writes_total",
		Help:      "Total number of project aggregate writes, by operation.",
	},
	[]string{"op"},
)
