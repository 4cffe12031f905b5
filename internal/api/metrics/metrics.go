// Package metrics defines the custom Prometheus metrics of the dealership
// app. They are registered with the default registry on import and exposed
// on /metrics next to the echoprometheus HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dealership"

// ── Account metrics ───────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AccountsRegisteredTotal counts successful registrations.
var AccountsRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_registered_total",
		Help:      "Total number of accounts registered.",
	},
)

// BulkUpdateRowsTotal counts rows processed by the admin bulk update.
// Label:
//   - result: "updated", "unchanged", "invalid" or "failed"
var BulkUpdateRowsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bulk_update_rows_total",
		Help:      "Total number of admin bulk update rows, by result.",
	},
	[]string{"result"},
)

// AuthGateRejectionsTotal counts requests turned away by the auth gate.
// Label:
//   - reason: "invalid_token", "login_required" or "insufficient_role"
var AuthGateRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_gate_rejections_total",
		Help:      "Total number of requests rejected by the auth gate, by reason.",
	},
	[]string{"reason"},
)

// ── Inventory metrics ─────────────────────────────────────────────────────────

// InventoryChangesTotal counts inventory writes.
// Label:
//   - action: "add_classification", "add_vehicle", "update_vehicle" or "delete_vehicle"
var InventoryChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_changes_total",
		Help:      "Total number of inventory changes, by action.",
	},
	[]string{"action"},
)
