// Package observability defines the Prometheus collectors exported by the
// burrow gateway.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// InboundTotal counts every inbound connection by its terminal
	// dispatch outcome: admin, proxied, upgraded, tenant_not_found,
	// bad_request.
	InboundTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_inbound_total",
			Help: "Total inbound connections handled by the gateway, labeled by dispatch outcome.",
		},
		[]string{"outcome"},
	)

	// AdminErrorsTotal counts errors surfaced through the Admin Surface
	// error boundary, labeled by machine-readable error code. This is the
	// boundary's side-channel observability event.
	AdminErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_admin_errors_total",
			Help: "Total errors translated by the admin error boundary, labeled by error code.",
		},
		[]string{"code"},
	)

	// UpgradesTotal counts dispatched protocol upgrades, labeled by the
	// negotiated protocol family: websocket or other.
	UpgradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_upgrades_total",
			Help: "Total protocol-upgrade connections dispatched to tenant sessions, labeled by protocol.",
		},
		[]string{"protocol"},
	)

	// ActiveTenants tracks the number of live tenant sessions.
	ActiveTenants = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "burrow_active_tenants",
			Help: "Number of tenant sessions currently registered.",
		},
	)

	// ProvisionsTotal counts provisioning calls by result (ok, conflict).
	ProvisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_provisions_total",
			Help: "Total tenant provisioning attempts, labeled by result.",
		},
		[]string{"result"},
	)
)

// MustRegister registers the collectors above with the default Prometheus
// registry. Call once at server startup.
func MustRegister() {
	prometheus.MustRegister(
		InboundTotal,
		AdminErrorsTotal,
		UpgradesTotal,
		ActiveTenants,
		ProvisionsTotal,
	)
}
