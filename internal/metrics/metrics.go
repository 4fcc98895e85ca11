// Package metrics holds Prometheus instruments shared across Landlord.
// All collectors register with the global registry, so importing this
// package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ResolvedTenants = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "landlord_resolved_tenants",
			Help: "Number of tenants in the active resolved collection.",
		})

	TenantLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "landlord_tenant_load_total",
			Help: "Cumulative number of tenant records loaded from sources.",
		})

	TenantMergeTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "landlord_tenant_merge_total",
			Help: "Cumulative number of same-name records merged across sources.",
		})

	ResourceAttachTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "landlord_resource_attach_total",
			Help: "Cumulative number of resource handles attached to tenants.",
		})

	ResourceDetachErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "landlord_resource_detach_errors_total",
			Help: "Cumulative number of finalizer failures during detach.",
		})

	InvalidTenantTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "landlord_invalid_tenant_requests_total",
			Help: "Cumulative number of requests rejected for an unknown tenant key.",
		})
)

func init() {
	prometheus.MustRegister(
		ResolvedTenants,
		TenantLoadTotal,
		TenantMergeTotal,
		ResourceAttachTotal,
		ResourceDetachErrors,
		InvalidTenantTotal,
	)
}
