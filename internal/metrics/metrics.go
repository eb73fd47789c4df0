package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ngfw_panel"

var (
	// HTTPRequests counts API requests by method, route and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "API requests by method, route and status.",
	}, []string{"method", "route", "status"})

	// RuleOperations counts repository mutations by operation and outcome.
	RuleOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rule_operations_total",
		Help:      "Firewall rule mutations by operation and outcome.",
	}, []string{"operation", "outcome"})

	// ThreatsRecorded counts threat events written to the store.
	ThreatsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "threats_recorded_total",
		Help:      "Threat events recorded, by severity.",
	}, []string{"severity"})
)
