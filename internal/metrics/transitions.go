package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// transitionsTotal counts status transition attempts by entity kind and result.
	// Labels:
	// - entity: "invoice" or "order"
	// - result: success | forbidden | invalid | conflict | error
	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solution",
			Subsystem: "status",
			Name:      "transitions_total",
			Help:      "Status transition attempts by entity kind and result.",
		},
		[]string{"entity", "result"},
	)
)

// IncTransition increments the transition counter for the given entity kind and result.
func IncTransition(entity, result string) {
	if entity == "" {
		entity = "unknown"
	}
	if result == "" {
		result = "unknown"
	}
	transitionsTotal.WithLabelValues(entity, result).Inc()
}
