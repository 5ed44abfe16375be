package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// QuotesComputed counts totals computations by outcome (ok, cache_hit, or a
// pricing error code).
var QuotesComputed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tablescape",
	Subsystem: "pricing",
	Name:      "quotes_computed_total",
	Help:      "Number of order totals computations, by outcome.",
}, []string{"outcome"})

// ComputeDuration observes how long a totals computation takes end to end,
// including normalization.
var ComputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "tablescape",
	Subsystem: "pricing",
	Name:      "compute_duration_seconds",
	Help:      "Latency of order totals computations.",
	Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
})

// OrdersCreated counts persisted orders.
var OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "tablescape",
	Subsystem: "orders",
	Name:      "created_total",
	Help:      "Number of orders created.",
})

// DeliveryIneligible counts delivery resolutions that came back ineligible,
// by reason.
var DeliveryIneligible = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tablescape",
	Subsystem: "pricing",
	Name:      "delivery_ineligible_total",
	Help:      "Delivery fee resolutions rejected, by reason.",
}, []string{"reason"})
