package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flooring_orders_added_total",
		Help: "Total number of orders added",
	})

	OrdersEditedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flooring_orders_edited_total",
		Help: "Total number of orders edited",
	})

	OrdersRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flooring_orders_removed_total",
		Help: "Total number of orders removed",
	})

	ExportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flooring_exports_total",
		Help: "Total number of data exports",
	})

	OrdersRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flooring_orders_rejected_total",
		Help: "Total number of order operations rejected by validation",
	}, []string{"reason"})

	PersistenceFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flooring_persistence_failures_total",
		Help: "Total number of failed storage operations",
	}, []string{"op"})

	OrderOperationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flooring_order_operation_latency_seconds",
		Help:    "Latency of order workflow operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
)

// WriteMetricsTextfile writes the default registry in the text exposition
// format, for pickup by a node exporter textfile collector.
func WriteMetricsTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
