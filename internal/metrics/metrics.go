// Package metrics provides Prometheus metrics for the battery daemon.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cptspacemanspiff/abat/internal/collector"
)

const namespace = "abat"

// ChargePercent is the last observed charge, CurrentCapacity/MaxCapacity.
var ChargePercent = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "battery_charge_percent",
	Help:      "Battery charge in percent of the maximum capacity.",
})

// HealthPercent is the last observed health, MaxCapacity/DesignCapacity.
var HealthPercent = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "battery_health_percent",
	Help:      "Battery maximum capacity in percent of the design capacity.",
})

// Capacity holds the three raw capacities, labeled current, max and design.
var Capacity = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "battery_capacity_mah",
	Help:      "Battery capacity as reported by ioreg.",
}, []string{"kind"})

var CollectDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "collect_duration_seconds",
	Help:      "Time taken to run ioreg and parse its output.",
	Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
})

// CollectErrors counts failed collections by collector.Classify code.
var CollectErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "collect_errors_total",
	Help:      "Failed battery collections by error code.",
}, []string{"code"})

var SamplesDeleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "samples_deleted_total",
	Help:      "Samples removed by retention cleanup.",
})

// ObserveSample updates the battery gauges from s.
func ObserveSample(s *collector.BatterySample) {
	ChargePercent.Set(float64(s.ChargePct))
	HealthPercent.Set(float64(s.HealthPct))
	Capacity.WithLabelValues("current").Set(float64(s.CurrentCapacity))
	Capacity.WithLabelValues("max").Set(float64(s.MaxCapacity))
	Capacity.WithLabelValues("design").Set(float64(s.DesignCapacity))
}

// ObserveCollect records one collection attempt.
func ObserveCollect(elapsed time.Duration, err error) {
	CollectDuration.Observe(elapsed.Seconds())
	if err != nil {
		CollectErrors.WithLabelValues(collector.Classify(err)).Inc()
	}
}
