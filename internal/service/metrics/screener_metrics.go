package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	EndpointLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "equiscreen",
			Subsystem: "screener",
			Name:      "latency_seconds",
			Help:      "Latency of screener endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	EndpointErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "equiscreen",
			Subsystem: "screener",
			Name:      "errors_total",
			Help:      "Errors by screener endpoint",
		},
		[]string{"endpoint"},
	)

	FilterRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "equiscreen",
			Subsystem: "screener",
			Name:      "filter_runs_total",
			Help:      "Completed filter pipeline runs",
		},
	)

	SymbolsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "equiscreen",
			Subsystem: "screener",
			Name:      "symbols_processed_total",
			Help:      "Symbols handled by the filter pipeline",
		},
		[]string{"outcome"}, // passed | rejected | skipped
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(EndpointLatency, EndpointErrors, FilterRuns, SymbolsProcessed)
	})
}
