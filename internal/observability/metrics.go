package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// warehouse ETL pipeline.
type Metrics struct {
	RunsTotal       *prometheus.CounterVec // labels: outcome={success,no_data,error}
	RunDuration     prometheus.Histogram
	PipelineRunning prometheus.Gauge

	CitiesLoaded  prometheus.Gauge
	FetchRequests *prometheus.CounterVec // labels: outcome={success,error}
	FetchDuration prometheus.Histogram

	RowsWritten *prometheus.CounterVec // labels: table={dim_city,fact_weather}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dw",
			Name:      "runs_total",
			Help:      "Completed pipeline runs by outcome.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_dw",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete load-fetch-correlate-write run.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_dw",
			Name:      "pipeline_running",
			Help:      "1 while a pipeline run is in flight, 0 otherwise.",
		}),
		CitiesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_dw",
			Name:      "cities_loaded",
			Help:      "Reference cities loaded (post-dedup) in the last run.",
		}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dw",
			Name:      "fetch_requests_total",
			Help:      "Weather API requests by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_dw",
			Name:      "fetch_duration_seconds",
			Help:      "Weather API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dw",
			Name:      "rows_written_total",
			Help:      "Warehouse rows written by table.",
		}, []string{"table"}),
	}

	prometheus.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.PipelineRunning,
		m.CitiesLoaded,
		m.FetchRequests,
		m.FetchDuration,
		m.RowsWritten,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RunsTotal:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_dw", Name: "runs_total"}, []string{"outcome"}),
		RunDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_dw", Name: "run_duration_seconds"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weather_dw", Name: "pipeline_running"}),
		CitiesLoaded:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weather_dw", Name: "cities_loaded"}),
		FetchRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_dw", Name: "fetch_requests_total"}, []string{"outcome"}),
		FetchDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_dw", Name: "fetch_duration_seconds"}),
		RowsWritten:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_dw", Name: "rows_written_total"}, []string{"table"}),
	}
}
