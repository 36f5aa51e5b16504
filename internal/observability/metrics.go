package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the merge
// pipeline.
type Metrics struct {
	FilesParsed     prometheus.Counter
	FilesSkipped    prometheus.Counter
	RowsMerged      prometheus.Counter
	PipelineRunning prometheus.Gauge

	ParseDuration  prometheus.Histogram
	ExportDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FilesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "era5_merge",
			Name:      "files_parsed_total",
			Help:      "Input files parsed into variable tables.",
		}),
		FilesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "era5_merge",
			Name:      "files_skipped_total",
			Help:      "Input files skipped due to parse failures.",
		}),
		RowsMerged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "era5_merge",
			Name:      "rows_merged_total",
			Help:      "Rows in the assembled wide table.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "era5_merge",
			Name:      "pipeline_running",
			Help:      "1 while a merge run is active, 0 otherwise.",
		}),
		ParseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "era5_merge",
			Name:      "parse_duration_seconds",
			Help:      "Duration of parsing a single input file.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		ExportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "era5_merge",
			Name:      "export_duration_seconds",
			Help:      "Duration of writing the spreadsheet artifact.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
	}

	prometheus.MustRegister(
		m.FilesParsed,
		m.FilesSkipped,
		m.RowsMerged,
		m.PipelineRunning,
		m.ParseDuration,
		m.ExportDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FilesParsed:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "era5_merge", Name: "files_parsed_total"}),
		FilesSkipped:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "era5_merge", Name: "files_skipped_total"}),
		RowsMerged:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "era5_merge", Name: "rows_merged_total"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "era5_merge", Name: "pipeline_running"}),
		ParseDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "era5_merge", Name: "parse_duration_seconds"}),
		ExportDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "era5_merge", Name: "export_duration_seconds"}),
	}
}
