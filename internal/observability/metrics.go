package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_analysis"

// Metrics holds the Prometheus counters, histograms, and gauges for one pipeline run.
// They live in a private registry so a run exports only its own series.
type Metrics struct {
	Registry *prometheus.Registry

	RowsLoaded   prometheus.Counter
	RowsDropped  prometheus.Counter
	CellsFilled  *prometheus.CounterVec // labels: method={interpolated,mean}
	ColumnsEmpty prometheus.Counter

	ChartsRendered     *prometheus.CounterVec // labels: chart
	ChartsSkipped      *prometheus.CounterVec // labels: chart
	SummariesPublished prometheus.Counter

	StageDuration *prometheus.HistogramVec // labels: stage
	LastSuccess   prometheus.Gauge
}

// NewMetrics creates all pipeline metrics and registers them with a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_loaded_total",
			Help:      "Rows read from the raw observations CSV.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Rows dropped because their date could not be parsed.",
		}),
		CellsFilled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cells_filled_total",
			Help:      "Numeric cells filled during cleaning, by method.",
		}, []string{"method"}),
		ColumnsEmpty: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "columns_empty_total",
			Help:      "Numeric columns left without any value after cleaning.",
		}),
		ChartsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_rendered_total",
			Help:      "Chart images written, by chart.",
		}, []string{"chart"}),
		ChartsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_skipped_total",
			Help:      "Charts skipped because a configured column was missing.",
		}, []string{"chart"}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_published_total",
			Help:      "Monthly summaries written to the sink topic.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"stage"}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the pipeline last completed successfully.",
		}),
	}

	m.Registry.MustRegister(
		m.RowsLoaded,
		m.RowsDropped,
		m.CellsFilled,
		m.ColumnsEmpty,
		m.ChartsRendered,
		m.ChartsSkipped,
		m.SummariesPublished,
		m.StageDuration,
		m.LastSuccess,
	)

	return m
}
