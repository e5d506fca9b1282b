package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// scoring pipeline.
type Metrics struct {
	UploadsTotal *prometheus.CounterVec // labels: outcome={success,ingest_error,scoring_error}
	RowsIngested prometheus.Counter
	RowsDropped  prometheus.Counter
	RowsScored   prometheus.Counter

	IngestDuration  prometheus.Histogram
	ScoringDuration prometheus.Histogram

	// Kafka publishing metrics.
	ScoresPublished  prometheus.Counter
	PublishErrors    prometheus.Counter
	PublisherEnabled prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		UploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "uploads_total",
			Help:      "Workbook uploads processed, by outcome.",
		}, []string{"outcome"}),
		RowsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "rows_ingested_total",
			Help:      "Consolidated climate records produced by ingestion.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "rows_dropped_total",
			Help:      "Records dropped for unresolvable month tokens before aggregation.",
		}),
		RowsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "rows_scored_total",
			Help:      "Monthly score rows emitted by the scoring engine.",
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fire_risk",
			Name:      "ingest_duration_seconds",
			Help:      "Duration of workbook parsing and reshaping.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ScoringDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fire_risk",
			Name:      "scoring_duration_seconds",
			Help:      "Duration of aggregation, normalization, and scoring.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		ScoresPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "scores_published_total",
			Help:      "Score rows published to the scores topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "publish_errors_total",
			Help:      "Failed publishes to the scores topic.",
		}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fire_risk",
			Name:      "publisher_enabled",
			Help:      "1 when Kafka score publishing is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.UploadsTotal,
		m.RowsIngested,
		m.RowsDropped,
		m.RowsScored,
		m.IngestDuration,
		m.ScoringDuration,
		m.ScoresPublished,
		m.PublishErrors,
		m.PublisherEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		UploadsTotal:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fire_risk", Name: "uploads_total"}, []string{"outcome"}),
		RowsIngested:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_risk", Name: "rows_ingested_total"}),
		RowsDropped:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_risk", Name: "rows_dropped_total"}),
		RowsScored:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_risk", Name: "rows_scored_total"}),
		IngestDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fire_risk", Name: "ingest_duration_seconds"}),
		ScoringDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fire_risk", Name: "scoring_duration_seconds"}),
		ScoresPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_risk", Name: "scores_published_total"}),
		PublishErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_risk", Name: "publish_errors_total"}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fire_risk", Name: "publisher_enabled"}),
	}
}
