package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for harvest runs.
type Metrics struct {
	HarvestsCompleted prometheus.Counter
	HarvestFailures   prometheus.Counter
	RecordsHarvested  prometheus.Counter
	HarvestDuration   prometheus.Histogram

	// Kafka sink metrics.
	RecordsPublished prometheus.Counter
	PublishFailures  prometheus.Counter
}

// NewMetrics creates and registers all harvest metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.HarvestsCompleted,
		m.HarvestFailures,
		m.RecordsHarvested,
		m.HarvestDuration,
		m.RecordsPublished,
		m.PublishFailures,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them anywhere to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		HarvestsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "score_hv",
			Name:      "harvests_completed_total",
			Help:      "Total harvest runs that produced a dataset.",
		}),
		HarvestFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "score_hv",
			Name:      "harvest_failures_total",
			Help:      "Total harvest runs that failed during configuration or extraction.",
		}),
		RecordsHarvested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "score_hv",
			Name:      "records_harvested_total",
			Help:      "Total records flattened out of input files.",
		}),
		HarvestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "score_hv",
			Name:      "harvest_duration_seconds",
			Help:      "Duration of a complete configure-and-extract run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "score_hv",
			Name:      "records_published_total",
			Help:      "Total records written to the sink topic.",
		}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "score_hv",
			Name:      "publish_failures_total",
			Help:      "Total failed sink topic writes.",
		}),
	}
}
