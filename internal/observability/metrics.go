package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// drought monitor service.
type Metrics struct {
	SnapshotQueries  *prometheus.CounterVec // labels: region, outcome={ok,error}
	SnapshotDuration prometheus.Histogram
	PointCloudSize   prometheus.Histogram
	EntityFallbacks  prometheus.Counter

	// Dataset metrics, set once after loading.
	DatasetTimeSteps prometheus.Gauge
	DatasetGridCells prometheus.Gauge

	// Alert publishing metrics.
	AlertsPublished prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SnapshotQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "drought_monitor",
			Name:      "snapshot_queries_total",
			Help:      "Snapshot queries by region and outcome.",
		}, []string{"region", "outcome"}),
		SnapshotDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "drought_monitor",
			Name:      "snapshot_duration_seconds",
			Help:      "Duration of a complete snapshot computation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		PointCloudSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "drought_monitor",
			Name:      "point_cloud_size",
			Help:      "Number of valid points per rendered point cloud.",
			Buckets:   []float64{100, 1000, 5000, 10000, 50000, 100000, 250000},
		}),
		EntityFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "drought_monitor",
			Name:      "entity_fallbacks_total",
			Help:      "Entities categorized via the regional mean fallback (no centroid or no sampled values).",
		}),
		DatasetTimeSteps: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "drought_monitor",
			Name:      "dataset_time_steps",
			Help:      "Number of monthly layers in the loaded dataset.",
		}),
		DatasetGridCells: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "drought_monitor",
			Name:      "dataset_grid_cells",
			Help:      "Number of lat x lon cells per layer in the loaded dataset.",
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "drought_monitor",
			Name:      "alerts_published_total",
			Help:      "Drought alerts published to the alert topic.",
		}),
	}

	prometheus.MustRegister(
		m.SnapshotQueries,
		m.SnapshotDuration,
		m.PointCloudSize,
		m.EntityFallbacks,
		m.DatasetTimeSteps,
		m.DatasetGridCells,
		m.AlertsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SnapshotQueries:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "drought_monitor", Name: "snapshot_queries_total"}, []string{"region", "outcome"}),
		SnapshotDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "drought_monitor", Name: "snapshot_duration_seconds"}),
		PointCloudSize:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "drought_monitor", Name: "point_cloud_size"}),
		EntityFallbacks:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "drought_monitor", Name: "entity_fallbacks_total"}),
		DatasetTimeSteps: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "drought_monitor", Name: "dataset_time_steps"}),
		DatasetGridCells: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "drought_monitor", Name: "dataset_grid_cells"}),
		AlertsPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "drought_monitor", Name: "alerts_published_total"}),
	}
}
