package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// data integration pipeline.
type Metrics struct {
	RecordsCombined   prometheus.Counter
	RowsFilteredOut   prometheus.Counter
	SegmentsComputed  *prometheus.CounterVec // label: method={haversine,geodesic}
	GeodesicFallbacks prometheus.Counter
	PlotsRequested    *prometheus.CounterVec // label: kind={map,profile}
	PipelineRunning   prometheus.Gauge

	StageDuration *prometheus.HistogramVec // label: stage={load,combine,filter,distances,build,render}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsCombined,
		m.RowsFilteredOut,
		m.SegmentsComputed,
		m.GeodesicFallbacks,
		m.PlotsRequested,
		m.PipelineRunning,
		m.StageDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsCombined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hydra",
			Name:      "records_combined_total",
			Help:      "Total station records merged into combined tables.",
		}),
		RowsFilteredOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hydra",
			Name:      "rows_filtered_out_total",
			Help:      "Total rows excluded by threshold filters.",
		}),
		SegmentsComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hydra",
			Name:      "distance_segments_total",
			Help:      "Distance segments computed, by geodetic method.",
		}, []string{"method"}),
		GeodesicFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hydra",
			Name:      "geodesic_fallbacks_total",
			Help:      "Segments where the geodesic iteration did not converge and the spherical fallback was used.",
		}),
		PlotsRequested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hydra",
			Name:      "plots_requested_total",
			Help:      "Plot requests built, by plot kind.",
		}, []string{"kind"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hydra",
			Name:      "pipeline_running",
			Help:      "1 while a pipeline invocation is active.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hydra",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"stage"}),
	}
}
