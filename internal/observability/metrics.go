package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "uk_accidents"

// PipelineMetrics holds the gauges and counters for one preprocessor run.
type PipelineMetrics struct {
	StageRows   *prometheus.GaugeVec   // labels: stage={accidents,vehicles,joined,with_vehicle,with_location,dated,extract}
	DroppedRows *prometheus.CounterVec // labels: reason={missing_vehicle,missing_location,invalid_date,other_year}
	LatestYear  prometheus.Gauge
	LastSuccess prometheus.Gauge
	Duration    prometheus.Gauge
}

// NewPipelineMetrics creates pipeline metrics and registers them with reg.
// The preprocessor passes a private registry so the set can be pushed as one job.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		StageRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "preprocess",
			Name:      "stage_rows",
			Help:      "Rows present after each preprocessing stage.",
		}, []string{"stage"}),
		DroppedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "preprocess",
			Name:      "dropped_rows_total",
			Help:      "Rows removed by preprocessing, by reason.",
		}, []string{"reason"}),
		LatestYear: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "preprocess",
			Name:      "latest_year",
			Help:      "Year selected for the most recent extract.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "preprocess",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful preprocessor run.",
		}),
		Duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "preprocess",
			Name:      "duration_seconds",
			Help:      "Wall time of the last preprocessor run.",
		}),
	}

	reg.MustRegister(
		m.StageRows,
		m.DroppedRows,
		m.LatestYear,
		m.LastSuccess,
		m.Duration,
	)

	return m
}

// NewPipelineMetricsForTesting creates PipelineMetrics on a fresh registry to
// avoid "already registered" panics when called from multiple tests.
func NewPipelineMetricsForTesting() *PipelineMetrics {
	return NewPipelineMetrics(prometheus.NewRegistry())
}

// DashboardMetrics holds the metrics exposed by the dashboard at /metrics.
type DashboardMetrics struct {
	RowsLoaded      prometheus.Gauge
	RowsBadTime     prometheus.Gauge
	MapPoints       prometheus.Gauge
	PageBuilds      prometheus.Counter
	PageBuildErrors prometheus.Counter
	PageBuildTime   prometheus.Histogram
}

// NewDashboardMetrics creates dashboard metrics and registers them with the
// default Prometheus registry.
func NewDashboardMetrics() *DashboardMetrics {
	m := newDashboardMetrics()
	prometheus.MustRegister(
		m.RowsLoaded,
		m.RowsBadTime,
		m.MapPoints,
		m.PageBuilds,
		m.PageBuildErrors,
		m.PageBuildTime,
	)
	return m
}

// NewDashboardMetricsForTesting creates unregistered DashboardMetrics.
func NewDashboardMetricsForTesting() *DashboardMetrics {
	return newDashboardMetrics()
}

func newDashboardMetrics() *DashboardMetrics {
	return &DashboardMetrics{
		RowsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "rows_loaded",
			Help:      "Rows read from the extract for the current page.",
		}),
		RowsBadTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "rows_invalid_time",
			Help:      "Rows excluded from hourly views because Time did not parse.",
		}),
		MapPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "map_points",
			Help:      "Points plotted on the hotspot map.",
		}),
		PageBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "page_builds_total",
			Help:      "Total dashboard page builds.",
		}),
		PageBuildErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "page_build_errors_total",
			Help:      "Total failed dashboard page builds.",
		}),
		PageBuildTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "page_build_duration_seconds",
			Help:      "Duration of a dashboard page build from extract to HTML.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}
