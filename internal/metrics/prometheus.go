package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder collects run metrics in a private registry.
type Recorder struct {
	registry   *prometheus.Registry
	symbols    *prometheus.CounterVec
	rows       *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	lastRunOK  prometheus.Gauge
	lastRunEnd prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		symbols: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "indexharvest_symbols_processed_total",
				Help: "Symbols processed per phase and result",
			},
			[]string{"phase", "result"},
		),
		rows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "indexharvest_rows_written_total",
				Help: "Rows written per output table",
			},
			[]string{"table"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "indexharvest_fetch_duration_seconds",
				Help:    "Duration of provider fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		lastRunOK: factory.NewGauge(prometheus.GaugeOpts{
			Name: "indexharvest_last_run_success",
			Help: "1 if the last run completed, 0 if it aborted",
		}),
		lastRunEnd: factory.NewGauge(prometheus.GaugeOpts{
			Name: "indexharvest_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
	}
}

// RecordSymbol records one symbol outcome for a phase.
func (r *Recorder) RecordSymbol(phase, result string) {
	r.symbols.WithLabelValues(phase, result).Inc()
}

// RecordRows records rows written to a table.
func (r *Recorder) RecordRows(table string, n int) {
	r.rows.WithLabelValues(table).Add(float64(n))
}

// RecordLatency records fetch latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordRun records the end of a run.
func (r *Recorder) RecordRun(ok bool, unixSeconds float64) {
	if ok {
		r.lastRunOK.Set(1)
	} else {
		r.lastRunOK.Set(0)
	}
	r.lastRunEnd.Set(unixSeconds)
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.registry }

// WriteTextfile writes the registry in the node exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
