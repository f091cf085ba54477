// Package prom implements observability hooks with Prometheus collectors.
//
// The command line tool has no scrape endpoint; it writes the registry to a
// node_exporter textfile after each run:
//
//	reg := prometheus.NewRegistry()
//	m := prom.New(reg)
//	observability.SetPipelineHooks(m)
//	observability.SetCacheHooks(m)
//	defer prom.WriteTextfile(reg, "/var/lib/node_exporter/gitlanes.prom")
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/gitlanes/pkg/observability"
)

const namespace = "gitlanes"

// Metrics holds the collectors. It implements both hook interfaces.
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	commits       prometheus.Gauge
	lanes         prometheus.Gauge
	rows          prometheus.Gauge
	connectors    *prometheus.CounterVec
	cacheOps      *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"stage"}),
		stageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "errors_total",
			Help:      "Failed pipeline stages",
		}, []string{"stage"}),
		commits: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "commits",
			Help:      "Commits in the last loaded history",
		}),
		lanes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "lanes",
			Help:      "Lanes used by the last layout",
		}),
		rows: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "rows",
			Help:      "Rows of the last layout",
		}),
		connectors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "connectors_total",
			Help:      "Connector geometries by outcome",
		}, []string{"outcome"}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache operations by key type and result",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache",
		}, []string{"key_type"}),
	}
}

func (m *Metrics) observe(stage string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) OnLoadStart(context.Context, string) {}

func (m *Metrics) OnLoadComplete(_ context.Context, _ string, commits int, d time.Duration, err error) {
	m.observe("load", d, err)
	if err == nil {
		m.commits.Set(float64(commits))
	}
}

func (m *Metrics) OnLayoutStart(context.Context, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, lanes, rows int, d time.Duration, err error) {
	m.observe("layout", d, err)
	if err == nil {
		m.lanes.Set(float64(lanes))
		m.rows.Set(float64(rows))
	}
}

func (m *Metrics) OnConnectorsBuilt(_ context.Context, built, skipped int, d time.Duration) {
	m.observe("connectors", d, nil)
	m.connectors.WithLabelValues("built").Add(float64(built))
	m.connectors.WithLabelValues("skipped").Add(float64(skipped))
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.observe("render", d, err)
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// WriteTextfile writes every metric gathered by g to path in the text
// exposition format.
func WriteTextfile(g prometheus.Gatherer, path string) error {
	return prometheus.WriteToTextfile(path, g)
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
)
