package render

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsOption customizes NewMetrics.
type MetricsOption func(*metricsConfig)

type metricsConfig struct {
	namespace string
	registry  prometheus.Registerer
}

// WithNamespace replaces the "hyper" prefix of the metric names.
func WithNamespace(namespace string) MetricsOption {
	return func(c *metricsConfig) { c.namespace = namespace }
}

// WithRegistry registers the collectors with r instead of the default registerer.
func WithRegistry(r prometheus.Registerer) MetricsOption {
	return func(c *metricsConfig) { c.registry = r }
}

// renderBuckets span renders from 10µs to about 0.65s.
var renderBuckets = prometheus.ExponentialBuckets(0.00001, 4, 9)

// Metrics holds the Prometheus collectors updated by an Engine.
//
// Metrics collected:
//   - hyper_render_templates_parsed_total: Counter of parsed templates by mode (html, svg)
//   - hyper_render_renders_total: Counter of Bind renders by path (replace, update)
//   - hyper_render_render_duration_seconds: Histogram of Bind render duration
//   - hyper_render_diff_operations_total: Counter of list diff DOM operations by op
//   - hyper_render_keyed_entries: Gauge of live keyed registry entries
type Metrics struct {
	templatesParsed *prometheus.CounterVec
	renders         *prometheus.CounterVec
	renderDuration  prometheus.Histogram
	diffOps         *prometheus.CounterVec
	keyedEntries    prometheus.Gauge
}

// NewMetrics registers the render metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := metricsConfig{namespace: "hyper", registry: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.registry)

	return &Metrics{
		templatesParsed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.namespace,
			Subsystem: "render",
			Name:      "templates_parsed_total",
			Help:      "Total number of parsed templates",
		}, []string{"mode"}),

		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.namespace,
			Subsystem: "render",
			Name:      "renders_total",
			Help:      "Total number of renders into bound containers",
		}, []string{"path"}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: config.namespace,
			Subsystem: "render",
			Name:      "render_duration_seconds",
			Help:      "Render duration in seconds",
			Buckets:   renderBuckets,
		}),

		diffOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.namespace,
			Subsystem: "render",
			Name:      "diff_operations_total",
			Help:      "Total number of DOM operations performed by list diffs",
		}, []string{"op"}),

		keyedEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: config.namespace,
			Subsystem: "render",
			Name:      "keyed_entries",
			Help:      "Number of live keyed list entries",
		}),
	}
}

func (m *Metrics) parsed(xml bool) {
	if m == nil {
		return
	}
	mode := "html"
	if xml {
		mode = "svg"
	}
	m.templatesParsed.WithLabelValues(mode).Inc()
}

func (m *Metrics) rendered(path string, seconds float64) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(path).Inc()
	m.renderDuration.Observe(seconds)
}

func (m *Metrics) diffOp(op diffOp) {
	if m == nil {
		return
	}
	switch op {
	case opInsert:
		m.diffOps.WithLabelValues("insert").Inc()
	case opRemove:
		m.diffOps.WithLabelValues("remove").Inc()
	}
}

func (m *Metrics) keyed(delta int) {
	if m == nil {
		return
	}
	m.keyedEntries.Add(float64(delta))
}
