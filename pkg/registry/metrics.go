package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metricsConfig holds the Prometheus wiring options.
type metricsConfig struct {
	namespace   string
	subsystem   string
	constLabels prometheus.Labels
	registerer  prometheus.Registerer
}

// MetricsOption configures NewMetrics.
type MetricsOption func(*metricsConfig)

// WithNamespace sets the metrics namespace (default: "loom").
func WithNamespace(namespace string) MetricsOption {
	return func(c *metricsConfig) {
		c.namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem (default: "registry").
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *metricsConfig) {
		c.subsystem = subsystem
	}
}

// WithConstLabels sets constant labels added to all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *metricsConfig) {
		c.constLabels = labels
	}
}

// WithRegisterer sets the Prometheus registerer
// (default: prometheus.DefaultRegisterer).
func WithRegisterer(reg prometheus.Registerer) MetricsOption {
	return func(c *metricsConfig) {
		c.registerer = reg
	}
}

// Metrics records registry activity in Prometheus counters:
//
//	<ns>_registry_tracks_total{level}    track calls that registered
//	<ns>_registry_triggers_total{level}  trigger calls
//	<ns>_registry_dependencies{level}    live dependency count
//
// A nil *Metrics is valid and records nothing, so the registry never
// branches on whether metrics are configured.
type Metrics struct {
	tracks   *prometheus.CounterVec
	triggers *prometheus.CounterVec
	deps     *prometheus.GaugeVec
}

// NewMetrics creates and registers the registry metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := metricsConfig{
		namespace:  "loom",
		subsystem:  "registry",
		registerer: prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.registerer)
	return &Metrics{
		tracks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "tracks_total",
			Help:        "Track operations that registered an observer, by selector level.",
			ConstLabels: cfg.constLabels,
		}, []string{"level"}),
		triggers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "triggers_total",
			Help:        "Trigger operations, by selector level.",
			ConstLabels: cfg.constLabels,
		}, []string{"level"}),
		deps: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "dependencies",
			Help:        "Live dependencies held by the registry, by selector level.",
			ConstLabels: cfg.constLabels,
		}, []string{"level"}),
	}
}

func (m *Metrics) trackInc(level string) {
	if m == nil {
		return
	}
	m.tracks.WithLabelValues(level).Inc()
}

func (m *Metrics) triggerInc(level string) {
	if m == nil {
		return
	}
	m.triggers.WithLabelValues(level).Inc()
}

func (m *Metrics) depInc(level string) {
	if m == nil {
		return
	}
	m.deps.WithLabelValues(level).Inc()
}

func (m *Metrics) depDec(level string, n int) {
	if m == nil {
		return
	}
	m.deps.WithLabelValues(level).Sub(float64(n))
}

func (m *Metrics) depReset() {
	if m == nil {
		return
	}
	m.deps.Reset()
}
