package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/dhframe/pkg/widget"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "dhframe").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for rerun duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registerer is the Prometheus registerer to use.
	// Default: prometheus.DefaultRegisterer
	Registerer prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegisterer sets the Prometheus registerer.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registerer = r
	}
}

func defaultConfig() Config {
	return Config{
		Namespace:  "dhframe",
		Buckets:    prometheus.DefBuckets,
		Registerer: prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	bindings      *prometheus.CounterVec
	replaced      prometheus.Counter
	removals      prometheus.Counter
	objects       prometheus.Gauge
	flushed       prometheus.Counter
	reruns        *prometheus.CounterVec
	rerunDuration prometheus.Histogram
}

// New creates and registers the collectors. Registering twice with the same
// registerer panics, as with promauto.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registerer)

	return &Metrics{
		bindings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "bindings_total",
			Help:        "Total number of objects registered, by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		replaced: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "replaced_total",
			Help:        "Total number of registrations that overwrote an existing identifier",
			ConstLabels: config.ConstLabels,
		}),

		removals: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "removals_total",
			Help:        "Total number of objects removed from the registry",
			ConstLabels: config.ConstLabels,
		}),

		objects: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "registry_objects",
			Help:        "Number of objects currently bound",
			ConstLabels: config.ConstLabels,
		}),

		flushed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushed_total",
			Help:        "Total number of identifiers swept at rerun start",
			ConstLabels: config.ConstLabels,
		}),

		reruns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reruns_total",
			Help:        "Total number of page reruns, by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		rerunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rerun_duration_seconds",
			Help:        "Page rerun duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// OnRegister implements registry.Observer.
func (m *Metrics) OnRegister(_ string, obj any, replaced bool) {
	if m == nil {
		return
	}
	kind, err := widget.Classify(obj)
	label := "unknown"
	if err == nil {
		label = kind.Path()
	}
	m.bindings.WithLabelValues(label).Inc()
	if replaced {
		m.replaced.Inc()
		return
	}
	m.objects.Inc()
}

// OnRemove implements registry.Observer.
func (m *Metrics) OnRemove(string) {
	if m == nil {
		return
	}
	m.removals.Inc()
	m.objects.Dec()
}

// RecordFlush records identifiers swept at the start of a rerun.
func (m *Metrics) RecordFlush(count int) {
	if m == nil || count == 0 {
		return
	}
	m.flushed.Add(float64(count))
}

// RecordRerun records one page rerun.
func (m *Metrics) RecordRerun(d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.reruns.WithLabelValues(status).Inc()
	m.rerunDuration.Observe(d.Seconds())
}
