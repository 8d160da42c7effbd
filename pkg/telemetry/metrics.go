package telemetry

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/maproute/pkg/navigation"
	"github.com/vango-dev/maproute/pkg/router"
)

// MetricsConfig configures the Prometheus exporter.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "maproute").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for apply duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus exporter.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "maproute",
		// Route applications are in-memory work; most take microseconds.
		Buckets:  prometheus.ExponentialBuckets(0.00001, 4, 10),
		Registry: prometheus.DefaultRegisterer,
	}
}

// Metrics is a navigation.Observer recording Prometheus metrics.
type Metrics struct {
	applications    *prometheus.CounterVec
	applyDuration   *prometheus.HistogramVec
	queryFailures   *prometheus.CounterVec
	bagReplacements *prometheus.CounterVec
	failures        *prometheus.CounterVec
	historyWrites   *prometheus.CounterVec
}

var _ navigation.Observer = (*Metrics)(nil)

// NewMetrics registers the navigation metrics. It panics if they are already
// registered with the registry.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		applications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "route_applications_total",
			Help:        "Total number of route applications",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "reason"}),

		applyDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "route_apply_duration_seconds",
			Help:        "Route application duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		queryFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "query_decode_failures_total",
			Help:        "Total number of route applications whose query failed to decode",
			ConstLabels: config.ConstLabels,
		}, []string{"route"}),

		bagReplacements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "bag_replacements_total",
			Help:        "Total number of parameter or query cell bags replaced",
			ConstLabels: config.ConstLabels,
		}, []string{"bag"}),

		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_failures_total",
			Help:        "Total number of navigations that were not applied",
			ConstLabels: config.ConstLabels,
		}, []string{"reason", "code"}),

		historyWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "history_writes_total",
			Help:        "Total number of history pushes and replaces",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),
	}
}

// RouteApplied implements navigation.Observer.
func (m *Metrics) RouteApplied(a navigation.Applied) {
	m.applications.WithLabelValues(a.Route, string(a.Context.Reason)).Inc()
	m.applyDuration.WithLabelValues(a.Route).Observe(a.Duration.Seconds())
	if a.QueryErr != nil {
		m.queryFailures.WithLabelValues(a.Route).Inc()
	}
	if a.ParamsReplaced {
		m.bagReplacements.WithLabelValues("params").Inc()
	}
	if a.QueryReplaced {
		m.bagReplacements.WithLabelValues("query").Inc()
	}
}

// NavigationFailed implements navigation.Observer.
func (m *Metrics) NavigationFailed(f navigation.Failure) {
	m.failures.WithLabelValues(string(f.Reason), errorCode(f.Err)).Inc()
}

// HistoryWritten implements navigation.Observer.
func (m *Metrics) HistoryWritten(w navigation.Write) {
	m.historyWrites.WithLabelValues(string(w.Kind)).Inc()
}

// errorCode returns a low-cardinality label for err.
func errorCode(err error) string {
	var e *router.Error
	if errors.As(err, &e) {
		return string(e.Code)
	}
	if err == nil {
		return "none"
	}
	return "other"
}
