package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsOpts names the request collectors and picks their registry.
// Zero fields take the defaults: namespace "maproute", subsystem "http",
// prometheus.DefBuckets and prometheus.DefaultRegisterer.
type MetricsOpts struct {
	Namespace   string
	Subsystem   string
	ConstLabels prometheus.Labels
	Buckets     []float64
	Registry    prometheus.Registerer
}

func (o MetricsOpts) withDefaults() MetricsOpts {
	if o.Namespace == "" {
		o.Namespace = "maproute"
	}
	if o.Subsystem == "" {
		o.Subsystem = "http"
	}
	if len(o.Buckets) == 0 {
		o.Buckets = prometheus.DefBuckets
	}
	if o.Registry == nil {
		o.Registry = prometheus.DefaultRegisterer
	}
	return o
}

// Metrics collects request metrics for the inspector.
//
// Metrics collected:
//   - maproute_http_requests_total: requests by route pattern and status code
//   - maproute_http_request_duration_seconds: request duration by route pattern
//   - maproute_http_websocket_connections: open navigation sockets
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	connections     prometheus.Gauge
}

// NewMetrics registers the request collectors.
func NewMetrics(opts MetricsOpts) *Metrics {
	config := opts.withDefaults()
	factory := promauto.With(config.Registry)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of inspector requests",
			ConstLabels: config.ConstLabels,
		}, []string{"pattern", "code"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "Inspector request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"pattern"}),

		connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_connections",
			Help:        "Number of open navigation WebSocket connections",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Handler records every request passing through next.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		pattern := routePattern(r)
		m.requestDuration.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(pattern, strconv.Itoa(status)).Inc()
	})
}

// TrackConnection counts an open WebSocket connection. Call the returned
// function when it closes.
func (m *Metrics) TrackConnection() (done func()) {
	m.connections.Inc()
	return m.connections.Dec
}
