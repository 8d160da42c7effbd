// Package middleware provides net/http middleware for the maproute
// inspector: Prometheus request metrics, OpenTelemetry request spans and
// structured request logging.
//
// All three label requests by their chi route pattern ("/href/{id}")
// rather than the raw path, so label cardinality stays bounded:
//
//	m := middleware.NewMetrics(middleware.MetricsOpts{Registry: reg})
//
//	r := chi.NewRouter()
//	r.Use(chimw.RequestID)
//	r.Use(middleware.Logger(logger))
//	r.Use(middleware.Tracing())
//	r.Use(m.Handler)
package middleware
