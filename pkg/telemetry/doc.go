// Package telemetry exports navigation events to Prometheus and
// OpenTelemetry.
//
// Both exporters implement navigation.Observer:
//
//	metrics := telemetry.NewMetrics(telemetry.WithRegistry(reg))
//	tracer := telemetry.NewTracer()
//	c, err := navigation.NewController(r, port,
//	    navigation.WithObserver(telemetry.Multi(metrics, tracer)))
//
// Metrics collected:
//   - maproute_route_applications_total: route applications by route and reason
//   - maproute_route_apply_duration_seconds: time spent applying a route
//   - maproute_query_decode_failures_total: applications whose query failed to decode
//   - maproute_bag_replacements_total: cell bags replaced instead of updated in place
//   - maproute_navigation_failures_total: failed navigations by reason and error code
//   - maproute_history_writes_total: history pushes and replaces
package telemetry
