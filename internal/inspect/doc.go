// Package inspect serves a route table over HTTP.
//
// The inspector answers questions about a loaded table and hosts the
// navigation WebSocket used by browser clients:
//
//	GET /healthz                 liveness
//	GET /routes                  every route with its templates and specificity
//	GET /resolve?path=/node/5    match and decode a location
//	GET /href/{id}?param.id=5    build a location; other keys are query values
//	GET /metrics                 Prometheus metrics
//	GET /ws                      navigation WebSocket (see package wsport)
//
// Errors are returned as a JSON array of coded errors.
package inspect
