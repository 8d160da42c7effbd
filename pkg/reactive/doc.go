// Package reactive is the small observable store the router publishes its
// state through.
//
// A Runtime owns every Cell and Effect created from it. There is no global
// state: each router instance (and each test) creates its own Runtime.
//
//   - Cell[T] holds a value. Get inside an Effect subscribes the effect;
//     Set notifies subscribers synchronously, and only when the value
//     actually changed.
//   - Batch defers notifications until the outermost batch returns, then
//     notifies every affected listener once. Subscribers never observe a
//     half-applied batch.
//   - Effect runs a function, tracks the cells it read and re-runs when any
//     of them change. Re-runs triggered from inside the effect itself are
//     bounded by the runtime's effect budget.
//   - Bag is a set of named cells; Reconcile patches it in place when the
//     key set is unchanged and replaces it otherwise.
//
// A Runtime is not safe for concurrent use. Callers serialize access, which
// matches the single event loop of a browser tab or a WebSocket session.
package reactive
