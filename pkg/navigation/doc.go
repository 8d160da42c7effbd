// Package navigation drives a router from browser history.
//
// A Controller owns the reactive state of the active route: the current
// path, the matched route, the route context and one cell per declared
// path parameter and query key. It talks to the browser through a Port,
// which is implemented in memory (MemoryPort) for tests and tools, and over
// a WebSocket by package wsport.
//
// # Lifecycle
//
//	r := router.MustNew(defs)
//	port := navigation.NewMemoryPort("https://example.org", routepath.MustParse("/"))
//	c, err := navigation.NewController(r, port)
//
// NewController applies the port's current location. Afterwards the
// controller reacts to pop navigations and intercepted link clicks from the
// port, and to Navigate and Replace calls from the application.
//
// # Query write-back
//
// Query cells are writable. Writing a new value to one of them rebuilds the
// URL of the active route and replaces the current history entry, so typing
// into a search box does not add an entry per keystroke:
//
//	c.Query("q").Set("cafe")
//
// Writing a value equal to the current one does nothing.
//
// # Concurrency
//
// A Controller and its runtime are not safe for concurrent use. Ports
// deliver events on a single goroutine; wsport exposes Do for running code
// on it.
package navigation
