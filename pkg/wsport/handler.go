package wsport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/vango-dev/maproute/pkg/navigation"
	"github.com/vango-dev/maproute/pkg/router"
)

// Handler upgrades requests and runs one navigation controller per
// connection.
type Handler struct {
	Router *router.Router
	Config Config
	Logger *slog.Logger

	// Options are passed to every controller.
	Options []navigation.Option

	// Observe, if set, builds the observer of each connection from the
	// request context, e.g. to parent navigation spans on the request span.
	Observe func(ctx context.Context) navigation.Observer

	// OnConnect is called on the connection's goroutine once the controller
	// has applied the page URL. It may start goroutines that use Port.Do.
	OnConnect func(ctx context.Context, c *navigation.Controller, p *Port)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}

	port, err := Accept(w, r, h.Config, logger)
	if err != nil {
		logger.Warn("wsport: handshake failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	opts := append([]navigation.Option{navigation.WithLogger(logger)}, h.Options...)
	if h.Observe != nil {
		opts = append(opts, navigation.WithObserver(h.Observe(r.Context())))
	}
	c, err := navigation.NewController(h.Router, port, opts...)
	if err != nil {
		port.sendError(err)
		port.Close()
		logger.Warn("wsport: page url has no route", "url", port.Location().String(), "error", err)
		return
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if h.OnConnect != nil {
		h.OnConnect(ctx, c, port)
	}
	logger.Debug("wsport: connected", "remote", r.RemoteAddr, "url", port.Location().String())

	if err := port.Run(ctx); err != nil && err != context.Canceled {
		logger.Warn("wsport: connection ended", "remote", r.RemoteAddr, "error", err)
	}
}
