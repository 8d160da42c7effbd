package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/maproute/internal/inspect"
)

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket inspector",
		Long: `Serve exposes the loaded table over HTTP:

  GET /routes               templates in registration order
  GET /resolve?path=...     resolve a location
  GET /href/{id}?param.k=v  build an href
  GET /metrics              Prometheus metrics
  GET /ws                   navigation over WebSocket

The listen address comes from --addr, $MAPROUTE_ADDR or server.addr.
SIGINT and SIGTERM shut the server down gracefully.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, r, err := a.router(cmd.Context())
			if err != nil {
				return err
			}
			if addr == "" {
				addr = os.Getenv(envAddr)
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			srv := inspect.New(r,
				inspect.WithLogger(a.logger),
				inspect.WithOrigin(cfg.Server.Origin),
				inspect.WithWSConfig(cfg.WSConfig()),
				inspect.WithMetricsNames(inspect.MetricsNames{
					Namespace: cfg.Metrics.Namespace,
					Subsystem: cfg.Metrics.Subsystem,
				}),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.ListenAndServe(ctx, addr, func(bound net.Addr) {
				a.success("Inspecting %s on http://%s", cfg.Source(), bound)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address")

	return cmd
}
