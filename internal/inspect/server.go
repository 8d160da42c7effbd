package inspect

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	clierrors "github.com/vango-dev/maproute/internal/errors"
	"github.com/vango-dev/maproute/pkg/middleware"
	"github.com/vango-dev/maproute/pkg/navigation"
	"github.com/vango-dev/maproute/pkg/router"
	"github.com/vango-dev/maproute/pkg/telemetry"
	"github.com/vango-dev/maproute/pkg/wsport"
)

// Server is the route table inspector.
type Server struct {
	router   *router.Router
	logger   *slog.Logger
	origin   string
	ws       wsport.Config
	registry *prometheus.Registry
	provider trace.TracerProvider
	metrics  MetricsNames

	httpMetrics *middleware.Metrics
	navMetrics  *telemetry.Metrics
	mux         *chi.Mux
}

// MetricsNames sets the namespace and subsystem of every collector.
type MetricsNames struct {
	Namespace string
	Subsystem string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithOrigin sets the scheme and host prefixed to absolute hrefs.
func WithOrigin(origin string) Option {
	return func(s *Server) {
		s.origin = origin
	}
}

// WithWSConfig sets the WebSocket settings of /ws.
func WithWSConfig(config wsport.Config) Option {
	return func(s *Server) {
		s.ws = config
	}
}

// WithRegistry sets the registry the collectors register with and /metrics
// serves. Default: a fresh registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = registry
	}
}

// WithMetricsNames sets the metric namespace and subsystem.
func WithMetricsNames(names MetricsNames) Option {
	return func(s *Server) {
		s.metrics = names
	}
}

// WithTracerProvider sets the provider of request and navigation spans.
// Default: the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) {
		s.provider = tp
	}
}

// New creates an inspector for r.
func New(r *router.Router, opts ...Option) *Server {
	s := &Server{
		router:  r,
		logger:  slog.Default(),
		metrics: MetricsNames{Namespace: "maproute"},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	if s.provider == nil {
		s.provider = otel.GetTracerProvider()
	}

	s.httpMetrics = middleware.NewMetrics(middleware.MetricsOpts{
		Namespace: s.metrics.Namespace,
		Registry:  s.registry,
	})
	s.navMetrics = telemetry.NewMetrics(
		telemetry.WithRegistry(s.registry),
		telemetry.WithNamespace(s.metrics.Namespace),
		telemetry.WithSubsystem(s.metrics.Subsystem),
	)
	s.mux = s.routes()
	return s
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.Tracing(middleware.WithTracerProvider(s.provider)))
	r.Use(s.httpMetrics.Handler)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/routes", s.handleRoutes)
	r.Get("/resolve", s.handleResolve)
	r.Get("/href/{id}", s.handleHref)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))
	r.Method(http.MethodGet, "/ws", s.wsHandler())
	return r
}

func (s *Server) wsHandler() http.Handler {
	return &wsport.Handler{
		Router: s.router,
		Config: s.ws,
		Logger: s.logger,
		Observe: func(ctx context.Context) navigation.Observer {
			return telemetry.Multi(
				s.navMetrics,
				telemetry.NewTracer(
					telemetry.WithTracerProvider(s.provider),
					telemetry.WithParentContext(ctx),
				),
			)
		},
		OnConnect: func(_ context.Context, c *navigation.Controller, p *wsport.Port) {
			done := s.httpMetrics.TrackConnection()
			go func() {
				<-p.Done()
				done()
			}()
			s.logger.Info("inspect: navigation client connected",
				"origin", p.Origin(),
				"route", c.Route().Peek().Route.ID())
		},
	}
}

// Handler returns the HTTP handler of the inspector.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Registry returns the registry served on /metrics.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully. ready, if not nil, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return clierrors.New(clierrors.CodeListen).WithDetail(addr).Wrap(err)
	}
	if ready != nil {
		ready(ln.Addr())
	}

	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.logger.Info("inspect: listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return clierrors.New(clierrors.CodeListen).Wrap(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return clierrors.New(clierrors.CodeListen).Wrap(err)
	}
	s.logger.Info("inspect: stopped")
	return nil
}
