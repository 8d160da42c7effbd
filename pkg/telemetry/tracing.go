package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/maproute/pkg/navigation"
)

const defaultTracerName = "maproute"

// TracerConfig configures the OpenTelemetry exporter.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "maproute").
	TracerName string

	// Provider supplies the tracer.
	// Default: the global provider from otel.GetTracerProvider.
	Provider trace.TracerProvider

	// IncludePath adds the full location to spans. Paths may carry search
	// terms typed by users, so it is disabled by default.
	IncludePath bool

	// Context is the parent context of every span.
	// Default: context.Background().
	Context context.Context
}

// TracerOption configures the OpenTelemetry exporter.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the provider the tracer is taken from.
func WithTracerProvider(tp trace.TracerProvider) TracerOption {
	return func(c *TracerConfig) {
		c.Provider = tp
	}
}

// WithIncludePath enables the maproute.path attribute.
func WithIncludePath(include bool) TracerOption {
	return func(c *TracerConfig) {
		c.IncludePath = include
	}
}

// WithParentContext sets the parent context of every span, e.g. the span
// of the WebSocket connection.
func WithParentContext(ctx context.Context) TracerOption {
	return func(c *TracerConfig) {
		c.Context = ctx
	}
}

// Tracer is a navigation.Observer recording one span per route application
// and per failed navigation.
type Tracer struct {
	config TracerConfig
	tracer trace.Tracer
}

var _ navigation.Observer = (*Tracer)(nil)

// NewTracer creates the OpenTelemetry exporter.
func NewTracer(opts ...TracerOption) *Tracer {
	config := TracerConfig{
		TracerName: defaultTracerName,
		Context:    context.Background(),
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	return &Tracer{
		config: config,
		tracer: config.Provider.Tracer(config.TracerName),
	}
}

// RouteApplied implements navigation.Observer. The span covers the
// application; a query decode failure is recorded on it without failing it.
func (t *Tracer) RouteApplied(a navigation.Applied) {
	attrs := []attribute.KeyValue{
		attribute.String("maproute.route", a.Route),
		attribute.String("maproute.template", a.Template),
		attribute.String("maproute.reason", string(a.Context.Reason)),
		attribute.Bool("maproute.params_replaced", a.ParamsReplaced),
		attribute.Bool("maproute.query_replaced", a.QueryReplaced),
	}
	if t.config.IncludePath {
		attrs = append(attrs, attribute.String("maproute.path", a.Context.Path))
	}

	_, span := t.tracer.Start(t.config.Context, "maproute.apply "+a.Route,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(a.Start),
	)
	if a.QueryErr != nil {
		span.RecordError(a.QueryErr)
	}
	span.SetStatus(codes.Ok, "")
	span.End(trace.WithTimestamp(a.Start.Add(a.Duration)))
}

// NavigationFailed implements navigation.Observer.
func (t *Tracer) NavigationFailed(f navigation.Failure) {
	attrs := []attribute.KeyValue{
		attribute.String("maproute.reason", string(f.Reason)),
		attribute.String("maproute.error_code", errorCode(f.Err)),
	}
	if t.config.IncludePath {
		attrs = append(attrs, attribute.String("maproute.path", f.URL))
	}

	now := time.Now()
	_, span := t.tracer.Start(t.config.Context, "maproute.fail",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(now),
	)
	if f.Err != nil {
		span.RecordError(f.Err)
		span.SetStatus(codes.Error, f.Err.Error())
	}
	span.End(trace.WithTimestamp(now))
}

// HistoryWritten implements navigation.Observer. History writes are added
// as events to the span of the parent context, if it is recording.
func (t *Tracer) HistoryWritten(w navigation.Write) {
	span := trace.SpanFromContext(t.config.Context)
	if !span.IsRecording() {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("maproute.kind", string(w.Kind))}
	if t.config.IncludePath {
		attrs = append(attrs, attribute.String("maproute.path", w.URL))
	}
	span.AddEvent("maproute.history", trace.WithAttributes(attrs...))
}
