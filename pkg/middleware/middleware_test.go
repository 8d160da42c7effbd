package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func testMux(mws ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(mws...)
	r.Get("/href/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chi.URLParam(r, "id")))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	return r
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestMetrics_RecordsByPattern(t *testing.T) {
	m := NewMetrics(MetricsOpts{Registry: prometheus.NewRegistry()})
	mux := testMux(m.Handler)

	serve(mux, "/href/node")
	serve(mux, "/href/way")
	serve(mux, "/boom")
	serve(mux, "/missing")

	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues("/href/{id}", "200")); got != 2 {
		t.Errorf("requests_total(/href/{id},200) = %v, want 2", got)
	}
	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues("/boom", "500")); got != 1 {
		t.Errorf("requests_total(/boom,500) = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues(unmatched, "404")); got != 1 {
		t.Errorf("requests_total(unmatched,404) = %v, want 1", got)
	}
	if got := metricHistogramCount(t, m.requestDuration.WithLabelValues("/href/{id}")); got != 2 {
		t.Errorf("request_duration count = %d, want 2", got)
	}
}

func TestMetrics_Options(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(MetricsOpts{
		Namespace:   "osm",
		Subsystem:   "inspect",
		ConstLabels: prometheus.Labels{"env": "test"},
		Buckets:     []float64{0.1},
		Registry:    reg,
	})

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	if !names["osm_inspect_websocket_connections"] {
		t.Errorf("gathered %v, want osm_inspect_websocket_connections", names)
	}
}

func TestMetrics_TrackConnection(t *testing.T) {
	m := NewMetrics(MetricsOpts{Registry: prometheus.NewRegistry()})

	done1 := m.TrackConnection()
	done2 := m.TrackConnection()
	if got := metricGaugeValue(t, m.connections); got != 2 {
		t.Fatalf("connections = %v, want 2", got)
	}
	done1()
	done2()
	if got := metricGaugeValue(t, m.connections); got != 0 {
		t.Errorf("connections = %v, want 0", got)
	}
}

type fakeSpan struct {
	noop.Span
	name   string
	attrs  []attribute.KeyValue
	status codes.Code
	ended  bool
}

func (s *fakeSpan) IsRecording() bool { return true }
func (s *fakeSpan) SetName(name string) { s.name = name }
func (s *fakeSpan) SetAttributes(kv ...attribute.KeyValue) { s.attrs = append(s.attrs, kv...) }
func (s *fakeSpan) SetStatus(code codes.Code, _ string) { s.status = code }
func (s *fakeSpan) End(...trace.SpanEndOption) { s.ended = true }

func (s *fakeSpan) attr(key string) attribute.Value {
	for _, kv := range s.attrs {
		if string(kv.Key) == key {
			return kv.Value
		}
	}
	return attribute.Value{}
}

type fakeTracer struct {
	noop.Tracer
	spans []*fakeSpan
}

func (t *fakeTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &fakeSpan{name: name, attrs: cfg.Attributes()}
	t.spans = append(t.spans, s)
	return trace.ContextWithSpan(ctx, s), s
}

type fakeProvider struct {
	noop.TracerProvider
	tracer *fakeTracer
}

func (p *fakeProvider) Tracer(string, ...trace.TracerOption) trace.Tracer { return p.tracer }

func TestTracing(t *testing.T) {
	tracer := &fakeTracer{}
	var inHandler trace.Span
	mw := Tracing(WithTracerProvider(&fakeProvider{tracer: tracer}))

	r := chi.NewRouter()
	r.Use(mw)
	r.Get("/resolve", func(w http.ResponseWriter, r *http.Request) {
		inHandler = trace.SpanFromContext(r.Context())
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	serve(r, "/resolve?path=/node/1")
	serve(r, "/boom")

	if len(tracer.spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(tracer.spans))
	}
	ok := tracer.spans[0]
	if ok.name != "GET /resolve" {
		t.Errorf("name = %q", ok.name)
	}
	if inHandler != trace.Span(ok) {
		t.Error("handler should see the request span in its context")
	}
	if got := ok.attr("http.target").AsString(); got != "/resolve?path=/node/1" {
		t.Errorf("http.target = %q", got)
	}
	if got := ok.attr("http.status_code").AsInt64(); got != 200 {
		t.Errorf("http.status_code = %d", got)
	}
	if !ok.ended || ok.status != codes.Unset {
		t.Errorf("ended = %v status = %v", ok.ended, ok.status)
	}
	if tracer.spans[1].status != codes.Error {
		t.Errorf("5xx status = %v, want Error", tracer.spans[1].status)
	}
}

func TestTracing_Filter(t *testing.T) {
	tracer := &fakeTracer{}
	mw := Tracing(
		WithTracerProvider(&fakeProvider{tracer: tracer}),
		WithTracerName("test"),
		WithFilter(func(r *http.Request) bool { return !strings.HasPrefix(r.URL.Path, "/boom") }),
	)
	mux := testMux(mw)

	serve(mux, "/boom")
	serve(mux, "/href/x")

	if len(tracer.spans) != 1 || tracer.spans[0].name != "GET /href/{id}" {
		t.Errorf("spans = %+v", tracer.spans)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	mux := testMux(chimw.RequestID, Logger(logger))

	serve(mux, "/href/node")
	serve(mux, "/boom")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2:\n%s", len(lines), buf.String())
	}
	for _, want := range []string{"level=DEBUG", "pattern=/href/{id}", "status=200", "bytes=4", "request_id="} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("line %q missing %q", lines[0], want)
		}
	}
	if !strings.Contains(lines[1], "level=ERROR") || !strings.Contains(lines[1], "status=500") {
		t.Errorf("line %q should be an error with status 500", lines[1])
	}
}
