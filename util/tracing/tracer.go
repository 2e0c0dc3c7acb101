package tracing

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.14.0"
	"go.opentelemetry.io/otel/trace"

	db "mmbench/debug"
)

// Spans are exported to the jaeger agent named by MMTRACE; without it
// tracing is a no-op.
const TRACE_ENV = "MMTRACE"

type Tracer struct {
	t  trace.Tracer
	tp *sdktrace.TracerProvider
}

func NewTracer(t trace.Tracer) *Tracer {
	return &Tracer{
		t: t,
	}
}

// Global traces into the process-wide provider.
func Global(svcname string) *Tracer {
	return NewTracer(otel.Tracer(svcname))
}

// NewProviderTracer traces into tp, which Flush will flush.
func NewProviderTracer(tp *sdktrace.TracerProvider, svcname string) *Tracer {
	return &Tracer{
		t:  tp.Tracer(svcname),
		tp: tp,
	}
}

func (t *Tracer) StartContextSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	ctx, span := t.t.Start(ctx, name)
	return ctx, span
}

func (t *Tracer) StartTopLevelSpan(name string) (context.Context, trace.Span) {
	return t.t.Start(context.TODO(), name)
}

// Force flush all spans to jaeger.
func (t *Tracer) Flush() {
	if t.tp == nil {
		return
	}
	if err := t.tp.ForceFlush(context.TODO()); err != nil {
		db.DPrintf(db.TRACE_ERR, "Error flushing traces %v", err)
	}
}

func newJaegerExporter(host string) (*jaeger.Exporter, error) {
	return jaeger.New(
		jaeger.WithAgentEndpoint(
			jaeger.WithAgentHost(host),
		),
	)
}

// Init returns a no-op tracer unless MMTRACE names a jaeger agent.
func Init(svcname string) (*Tracer, error) {
	host := os.Getenv(TRACE_ENV)
	if host == "" {
		return Global(svcname), nil
	}
	return InitJaeger(svcname, host)
}

// InitJaeger batches spans to the jaeger agent on host. The provider is
// private to the returned tracer; the global provider stays a no-op.
func InitJaeger(svcname, host string) (*Tracer, error) {
	exp, err := newJaegerExporter(host)
	if err != nil {
		return nil, err
	}
	res, err := resource.New(context.TODO(), resource.WithAttributes(semconv.ServiceNameKey.String(svcname)))
	if err != nil {
		return nil, err
	}
	// A benchmark emits few spans; keep them all.
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res))
	db.DPrintf(db.TRACE, "Tracing %v to jaeger agent %v", svcname, host)
	return NewProviderTracer(tp, svcname), nil
}
