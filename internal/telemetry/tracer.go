package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/alexisbeaulieu97/livepreview"

var noopTracer = noop.NewTracerProvider().Tracer(tracerName)

// TracingConfig selects where spans go.
type TracingConfig struct {
	Enabled bool
	// Writer receives pretty-printed spans; defaults to stderr.
	Writer      io.Writer
	ServiceName string
}

// Tracer wraps an OpenTelemetry tracer. A nil *Tracer produces non-recording spans.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewTracer builds a tracer that exports to the configured writer when enabled.
func NewTracer(cfg TracingConfig) (*Tracer, error) {
	if !cfg.Enabled {
		return &Tracer{tracer: noopTracer}, nil
	}

	writer := cfg.Writer
	if writer == nil {
		writer = os.Stderr
	}
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(writer),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "livepreview"
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
		sdktrace.WithSyncer(exporter),
	)
	return NewTracerWithProvider(provider), nil
}

// NewTracerWithProvider wraps an existing SDK provider.
func NewTracerWithProvider(provider *sdktrace.TracerProvider) *Tracer {
	return &Tracer{provider: provider, tracer: provider.Tracer(tracerName)}
}

// Start begins a span with the supplied attributes. Without a configured tracer the span is
// non-recording and never touches a span already in ctx.
func (t *Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if t == nil || t.tracer == nil {
		return noopTracer.Start(ctx, name)
	}
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartBuildSpan starts the span covering a whole build.
func (t *Tracer) StartBuildSpan(ctx context.Context, buildID string, fields int) (context.Context, trace.Span) {
	return t.Start(ctx, "build",
		AttrBuildID.String(buildID),
		AttrFieldCount.Int(fields),
	)
}

// StartFieldSpan starts the span covering one field's compilation.
func (t *Tracer) StartFieldSpan(ctx context.Context, setting string, bindings int) (context.Context, trace.Span) {
	return t.Start(ctx, "field.compile",
		AttrSetting.String(setting),
		AttrBindingCount.Int(bindings),
	)
}

// Shutdown flushes pending spans.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// RecordError records an error on the span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// RecordSuccess marks the span as successful.
func RecordSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// Attribute keys.
var (
	AttrBuildID      = attribute.Key("build.id")
	AttrFieldCount   = attribute.Key("build.fields")
	AttrSkipCount    = attribute.Key("build.skipped")
	AttrScriptBytes  = attribute.Key("build.script_bytes")
	AttrSetting      = attribute.Key("field.setting")
	AttrBindingCount = attribute.Key("field.bindings")
	AttrHook         = attribute.Key("hook.name")
)
