package trace

import (
	"context"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "llm-news-desk"

// Span attribute keys shared by every newsdesk span.
const (
	RunIDKey    = attribute.Key("newsdesk.run_id")
	RoleKey     = attribute.Key("newsdesk.role")
	ProviderKey = attribute.Key("newsdesk.provider")
	ModelKey    = attribute.Key("newsdesk.model")
)

// Config selects whether spans are exported and how the service is labeled.
type Config struct {
	Enabled        bool
	ServiceVersion string
	// Output defaults to stdout.
	Output io.Writer
}

var (
	tracer         trace.Tracer
	tracerProvider *sdktrace.TracerProvider
	enabled        bool
)

// Init installs the stdout exporter when cfg.Enabled is set. With tracing off
// every span helper returns the span already in ctx.
func Init(cfg Config) error {
	enabled = cfg.Enabled
	if !enabled {
		return nil
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(out), stdouttrace.WithPrettyPrint())
	if err != nil {
		enabled = false
		return err
	}

	version := cfg.ServiceVersion
	if version == "" {
		version = "dev"
	}
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		enabled = false
		return err
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	tracer = otel.Tracer(serviceName)
	return nil
}

// Shutdown flushes pending spans.
func Shutdown(ctx context.Context) error {
	if tracerProvider == nil {
		return nil
	}
	err := tracerProvider.Shutdown(ctx)
	tracerProvider = nil
	tracer = nil
	enabled = false
	return err
}

func Enabled() bool {
	return enabled
}

type runIDKey struct{}

// WithRunID stores the run id in ctx. Spans started below it carry the id as
// newsdesk.run_id.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunID returns the run id stored in ctx, if any.
func RunID(ctx context.Context) string {
	if v, ok := ctx.Value(runIDKey{}).(string); ok {
		return v
	}
	return ""
}

// StartSpan starts a span tagged with the run id found in ctx.
func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if !enabled || tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	if runID := RunID(ctx); runID != "" {
		opts = append(opts, trace.WithAttributes(RunIDKey.String(runID)))
	}
	return tracer.Start(ctx, spanName, opts...)
}

// StartRoleSpan starts the span of one model call, named llm.<role>.
func StartRoleSpan(ctx context.Context, role, provider, model string) (context.Context, trace.Span) {
	return StartSpan(ctx, "llm."+role,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			RoleKey.String(role),
			ProviderKey.String(provider),
			ModelKey.String(model),
		),
	)
}

func GetTraceFields(ctx context.Context) (traceID, spanID string, ok bool) {
	if !enabled {
		return "", "", false
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}
