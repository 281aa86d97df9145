package telemetry

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc/credentials"
)

// TracingConfig selects where spans are exported.
type TracingConfig struct {
	CollectorURL string
	ServiceName  string
	Insecure     bool
}

func grpcOptions(cfg TracingConfig) []otlptracegrpc.Option {
	options := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.CollectorURL),
		otlptracegrpc.WithCompressor("gzip"),
	}

	if cfg.Insecure {
		options = append(options, otlptracegrpc.WithInsecure())
	} else {
		options = append(options, otlptracegrpc.WithTLSCredentials(
			credentials.NewClientTLSFromCert(nil, ""),
		))
	}

	return options
}

// InitTracerProvider installs a global tracer provider that batches spans to
// the OTLP collector. With no collector configured it returns nil and the
// global no-op provider stays in place.
func InitTracerProvider(ctx context.Context, cfg TracingConfig) (*trace.TracerProvider, error) {
	if cfg.CollectorURL == "" {
		return nil, nil
	}

	traceExporter, err := otlptracegrpc.New(ctx, grpcOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: failed to create trace exporter: %w", err)
	}

	hostname, _ := os.Hostname()
	tracerProvider := trace.NewTracerProvider(
		trace.WithBatcher(traceExporter),
		trace.WithSampler(trace.ParentBased(trace.AlwaysSample())),
		trace.WithResource(
			resource.NewWithAttributes(
				semconv.SchemaURL,
				semconv.TelemetrySDKLanguageGo,
				semconv.ServiceName(cfg.ServiceName),
				semconv.HostName(hostname),
				semconv.ProcessPID(os.Getpid()),
			),
		),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
	)

	return tracerProvider, nil
}
