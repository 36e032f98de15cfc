package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const defaultServiceName = "diesel"

// OpenTelemetryAdapter implements Telemetry with one span per load.
type OpenTelemetryAdapter struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewOpenTelemetryAdapter creates a tracer provider for config. When
// config.Endpoint is set spans are batched to that OTLP gRPC endpoint; extra
// options, such as a span processor for tests, are applied after.
func NewOpenTelemetryAdapter(ctx context.Context, config *Config, opts ...sdktrace.TracerProviderOption) (*OpenTelemetryAdapter, error) {
	serviceName := config.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	res := resource.NewSchemaless(semconv.ServiceNameKey.String(serviceName))

	sampler := sdktrace.AlwaysSample()
	if config.SampleRate > 0 && config.SampleRate < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.SampleRate))
	}

	options := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	}
	if config.Endpoint != "" {
		exporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(config.Endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		options = append(options, sdktrace.WithBatcher(exporter))
	}
	options = append(options, opts...)

	provider := sdktrace.NewTracerProvider(options...)
	return &OpenTelemetryAdapter{
		provider: provider,
		tracer:   provider.Tracer(serviceName),
	}, nil
}

// RecordQuery records a load as a span covering its duration.
func (o *OpenTelemetryAdapter) RecordQuery(ctx context.Context, info QueryInfo) {
	end := time.Now()
	_, span := o.tracer.Start(ctx, "diesel.load",
		trace.WithTimestamp(end.Add(-info.Duration)),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("diesel.query_id", info.ID),
			attribute.String("db.statement", info.Query),
			attribute.String("diesel.sql_type", info.SQLType),
			attribute.Int("diesel.rows", info.Rows),
		),
	)
	if info.Success {
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetStatus(codes.Error, "load failed")
	}
	span.End(trace.WithTimestamp(end))
}

// RecordError records a failed load as an error span.
func (o *OpenTelemetryAdapter) RecordError(ctx context.Context, info ErrorInfo) {
	_, span := o.tracer.Start(ctx, "diesel.error",
		trace.WithAttributes(
			attribute.String("diesel.query_id", info.ID),
			attribute.String("db.statement", info.Query),
			attribute.String("diesel.sql_type", info.SQLType),
			attribute.String("diesel.error_kind", ErrorKind(info.Error)),
		),
	)
	if info.Error != nil {
		span.RecordError(info.Error)
		span.SetStatus(codes.Error, info.Error.Error())
	}
	span.End()
}

// RecordConnection records a connection event.
func (o *OpenTelemetryAdapter) RecordConnection(ctx context.Context, info ConnectionInfo) {
	end := time.Now()
	_, span := o.tracer.Start(ctx, "diesel.connection."+info.Event,
		trace.WithTimestamp(end.Add(-info.Duration)),
		trace.WithAttributes(
			attribute.String("db.connection.event", info.Event),
			attribute.Int("db.connection.active", info.ActiveConnections),
		),
	)
	if !info.Success {
		span.SetStatus(codes.Error, info.Event+" failed")
	}
	span.End(trace.WithTimestamp(end))
}

// Flush exports buffered spans.
func (o *OpenTelemetryAdapter) Flush(ctx context.Context) error {
	return o.provider.ForceFlush(ctx)
}

// Close flushes and shuts the tracer provider down.
func (o *OpenTelemetryAdapter) Close(ctx context.Context) error {
	return o.provider.Shutdown(ctx)
}

// Ensure OpenTelemetryAdapter implements Telemetry interface.
var _ Telemetry = (*OpenTelemetryAdapter)(nil)
