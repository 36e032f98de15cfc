package telemetry

import (
	"context"
	"fmt"
)

// TelemetryType is the value of telemetry.type in the diesel config.
type TelemetryType string

const (
	// TypeNoop drops everything.
	TypeNoop TelemetryType = "noop"

	// TypePrometheus counts loads and writes them to a metrics textfile.
	TypePrometheus TelemetryType = "prometheus"

	// TypeOpenTelemetry traces each load as a span.
	TypeOpenTelemetry TelemetryType = "opentelemetry"
)

// NewTelemetry builds the adapter selected by config.Type. A nil config or
// an empty type yields NoopTelemetry.
func NewTelemetry(ctx context.Context, config *Config) (Telemetry, error) {
	if config == nil {
		return NewNoopTelemetry(), nil
	}

	switch TelemetryType(config.Type) {
	case TypeNoop, "":
		return NewNoopTelemetry(), nil

	case TypePrometheus:
		return NewPrometheusTelemetry(config), nil

	case TypeOpenTelemetry:
		return NewOpenTelemetryAdapter(ctx, config)

	default:
		return nil, fmt.Errorf("unknown telemetry type %q (want noop, prometheus or opentelemetry)", config.Type)
	}
}
