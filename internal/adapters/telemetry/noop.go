package telemetry

import (
	"context"
)

// NoopTelemetry drops every load, error and connection event. It backs
// telemetry.type=noop, the default, and stands in wherever a QueryService
// or Pool is built without telemetry.
type NoopTelemetry struct{}

// NewNoopTelemetry returns a NoopTelemetry.
func NewNoopTelemetry() *NoopTelemetry {
	return &NoopTelemetry{}
}

func (n *NoopTelemetry) RecordQuery(ctx context.Context, info QueryInfo)           {}
func (n *NoopTelemetry) RecordError(ctx context.Context, info ErrorInfo)           {}
func (n *NoopTelemetry) RecordConnection(ctx context.Context, info ConnectionInfo) {}

// Flush has nothing buffered to write.
func (n *NoopTelemetry) Flush(ctx context.Context) error {
	return nil
}

// Close holds no resources.
func (n *NoopTelemetry) Close(ctx context.Context) error {
	return nil
}

var _ Telemetry = (*NoopTelemetry)(nil)
