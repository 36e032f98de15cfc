// Package telemetry provides telemetry adapter interfaces.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Telemetry records what the query service does.
type Telemetry interface {
	// RecordQuery records one load.
	RecordQuery(ctx context.Context, info QueryInfo)

	// RecordError records a failed load.
	RecordError(ctx context.Context, info ErrorInfo)

	// RecordConnection records a connection event.
	RecordConnection(ctx context.Context, info ConnectionInfo)

	// Flush flushes any buffered telemetry data.
	Flush(ctx context.Context) error

	// Close closes the telemetry adapter.
	Close(ctx context.Context) error
}

// QueryInfo contains information about a load.
type QueryInfo struct {
	// ID identifies the load across logs, metrics and traces.
	ID string

	// Query is the SQL text.
	Query string

	// SQLType is the declared wire type, e.g. "INTEGER".
	SQLType string

	// Duration is how long the load took.
	Duration time.Duration

	// Success indicates if the load succeeded.
	Success bool

	// Rows is the number of decoded rows.
	Rows int
}

// ErrorInfo contains information about a failed load.
type ErrorInfo struct {
	ID      string
	Error   error
	Query   string
	SQLType string
}

// ConnectionInfo contains information about a connection event.
type ConnectionInfo struct {
	// Event is the event type (acquire, release, health_check).
	Event string

	// Duration is how long the operation took.
	Duration time.Duration

	// Success indicates if the operation succeeded.
	Success bool

	// ActiveConnections is the number of sessions in use.
	ActiveConnections int
}

// Config holds telemetry configuration.
type Config struct {
	// Type is the telemetry type (noop, prometheus, opentelemetry).
	Type string

	// ServiceName is the name of the service for tracing.
	ServiceName string

	// Endpoint is the OTLP gRPC endpoint for opentelemetry and the metrics
	// textfile for prometheus. Data stays in process when empty.
	Endpoint string

	// SampleRate is the sampling rate for traces (0.0-1.0). Zero samples everything.
	SampleRate float64
}

// NewQueryID returns a fresh load id.
func NewQueryID() string {
	return uuid.NewString()
}
