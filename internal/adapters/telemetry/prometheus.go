package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/moyeah/diesel/pkg/sqlerr"
)

// PrometheusTelemetry implements Telemetry using Prometheus metrics. Each
// instance owns its registry so several can coexist in one process.
//
// A CLI run is too short to be scraped, so Flush writes the registry in the
// text exposition format to the file named by Config.Endpoint, ready for
// node_exporter's textfile collector.
type PrometheusTelemetry struct {
	registry *prometheus.Registry
	textfile string

	queryDuration *prometheus.HistogramVec
	queryTotal    *prometheus.CounterVec
	errorTotal    *prometheus.CounterVec
	connections   *prometheus.GaugeVec
}

// NewPrometheusTelemetry creates a new Prometheus telemetry adapter.
func NewPrometheusTelemetry(config *Config) *PrometheusTelemetry {
	p := &PrometheusTelemetry{
		registry: prometheus.NewRegistry(),
		textfile: config.Endpoint,
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "diesel_query_duration_seconds",
			Help:    "Duration of typed loads.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"sql_type", "outcome"}),
		queryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "diesel_queries_total",
			Help: "Number of typed loads.",
		}, []string{"sql_type", "outcome"}),
		errorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "diesel_errors_total",
			Help: "Number of failed loads by error kind.",
		}, []string{"sql_type", "kind"}),
		connections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "diesel_connections",
			Help: "Active sessions as of the last connection event.",
		}, []string{"event"}),
	}
	p.registry.MustRegister(p.queryDuration, p.queryTotal, p.errorTotal, p.connections)
	return p
}

// RecordQuery records a load.
func (p *PrometheusTelemetry) RecordQuery(ctx context.Context, info QueryInfo) {
	outcome := "success"
	if !info.Success {
		outcome = "error"
	}
	p.queryDuration.WithLabelValues(info.SQLType, outcome).Observe(info.Duration.Seconds())
	p.queryTotal.WithLabelValues(info.SQLType, outcome).Inc()
}

// RecordError records a failed load.
func (p *PrometheusTelemetry) RecordError(ctx context.Context, info ErrorInfo) {
	p.errorTotal.WithLabelValues(info.SQLType, ErrorKind(info.Error)).Inc()
}

// RecordConnection records a connection event.
func (p *PrometheusTelemetry) RecordConnection(ctx context.Context, info ConnectionInfo) {
	p.connections.WithLabelValues(info.Event).Set(float64(info.ActiveConnections))
}

// Flush writes the metrics to the textfile, if one is configured.
func (p *PrometheusTelemetry) Flush(ctx context.Context) error {
	if p.textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(p.textfile, p.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", p.textfile, err)
	}
	return nil
}

// Close unregisters the collectors.
func (p *PrometheusTelemetry) Close(ctx context.Context) error {
	p.registry.Unregister(p.queryDuration)
	p.registry.Unregister(p.queryTotal)
	p.registry.Unregister(p.errorTotal)
	p.registry.Unregister(p.connections)
	return nil
}

// ErrorKind names the kind of a load error for labelling.
func ErrorKind(err error) string {
	var loadErr *sqlerr.LoadError
	if errors.As(err, &loadErr) {
		var connErr *sqlerr.ConnectionError
		if errors.As(loadErr.Cause, &connErr) {
			return label("connection " + connErr.Kind.String())
		}
		var decErr *sqlerr.DecodeError
		if errors.As(loadErr.Cause, &decErr) {
			return label("decode " + decErr.Kind.String())
		}
		return label(loadErr.Kind.String())
	}
	return "unknown"
}

func label(s string) string {
	return strings.ReplaceAll(s, " ", "_")
}

// Ensure PrometheusTelemetry implements Telemetry interface.
var _ Telemetry = (*PrometheusTelemetry)(nil)
