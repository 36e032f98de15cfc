// Package container wires configuration into the services the CLI uses.
package container

import (
	"context"
	"errors"
	"fmt"

	// Database providers register themselves with the database package.
	_ "github.com/moyeah/diesel/internal/adapters/database/mysql"
	_ "github.com/moyeah/diesel/internal/adapters/database/postgres"
	_ "github.com/moyeah/diesel/internal/adapters/database/sqlite"

	"github.com/moyeah/diesel/internal/adapters/database"
	"github.com/moyeah/diesel/internal/adapters/telemetry"
	"github.com/moyeah/diesel/internal/config"
	"github.com/moyeah/diesel/internal/core/database/pool"
	"github.com/moyeah/diesel/internal/logging"
	"github.com/moyeah/diesel/internal/service"
)

// Container holds all application dependencies.
type Container struct {
	config *config.Config

	telemetry    telemetry.Telemetry
	pool         *pool.Pool
	queryService *service.QueryService
}

// NewContainer creates a new dependency injection container.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg.Log.Enabled {
		if err := logging.Configure(LoggingOptions(cfg.Log)); err != nil {
			return nil, fmt.Errorf("failed to configure logging: %w", err)
		}
	}

	c := &Container{config: cfg}

	var err error
	c.telemetry, err = telemetry.NewTelemetry(ctx, TelemetryConfig(cfg.Telemetry))
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry: %w", err)
	}

	c.pool, err = pool.New(DatabaseConfig(cfg.Database), PoolConfig(cfg.Database), pool.WithTelemetry(c.telemetry))
	if err != nil {
		_ = c.telemetry.Close(ctx)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	c.queryService = service.NewQueryService(service.FromPool(c.pool), c.telemetry)
	return c, nil
}

// Config returns the configuration the container was built from.
func (c *Container) Config() *config.Config {
	return c.config
}

// Pool returns the connection pool.
func (c *Container) Pool() *pool.Pool {
	return c.pool
}

// Telemetry returns the telemetry adapter.
func (c *Container) Telemetry() telemetry.Telemetry {
	return c.telemetry
}

// QueryService returns the query service.
func (c *Container) QueryService() *service.QueryService {
	return c.queryService
}

// Close cleans up resources.
func (c *Container) Close(ctx context.Context) error {
	err := errors.Join(
		c.pool.Close(),
		c.telemetry.Flush(ctx),
		c.telemetry.Close(ctx),
	)
	// Syncing a terminal fails with EINVAL on some platforms.
	_ = logging.Sync()
	return err
}

// DatabaseConfig maps the database section to a connection config.
func DatabaseConfig(cfg config.DatabaseConfig) database.Config {
	return database.Config{
		Provider:       cfg.Provider,
		URL:            cfg.URL,
		ConnectTimeout: cfg.ConnectTimeout,
	}
}

// PoolConfig maps the database section to a pool config.
func PoolConfig(cfg config.DatabaseConfig) pool.Config {
	pc := pool.DefaultConfig()
	pc.MaxOpenConns = cfg.MaxOpenConns
	pc.MaxIdleConns = cfg.MaxIdleConns
	pc.ConnMaxLifetime = cfg.ConnMaxLifetime
	pc.HealthCheckInterval = cfg.HealthCheckInterval
	pc.AcquireTimeout = cfg.ConnectTimeout
	return pc
}

// TelemetryConfig maps the telemetry section.
func TelemetryConfig(cfg config.TelemetryConfig) *telemetry.Config {
	return &telemetry.Config{
		Type:        cfg.Type,
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.Endpoint,
		SampleRate:  cfg.SampleRate,
	}
}

// LoggingOptions maps the log section.
func LoggingOptions(cfg config.LogConfig) logging.Options {
	return logging.Options{
		Level:       cfg.Level,
		Development: cfg.Development,
		File:        cfg.File,
	}
}
