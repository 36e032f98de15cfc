package container

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyeah/diesel/internal/adapters/database"
	"github.com/moyeah/diesel/internal/adapters/telemetry"
	"github.com/moyeah/diesel/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{
			Provider:       "sqlite",
			URL:            filepath.Join(t.TempDir(), "container.db"),
			ConnectTimeout: time.Second,
			MaxOpenConns:   4,
			MaxIdleConns:   2,
		},
		Log:       config.LogConfig{Level: "info"},
		Telemetry: config.TelemetryConfig{Type: "prometheus"},
	}
}

func TestNewContainer(t *testing.T) {
	ctx := context.Background()

	c, err := NewContainer(ctx, testConfig(t))
	require.NoError(t, err)

	assert.IsType(t, &telemetry.PrometheusTelemetry{}, c.Telemetry())
	assert.Equal(t, database.SQLite, c.Pool().Provider().Dialect())
	assert.Equal(t, 4, c.Pool().Stats().MaxOpenConnections)

	info, err := c.QueryService().SQLiteVersion(ctx)
	require.NoError(t, err)
	assert.NotZero(t, info.Number)

	assert.NoError(t, c.Close(ctx))
}

func TestNewContainerErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown telemetry", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Telemetry.Type = "statsd"

		_, err := NewContainer(ctx, cfg)
		assert.ErrorContains(t, err, "failed to create telemetry")
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Database.Provider = "oracle"

		_, err := NewContainer(ctx, cfg)
		assert.ErrorContains(t, err, "failed to create connection pool")
	})
}

func TestPoolConfig(t *testing.T) {
	pc := PoolConfig(config.DatabaseConfig{
		MaxOpenConns:        7,
		ConnectTimeout:      3 * time.Second,
		HealthCheckInterval: 0,
	})
	assert.Equal(t, 7, pc.MaxOpenConns)
	assert.Equal(t, 3*time.Second, pc.AcquireTimeout)
	assert.Zero(t, pc.HealthCheckInterval)
}
