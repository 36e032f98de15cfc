// Package pool provides database connection pooling.
package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/moyeah/diesel/internal/adapters/database"
	"github.com/moyeah/diesel/internal/adapters/telemetry"
	"github.com/moyeah/diesel/internal/logging"
	"github.com/moyeah/diesel/pkg/sqlerr"
)

// ErrClosed is returned by Acquire after Close.
var ErrClosed = errors.New("pool is closed")

// Config holds connection pool configuration.
type Config struct {
	// MaxOpenConns is the maximum number of open connections (0 = unlimited).
	MaxOpenConns int
	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns int
	// ConnMaxLifetime is the maximum lifetime of a connection.
	ConnMaxLifetime time.Duration
	// ConnMaxIdleTime is the maximum idle time of a connection.
	ConnMaxIdleTime time.Duration
	// HealthCheckInterval is how often to run health checks.
	HealthCheckInterval time.Duration
	// HealthCheckTimeout bounds a single background health check.
	HealthCheckTimeout time.Duration
	// AcquireTimeout bounds Acquire (0 = only the caller's context).
	AcquireTimeout time.Duration
}

// DefaultConfig returns the default pool configuration.
func DefaultConfig() Config {
	return Config{
		MaxOpenConns:        25,
		MaxIdleConns:        5,
		ConnMaxLifetime:     30 * time.Minute,
		ConnMaxIdleTime:     10 * time.Minute,
		HealthCheckInterval: 1 * time.Minute,
		HealthCheckTimeout:  5 * time.Second,
		AcquireTimeout:      10 * time.Second,
	}
}

// Option configures a Pool.
type Option func(*Pool)

// WithTelemetry reports acquire and health check events to t.
func WithTelemetry(t telemetry.Telemetry) Option {
	return func(p *Pool) {
		p.telemetry = t
	}
}

// Pool hands out dedicated sessions on one shared database. Each session
// returned by Acquire is a query.Connection owned by a single goroutine
// until it is closed.
type Pool struct {
	db        *sqlx.DB
	provider  database.Provider
	config    Config
	telemetry telemetry.Telemetry

	// Metrics
	mu              sync.RWMutex
	acquired        int64
	failedAcquires  int64
	failedChecks    int64
	lastHealthCheck time.Time

	// Lifecycle
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// New opens the database described by dbConfig and starts the health check
// routine if configured.
func New(dbConfig database.Config, config Config, opts ...Option) (*Pool, error) {
	provider, err := database.Lookup(dbConfig.Provider)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(provider.DriverName(), dbConfig.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	ctx, cancel := context.WithCancel(context.Background())

	pool := &Pool{
		db:        db,
		provider:  provider,
		config:    config,
		telemetry: telemetry.NewNoopTelemetry(),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(pool)
	}

	if config.HealthCheckInterval > 0 {
		pool.wg.Add(1)
		go pool.healthCheckLoop()
	}

	logging.Info("connection pool opened",
		zap.String("provider", dbConfig.Provider),
		zap.Int("max_open_conns", config.MaxOpenConns),
		zap.Duration("health_check_interval", config.HealthCheckInterval),
	)
	return pool, nil
}

// Acquire pins a session for the caller. Closing the session returns it
// to the pool.
func (p *Pool) Acquire(ctx context.Context) (*database.Conn, error) {
	if p.ctx.Err() != nil {
		return nil, sqlerr.NewConnectionError(sqlerr.Unavailable, "", ErrClosed)
	}

	if p.config.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.AcquireTimeout)
		defer cancel()
	}

	start := time.Now()
	conn, err := database.Attach(ctx, p.db, p.provider)

	p.mu.Lock()
	if err != nil {
		p.failedAcquires++
	} else {
		p.acquired++
	}
	p.mu.Unlock()

	p.telemetry.RecordConnection(ctx, telemetry.ConnectionInfo{
		Event:             "acquire",
		Duration:          time.Since(start),
		Success:           err == nil,
		ActiveConnections: p.db.Stats().InUse,
	})
	if err != nil {
		logging.Warn("failed to acquire session", zap.Error(err))
		return nil, err
	}
	return conn, nil
}

// Provider returns the database provider.
func (p *Pool) Provider() database.Provider {
	return p.provider
}

// Stats returns current pool statistics.
func (p *Pool) Stats() PoolStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	dbStats := p.db.Stats()

	return PoolStats{
		MaxOpenConnections: p.config.MaxOpenConns,
		OpenConnections:    dbStats.OpenConnections,
		InUse:              dbStats.InUse,
		Idle:               dbStats.Idle,
		WaitCount:          dbStats.WaitCount,
		WaitDuration:       dbStats.WaitDuration,
		MaxIdleClosed:      dbStats.MaxIdleClosed,
		MaxLifetimeClosed:  dbStats.MaxLifetimeClosed,
		Acquired:           p.acquired,
		FailedAcquires:     p.failedAcquires,
		FailedHealthChecks: p.failedChecks,
		LastHealthCheck:    p.lastHealthCheck,
	}
}

// PoolStats represents pool statistics.
type PoolStats struct {
	MaxOpenConnections int
	OpenConnections    int
	InUse              int
	Idle               int
	WaitCount          int64
	WaitDuration       time.Duration
	MaxIdleClosed      int64
	MaxLifetimeClosed  int64
	Acquired           int64
	FailedAcquires     int64
	FailedHealthChecks int64
	LastHealthCheck    time.Time
}

// HealthCheck performs a health check on the connection pool.
func (p *Pool) HealthCheck(ctx context.Context) error {
	start := time.Now()
	p.mu.Lock()
	p.lastHealthCheck = start
	p.mu.Unlock()

	err := p.db.PingContext(ctx)
	p.telemetry.RecordConnection(ctx, telemetry.ConnectionInfo{
		Event:             "health_check",
		Duration:          time.Since(start),
		Success:           err == nil,
		ActiveConnections: p.db.Stats().InUse,
	})
	if err != nil {
		p.mu.Lock()
		p.failedChecks++
		p.mu.Unlock()
		return fmt.Errorf("health check failed: %w", err)
	}

	return nil
}

// healthCheckLoop runs periodic health checks.
func (p *Pool) healthCheckLoop() {
	defer p.wg.Done()

	timeout := p.config.HealthCheckTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	ticker := time.NewTicker(p.config.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(p.ctx, timeout)
			if err := p.HealthCheck(ctx); err != nil && p.ctx.Err() == nil {
				logging.Warn("pool health check failed", zap.Error(err))
			}
			cancel()
		}
	}
}

// Close stops the health checks and closes the database. Sessions still
// held by callers are closed as they are released.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		p.cancel()
		p.wg.Wait()
		p.closeErr = p.db.Close()
		logging.Info("connection pool closed")
	})
	return p.closeErr
}
