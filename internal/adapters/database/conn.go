package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/moyeah/diesel/internal/logging"
	"github.com/moyeah/diesel/pkg/sqlerr"
	"github.com/moyeah/diesel/pkg/sqltypes"
)

// DefaultConnectTimeout bounds Establish when Config.ConnectTimeout is zero.
const DefaultConnectTimeout = 10 * time.Second

// Conn is one dedicated database session. It implements query.Connection
// and, like every Connection, must not be used by two goroutines at once.
type Conn struct {
	db       *sqlx.DB
	conn     *sqlx.Conn
	provider Provider
	ownsDB   bool
}

// Establish opens a database and pins a single session on it. Closing the
// returned Conn closes the database as well.
func Establish(ctx context.Context, cfg Config) (*Conn, error) {
	p, err := Lookup(cfg.Provider)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(p.DriverName(), cfg.URL)
	if err != nil {
		return nil, sqlerr.NewConnectionError(sqlerr.Unavailable, "", fmt.Errorf("failed to open database: %w", err))
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c, err := attach(ctx, db, p)
	if err != nil {
		db.Close()
		return nil, err
	}
	c.ownsDB = true

	logging.Info("database session established",
		zap.String("provider", cfg.Provider),
		zap.String("dialect", string(p.Dialect())),
	)
	return c, nil
}

// Attach pins a new session on an already open database. Closing the
// returned Conn returns the session to db; db stays open.
func Attach(ctx context.Context, db *sqlx.DB, p Provider) (*Conn, error) {
	return attach(ctx, db, p)
}

func attach(ctx context.Context, db *sqlx.DB, p Provider) (*Conn, error) {
	conn, err := db.Connx(ctx)
	if err != nil {
		return nil, classify(p, "", err, sqlerr.Unavailable)
	}

	if err := p.InitSession(ctx, conn); err != nil {
		conn.Close()
		return nil, classify(p, "", fmt.Errorf("failed to initialize session: %w", err), sqlerr.Unavailable)
	}

	return &Conn{db: db, conn: conn, provider: p}, nil
}

// Execute runs query on the session and returns every row as raw cells.
func (c *Conn) Execute(ctx context.Context, query string, args ...any) ([]sqltypes.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, c.fail(query, err, sqlerr.Unavailable)
	}
	start := time.Now()

	rows, err := c.conn.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, c.fail(query, err, sqlerr.Syntax)
	}
	defer rows.Close()

	var out []sqltypes.Row
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, c.fail(query, err, sqlerr.Protocol)
		}
		out = append(out, sqltypes.NewRow(values...))
	}
	if err := rows.Err(); err != nil {
		return nil, c.fail(query, err, sqlerr.Protocol)
	}

	logging.Debug("query executed",
		zap.String("query", query),
		zap.Int("rows", len(out)),
		zap.Duration("took", time.Since(start)),
	)
	return out, nil
}

func (c *Conn) fail(query string, err error, fallback sqlerr.ConnectionKind) error {
	connErr := classify(c.provider, query, err, fallback)
	logging.Debug("query failed",
		zap.String("query", query),
		zap.Stringer("kind", connErr.Kind),
		zap.Error(err),
	)
	return connErr
}

// Ping checks the session is alive.
func (c *Conn) Ping(ctx context.Context) error {
	if err := c.conn.PingContext(ctx); err != nil {
		return classify(c.provider, "", err, sqlerr.Unavailable)
	}
	return nil
}

// Close releases the session, and the database if Establish opened it.
func (c *Conn) Close() error {
	err := c.conn.Close()
	if errors.Is(err, sql.ErrConnDone) {
		err = nil
	}
	if c.ownsDB {
		err = errors.Join(err, c.db.Close())
	}
	return err
}

// Dialect returns the SQL dialect.
func (c *Conn) Dialect() SQLDialect {
	return c.provider.Dialect()
}

// classify turns err into a ConnectionError. Transport failures are
// recognized first, then the provider's driver errors; anything else gets
// the fallback kind.
func classify(p Provider, query string, err error, fallback sqlerr.ConnectionKind) *sqlerr.ConnectionError {
	var connErr *sqlerr.ConnectionError
	if errors.As(err, &connErr) {
		return connErr
	}

	if kind, ok := transportKind(err); ok {
		return sqlerr.NewConnectionError(kind, query, err)
	}
	if p != nil {
		if kind, ok := p.Classify(err); ok {
			return sqlerr.NewConnectionError(kind, query, err)
		}
	}
	return sqlerr.NewConnectionError(fallback, query, err)
}

func transportKind(err error) (sqlerr.ConnectionKind, bool) {
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone):
		return sqlerr.Unavailable, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return sqlerr.Unavailable, true
	}
	return 0, false
}

// Ensure Conn implements Adapter interface.
var _ Adapter = (*Conn)(nil)
