// Package service implements the query service used by the CLI.
package service

import (
	"context"
	"time"

	"github.com/hashicorp/go-version"
	"go.uber.org/zap"

	"github.com/moyeah/diesel/internal/adapters/telemetry"
	"github.com/moyeah/diesel/internal/core/database/pool"
	"github.com/moyeah/diesel/internal/logging"
	"github.com/moyeah/diesel/pkg/query"
	"github.com/moyeah/diesel/pkg/sqlite"
	"github.com/moyeah/diesel/pkg/sqltypes"
)

// Session is a dedicated connection that is released with Close.
type Session interface {
	query.Connection
	Close() error
}

// Acquirer hands out sessions.
type Acquirer interface {
	Acquire(ctx context.Context) (Session, error)
}

// AcquirerFunc adapts a function to Acquirer.
type AcquirerFunc func(ctx context.Context) (Session, error)

// Acquire calls f.
func (f AcquirerFunc) Acquire(ctx context.Context) (Session, error) {
	return f(ctx)
}

// FromPool returns an Acquirer backed by p.
func FromPool(p *pool.Pool) Acquirer {
	return AcquirerFunc(func(ctx context.Context) (Session, error) {
		conn, err := p.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		return conn, nil
	})
}

// QueryService runs typed loads on pooled sessions and records telemetry
// for each of them.
type QueryService struct {
	source    Acquirer
	telemetry telemetry.Telemetry
}

// NewQueryService creates a new query service.
func NewQueryService(source Acquirer, t telemetry.Telemetry) *QueryService {
	if t == nil {
		t = telemetry.NewNoopTelemetry()
	}
	return &QueryService{
		source:    source,
		telemetry: t,
	}
}

// Run loads every row of stmt on a fresh session.
func Run[W sqltypes.SQLType, T any](ctx context.Context, s *QueryService, stmt query.Statement[W, T]) ([]T, error) {
	var out []T
	err := s.withSession(ctx, func(conn query.Connection) error {
		return s.observe(ctx, stmt.Query.Text(), stmt.Query.SQLType(), func() (int, error) {
			var err error
			out, err = stmt.Load(ctx, conn)
			return len(out), err
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RunOne loads the single row of stmt on a fresh session.
func RunOne[W sqltypes.SQLType, T any](ctx context.Context, s *QueryService, stmt query.Statement[W, T]) (T, error) {
	var out T
	err := s.withSession(ctx, func(conn query.Connection) error {
		return s.observe(ctx, stmt.Query.Text(), stmt.Query.SQLType(), func() (int, error) {
			var err error
			out, err = stmt.One(ctx, conn)
			return rowCount(err), err
		})
	})
	return out, err
}

// LoadFunc decodes rows whose wire type is only known at run time.
type LoadFunc func(ctx context.Context, conn query.Connection) ([]any, error)

// RunFunc runs load on a fresh session and records it under sqlType.
func (s *QueryService) RunFunc(ctx context.Context, text, sqlType string, load LoadFunc) ([]any, error) {
	var out []any
	err := s.withSession(ctx, func(conn query.Connection) error {
		return s.observe(ctx, text, sqlType, func() (int, error) {
			var err error
			out, err = load(ctx, conn)
			return len(out), err
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SQLiteVersionInfo is what SQLiteVersion reports.
type SQLiteVersionInfo struct {
	Number  uint32
	Text    string
	Version *version.Version
}

// SQLiteVersion runs both SQLite version queries on one session.
func (s *QueryService) SQLiteVersion(ctx context.Context) (SQLiteVersionInfo, error) {
	var info SQLiteVersionInfo
	err := s.withSession(ctx, func(conn query.Connection) error {
		if err := s.observe(ctx, "SELECT sqlite_version_number()", sqltypes.Name[sqltypes.Integer](), func() (int, error) {
			var err error
			info.Number, err = sqlite.VersionNumber(ctx, conn)
			return rowCount(err), err
		}); err != nil {
			return err
		}
		return s.observe(ctx, "SELECT sqlite_version()", sqltypes.Name[sqltypes.Text](), func() (int, error) {
			var err error
			info.Version, err = sqlite.ParsedVersion(ctx, conn)
			if info.Version != nil {
				info.Text = info.Version.Original()
			}
			return rowCount(err), err
		})
	})
	return info, err
}

func (s *QueryService) withSession(ctx context.Context, fn func(conn query.Connection) error) error {
	conn, err := s.source.Acquire(ctx)
	if err != nil {
		return err
	}
	err = fn(conn)
	if cerr := conn.Close(); cerr != nil {
		if err == nil {
			return cerr
		}
		logging.Warn("failed to release session", zap.Error(cerr))
	}
	return err
}

func (s *QueryService) observe(ctx context.Context, text, sqlType string, fn func() (int, error)) error {
	id := telemetry.NewQueryID()
	log := logging.With(
		zap.String("id", id),
		zap.String("query", text),
		zap.String("sql_type", sqlType),
	)
	start := time.Now()

	rows, err := fn()
	took := time.Since(start)

	s.telemetry.RecordQuery(ctx, telemetry.QueryInfo{
		ID:       id,
		Query:    text,
		SQLType:  sqlType,
		Duration: took,
		Success:  err == nil,
		Rows:     rows,
	})
	if err != nil {
		s.telemetry.RecordError(ctx, telemetry.ErrorInfo{
			ID:      id,
			Error:   err,
			Query:   text,
			SQLType: sqlType,
		})
		log.Debug("load failed", zap.Error(err))
		return err
	}

	log.Debug("load finished",
		zap.Int("rows", rows),
		zap.Duration("took", took),
	)
	return nil
}

// rowCount is the row count of a single-row load.
func rowCount(err error) int {
	if err != nil {
		return 0
	}
	return 1
}
