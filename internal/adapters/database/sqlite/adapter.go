// Package sqlite implements the SQLite database provider.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/moyeah/diesel/internal/adapters/database"
	"github.com/moyeah/diesel/pkg/sqlerr"
)

// Provider is the name the SQLite provider is registered under.
const Provider = "sqlite"

// DriverName is the database/sql driver registered by this package. It is
// go-sqlite3 with the extra SQL functions in ConnectHook.
const DriverName = "sqlite3_diesel"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: registerFunctions,
	})
	database.Register(Adapter{}, Provider, "sqlite3", "file")
}

// registerFunctions adds sqlite_version_number(), the SQL counterpart of
// sqlite3_libversion_number(), which SQLite itself only exposes in C.
func registerFunctions(conn *sqlite3.SQLiteConn) error {
	_, number, _ := sqlite3.Version()
	if err := conn.RegisterFunc("sqlite_version_number", func() int64 {
		return int64(number)
	}, true); err != nil {
		return fmt.Errorf("failed to register sqlite_version_number: %w", err)
	}
	return nil
}

// Adapter implements database.Provider for SQLite.
type Adapter struct{}

// Dialect returns the SQL dialect.
func (Adapter) Dialect() database.SQLDialect {
	return database.SQLite
}

// DriverName returns the database/sql driver name.
func (Adapter) DriverName() string {
	return DriverName
}

// InitSession enables foreign keys, which SQLite disables by default.
func (Adapter) InitSession(ctx context.Context, conn *sqlx.Conn) error {
	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return nil
}

// Classify maps go-sqlite3 result codes to connection error kinds.
func (Adapter) Classify(err error) (sqlerr.ConnectionKind, bool) {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return 0, false
	}

	switch se.Code {
	case sqlite3.ErrError, sqlite3.ErrConstraint, sqlite3.ErrSchema, sqlite3.ErrTooBig, sqlite3.ErrRange:
		return sqlerr.Syntax, true
	case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen, sqlite3.ErrIoErr,
		sqlite3.ErrInterrupt, sqlite3.ErrNomem, sqlite3.ErrPerm, sqlite3.ErrReadonly,
		sqlite3.ErrFull, sqlite3.ErrAuth, sqlite3.ErrAbort:
		return sqlerr.Unavailable, true
	case sqlite3.ErrCorrupt, sqlite3.ErrNotADB, sqlite3.ErrFormat, sqlite3.ErrMismatch,
		sqlite3.ErrProtocol, sqlite3.ErrMisuse, sqlite3.ErrInternal:
		return sqlerr.Protocol, true
	default:
		return 0, false
	}
}

// Ensure Adapter implements Provider interface.
var _ database.Provider = Adapter{}
