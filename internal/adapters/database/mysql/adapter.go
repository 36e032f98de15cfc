// Package mysql implements the MySQL database provider.
package mysql

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/moyeah/diesel/internal/adapters/database"
	"github.com/moyeah/diesel/pkg/sqlerr"
)

// Provider is the name the MySQL provider is registered under.
const Provider = "mysql"

func init() {
	database.Register(Adapter{}, Provider, "mariadb")
}

// Server error numbers that mean the session cannot be used.
var unavailableErrors = map[uint16]bool{
	1040: true, // ER_CON_COUNT_ERROR
	1045: true, // ER_ACCESS_DENIED_ERROR
	1053: true, // ER_SERVER_SHUTDOWN
	1129: true, // ER_HOST_IS_BLOCKED
	1205: true, // ER_LOCK_WAIT_TIMEOUT
	1213: true, // ER_LOCK_DEADLOCK
	2006: true, // CR_SERVER_GONE_ERROR
	2013: true, // CR_SERVER_LOST
	3024: true, // ER_QUERY_TIMEOUT
}

// Adapter implements database.Provider for MySQL.
type Adapter struct{}

// Dialect returns the SQL dialect.
func (Adapter) Dialect() database.SQLDialect {
	return database.MySQL
}

// DriverName returns the database/sql driver name registered by go-sql-driver.
func (Adapter) DriverName() string {
	return "mysql"
}

// InitSession needs no setup for MySQL.
func (Adapter) InitSession(ctx context.Context, conn *sqlx.Conn) error {
	return nil
}

// Classify maps server errors and driver sentinels to connection error kinds.
func (Adapter) Classify(err error) (sqlerr.ConnectionKind, bool) {
	switch {
	case errors.Is(err, mysql.ErrInvalidConn):
		return sqlerr.Unavailable, true
	case errors.Is(err, mysql.ErrMalformPkt),
		errors.Is(err, mysql.ErrPktSync),
		errors.Is(err, mysql.ErrPktSyncMul),
		errors.Is(err, mysql.ErrPktTooLarge):
		return sqlerr.Protocol, true
	}

	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return 0, false
	}
	if unavailableErrors[me.Number] {
		return sqlerr.Unavailable, true
	}
	// Every other server error rejects the statement itself.
	return sqlerr.Syntax, true
}

// Ensure Adapter implements Provider interface.
var _ database.Provider = Adapter{}
