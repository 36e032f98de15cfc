// Package postgres implements the PostgreSQL database provider.
package postgres

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/moyeah/diesel/internal/adapters/database"
	"github.com/moyeah/diesel/pkg/sqlerr"
)

// Provider is the name the PostgreSQL provider is registered under.
const Provider = "postgresql"

func init() {
	database.Register(Adapter{}, Provider, "postgres")
}

// Adapter implements database.Provider for PostgreSQL.
type Adapter struct{}

// Dialect returns the SQL dialect.
func (Adapter) Dialect() database.SQLDialect {
	return database.PostgreSQL
}

// DriverName returns the database/sql driver name registered by lib/pq.
func (Adapter) DriverName() string {
	return "postgres"
}

// InitSession needs no setup for PostgreSQL.
func (Adapter) InitSession(ctx context.Context, conn *sqlx.Conn) error {
	return nil
}

// Classify maps SQLSTATE classes to connection error kinds.
func (Adapter) Classify(err error) (sqlerr.ConnectionKind, bool) {
	var pe *pq.Error
	if !errors.As(err, &pe) {
		return 0, false
	}

	switch pe.Code.Class() {
	case "42", // syntax error or access rule violation
		"22", // data exception
		"23", // integrity constraint violation
		"0A", // feature not supported
		"2B", "2D", "25", "26", "34", "3D", "3F", "44":
		return sqlerr.Syntax, true
	case "08", // connection exception
		"28", // invalid authorization specification
		"53", // insufficient resources
		"57", // operator intervention
		"40": // transaction rollback
		return sqlerr.Unavailable, true
	case "XX", // internal error
		"58": // system error
		return sqlerr.Protocol, true
	default:
		return 0, false
	}
}

// Ensure Adapter implements Provider interface.
var _ database.Provider = Adapter{}
