// Package sqlite provides helpers that query a SQLite database for the
// version of the library it runs on.
package sqlite

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-version"

	"github.com/moyeah/diesel/pkg/deserialize"
	"github.com/moyeah/diesel/pkg/query"
	"github.com/moyeah/diesel/pkg/sqltypes"
)

var (
	versionNumberStmt = query.Typed(
		query.SQL[sqltypes.Integer]("SELECT sqlite_version_number()"),
		deserialize.Int[uint32](),
	)

	versionStmt = query.Typed(
		query.SQL[sqltypes.Text]("SELECT sqlite_version()"),
		deserialize.String(),
	)
)

// VersionNumber returns the SQLite version as an integer, e.g. 3016002 for
// version 3.16.2. See sqlite3_libversion_number().
func VersionNumber(ctx context.Context, conn query.Connection) (uint32, error) {
	return versionNumberStmt.One(ctx, conn)
}

// Version returns the SQLite version string, e.g. "3.16.2". See
// sqlite3_libversion().
func Version(ctx context.Context, conn query.Connection) (string, error) {
	return versionStmt.One(ctx, conn)
}

// ParsedVersion returns the SQLite version as a comparable version.
func ParsedVersion(ctx context.Context, conn query.Connection) (*version.Version, error) {
	s, err := Version(ctx, conn)
	if err != nil {
		return nil, err
	}

	v, err := version.NewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("invalid sqlite version %q: %w", s, err)
	}
	return v, nil
}

// SplitVersionNumber splits a version number into its major, minor and
// patch components: 3016002 is (3, 16, 2).
func SplitVersionNumber(n uint32) (major, minor, patch uint32) {
	return n / 1000000, n / 1000 % 1000, n % 1000
}
