package query

import (
	"context"
	"errors"

	"github.com/moyeah/diesel/pkg/deserialize"
	"github.com/moyeah/diesel/pkg/sqlerr"
	"github.com/moyeah/diesel/pkg/sqltypes"
)

// Connection executes SQL text over one database session.
//
// A Connection is not safe for concurrent use: callers must serialize
// access or give each worker its own Connection. Execute may block on I/O;
// it returns a *sqlerr.ConnectionError on failure and reports a context
// deadline or cancellation as sqlerr.Unavailable.
type Connection interface {
	Execute(ctx context.Context, query string, args ...any) ([]sqltypes.Row, error)
}

// Load executes q on conn and decodes the first column of every returned
// row with b, preserving row order. Zero rows yield an empty, non-nil slice.
//
// Load fails fast: the first decode failure aborts the load and no partial
// result is returned. Every call re-executes the query.
func Load[W sqltypes.SQLType, T any](ctx context.Context, conn Connection, q RawQuery[W], b deserialize.Binding[W, T]) ([]T, error) {
	rows, err := conn.Execute(ctx, q.text, q.args...)
	if err != nil {
		return nil, sqlerr.NewConnectionLoadError(q.text, asConnectionError(q.text, err))
	}

	out := make([]T, 0, len(rows))
	for i, row := range rows {
		cell, ok := row.Column(0)
		if !ok {
			derr := deserialize.NewDecodeError[W, T](sqlerr.MalformedValue, sqltypes.Null(), errors.New("row has no columns"))
			return nil, sqlerr.NewDecodeLoadError(q.text, i, derr)
		}

		v, err := b.FromSQL(cell)
		if err != nil {
			return nil, sqlerr.NewDecodeLoadError(q.text, i, err)
		}
		out = append(out, v)
	}

	return out, nil
}

// LoadOne loads q and requires exactly one row. Zero rows fail with
// sqlerr.EmptyResult, more than one with sqlerr.TooManyRows.
func LoadOne[W sqltypes.SQLType, T any](ctx context.Context, conn Connection, q RawQuery[W], b deserialize.Binding[W, T]) (T, error) {
	var zero T

	values, err := Load(ctx, conn, q, b)
	if err != nil {
		return zero, err
	}

	switch len(values) {
	case 0:
		return zero, sqlerr.NewEmptyResultError(q.text)
	case 1:
		return values[0], nil
	default:
		return zero, sqlerr.NewTooManyRowsError(q.text)
	}
}

// First loads q and returns the first row's value. Zero rows fail with
// sqlerr.EmptyResult.
func First[W sqltypes.SQLType, T any](ctx context.Context, conn Connection, q RawQuery[W], b deserialize.Binding[W, T]) (T, error) {
	var zero T

	values, err := Load(ctx, conn, q, b)
	if err != nil {
		return zero, err
	}
	if len(values) == 0 {
		return zero, sqlerr.NewEmptyResultError(q.text)
	}
	return values[0], nil
}

// asConnectionError keeps conforming errors as they are. Bare errors from
// Connections that do not classify their failures become Unavailable for
// context errors and Protocol otherwise.
func asConnectionError(text string, err error) error {
	var connErr *sqlerr.ConnectionError
	if errors.As(err, &connErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return sqlerr.NewConnectionError(sqlerr.Unavailable, text, err)
	}
	return sqlerr.NewConnectionError(sqlerr.Protocol, text, err)
}
