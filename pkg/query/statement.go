package query

import (
	"context"

	"github.com/moyeah/diesel/pkg/deserialize"
	"github.com/moyeah/diesel/pkg/sqltypes"
)

// Statement is a raw query bundled with the binding its rows decode with.
// It holds no database state and can be shared between goroutines.
type Statement[W sqltypes.SQLType, T any] struct {
	Query   RawQuery[W]
	Binding deserialize.Binding[W, T]
}

// Typed bundles q with b.
func Typed[W sqltypes.SQLType, T any](q RawQuery[W], b deserialize.Binding[W, T]) Statement[W, T] {
	return Statement[W, T]{Query: q, Binding: b}
}

// Load runs Load on conn.
func (s Statement[W, T]) Load(ctx context.Context, conn Connection) ([]T, error) {
	return Load(ctx, conn, s.Query, s.Binding)
}

// One runs LoadOne on conn.
func (s Statement[W, T]) One(ctx context.Context, conn Connection) (T, error) {
	return LoadOne(ctx, conn, s.Query, s.Binding)
}

// First runs First on conn.
func (s Statement[W, T]) First(ctx context.Context, conn Connection) (T, error) {
	return First(ctx, conn, s.Query, s.Binding)
}
