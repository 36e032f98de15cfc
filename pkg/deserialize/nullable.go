package deserialize

import (
	"database/sql"

	"github.com/moyeah/diesel/pkg/sqltypes"
)

// Nullable lifts a binding for W into one for Nullable[W]. NULL decodes to
// an invalid sql.Null; any other cell is decoded by inner.
func Nullable[W sqltypes.NotNull, T any](inner Binding[W, T]) Binding[sqltypes.Nullable[W], sql.Null[T]] {
	return Func[sqltypes.Nullable[W], sql.Null[T]](func(cell sqltypes.Cell) (sql.Null[T], error) {
		if cell.IsNull() {
			return sql.Null[T]{}, nil
		}
		v, err := inner.FromSQL(cell)
		if err != nil {
			return sql.Null[T]{}, err
		}
		return sql.Null[T]{V: v, Valid: true}, nil
	})
}

// Optional is Nullable with a pointer result: nil for NULL.
func Optional[W sqltypes.NotNull, T any](inner Binding[W, T]) Binding[sqltypes.Nullable[W], *T] {
	return Func[sqltypes.Nullable[W], *T](func(cell sqltypes.Cell) (*T, error) {
		if cell.IsNull() {
			return nil, nil
		}
		v, err := inner.FromSQL(cell)
		if err != nil {
			return nil, err
		}
		return &v, nil
	})
}
