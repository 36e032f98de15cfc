// Package deserialize provides the native type bindings used to decode raw
// cells into Go values.
//
// A Binding[W, T] decodes one cell of wire type W into a T. Bindings are only
// obtained through the typed constructors of this package (or Func for custom
// rules), so requesting a pairing that has no rule, such as decoding a Text
// column into a uint32, is a compile error rather than a runtime lookup
// failure.
package deserialize

import (
	"reflect"

	"github.com/moyeah/diesel/pkg/sqlerr"
	"github.com/moyeah/diesel/pkg/sqltypes"
)

// Binding decodes a cell of wire type W into a native T.
type Binding[W sqltypes.SQLType, T any] interface {
	// FromSQL decodes the cell. It returns a *sqlerr.DecodeError on failure
	// and must be pure: the same cell always yields the same result.
	FromSQL(cell sqltypes.Cell) (T, error)
}

// Func adapts a function into a Binding for wire type W. It is the extension
// point for rules this package does not provide.
type Func[W sqltypes.SQLType, T any] func(cell sqltypes.Cell) (T, error)

// FromSQL calls f(cell).
func (f Func[W, T]) FromSQL(cell sqltypes.Cell) (T, error) {
	return f(cell)
}

// NewDecodeError builds a DecodeError for wire type W and native type T.
// Custom bindings use it to report failures the same way built-in ones do.
func NewDecodeError[W sqltypes.SQLType, T any](kind sqlerr.DecodeKind, cell sqltypes.Cell, cause error) *sqlerr.DecodeError {
	value := ""
	if !cell.IsNull() {
		value = cell.String()
	}
	return sqlerr.NewDecodeError(kind, sqltypes.Name[W](), nativeName[T](), value, cause)
}

func nativeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

func unexpectedNull[W sqltypes.SQLType, T any]() error {
	return NewDecodeError[W, T](sqlerr.UnexpectedNull, sqltypes.Null(), nil)
}

func malformed[W sqltypes.SQLType, T any](cell sqltypes.Cell, cause error) error {
	return NewDecodeError[W, T](sqlerr.MalformedValue, cell, cause)
}

func outOfRange[W sqltypes.SQLType, T any](cell sqltypes.Cell) error {
	return NewDecodeError[W, T](sqlerr.OutOfRange, cell, nil)
}
