// Package query executes raw SQL text and decodes the rows into typed Go
// values.
//
// A RawQuery pairs SQL text with the wire type W of its first result
// column. Load runs it on a Connection and decodes every row with a
// deserialize.Binding for the same W, so a query and a binding that disagree
// on the wire type are rejected by the compiler:
//
//	q := query.SQL[sqltypes.Text]("SELECT sqlite_version()")
//	v, err := query.LoadOne(ctx, conn, q, deserialize.String())
package query

import (
	"fmt"
	"slices"

	"github.com/moyeah/diesel/pkg/sqltypes"
)

// RawQuery is literal SQL text whose first result column has wire type W.
// Constructing one never touches the database and never validates the
// text; errors in it surface when it is executed. RawQuery is immutable.
type RawQuery[W sqltypes.SQLType] struct {
	text string
	args []any
}

// SQL creates a raw query with the wire type given as a type argument.
func SQL[W sqltypes.SQLType](text string) RawQuery[W] {
	return RawQuery[W]{text: text}
}

// New creates a raw query with the wire type given as a tag value.
//
//	query.New("SELECT 42", sqltypes.Integer{})
func New[W sqltypes.SQLType](text string, tag W) RawQuery[W] {
	_ = tag
	return RawQuery[W]{text: text}
}

// Bind returns a copy of the query with positional arguments attached.
// Placeholders follow the driver's syntax ("?" or "$1").
func (q RawQuery[W]) Bind(args ...any) RawQuery[W] {
	return RawQuery[W]{
		text: q.text,
		args: append(slices.Clone(q.args), args...),
	}
}

// Text returns the SQL text.
func (q RawQuery[W]) Text() string {
	return q.text
}

// Args returns a copy of the bound arguments.
func (q RawQuery[W]) Args() []any {
	return slices.Clone(q.args)
}

// Tag returns the wire type tag.
func (q RawQuery[W]) Tag() W {
	var w W
	return w
}

// SQLType returns the SQL name of the declared wire type.
func (q RawQuery[W]) SQLType() string {
	return sqltypes.Name[W]()
}

// String renders the query with its declared type, for logs.
func (q RawQuery[W]) String() string {
	return fmt.Sprintf("%s -- %s", q.text, q.SQLType())
}
