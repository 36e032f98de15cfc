// Package typeexpr parses wire type expressions such as "integer",
// "nullable<bigint>" or "text?" and loads rows with the matching binding.
package typeexpr

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/moyeah/diesel/pkg/deserialize"
	"github.com/moyeah/diesel/pkg/query"
	"github.com/moyeah/diesel/pkg/sqltypes"
)

// Loader runs text on conn and returns the decoded first column of every
// row. NULL cells of nullable types come back as nil.
type Loader func(ctx context.Context, conn query.Connection, text string, args ...any) ([]any, error)

type entry struct {
	name    string
	aliases []string
	sqlName string
	native  string
	plain   Loader
	null    Loader
}

func newEntry[W sqltypes.NotNull, T any](name string, b deserialize.Binding[W, T], aliases ...string) *entry {
	nb := deserialize.Nullable[W, T](b)
	return &entry{
		name:    name,
		aliases: aliases,
		sqlName: sqltypes.Name[W](),
		native:  reflect.TypeFor[T]().String(),
		plain: func(ctx context.Context, conn query.Connection, text string, args ...any) ([]any, error) {
			values, err := query.Load(ctx, conn, query.SQL[W](text).Bind(args...), b)
			if err != nil {
				return nil, err
			}
			out := make([]any, len(values))
			for i, v := range values {
				out[i] = v
			}
			return out, nil
		},
		null: func(ctx context.Context, conn query.Connection, text string, args ...any) ([]any, error) {
			values, err := query.Load(ctx, conn, query.SQL[sqltypes.Nullable[W]](text).Bind(args...), nb)
			if err != nil {
				return nil, err
			}
			out := make([]any, len(values))
			for i, v := range values {
				if v.Valid {
					out[i] = v.V
				}
			}
			return out, nil
		},
	}
}

var (
	entries = []*entry{
		newEntry[sqltypes.Integer, int64]("integer", deserialize.Int[int64](), "int", "int4"),
		newEntry[sqltypes.SmallInt, int16]("smallint", deserialize.SmallInt[int16](), "int2"),
		newEntry[sqltypes.BigInt, int64]("bigint", deserialize.BigInt[int64](), "int8"),
		newEntry[sqltypes.Text, string]("text", deserialize.String(), "varchar", "string"),
		newEntry[sqltypes.Double, float64]("double", deserialize.Float[float64](), "float", "real", "float8"),
		newEntry[sqltypes.Bool, bool]("bool", deserialize.Bool(), "boolean"),
		newEntry[sqltypes.Binary, []byte]("binary", deserialize.Bytes(), "blob", "bytea"),
		newEntry[sqltypes.Timestamp, time.Time]("timestamp", deserialize.Time(), "datetime", "timestamptz"),
	}
	byName = indexEntries(entries)
)

func indexEntries(es []*entry) map[string]*entry {
	m := make(map[string]*entry)
	for _, e := range es {
		m[e.name] = e
		for _, a := range e.aliases {
			m[a] = e
		}
	}
	return m
}

// Type is a parsed wire type expression.
type Type struct {
	entry    *entry
	nullable bool
}

// Parse parses a wire type expression.
func Parse(s string) (Type, error) {
	raw, err := parser.ParseString("", s)
	if err != nil {
		return Type{}, fmt.Errorf("invalid type expression %q: %w", s, err)
	}

	name := raw.Bare
	nullable := raw.Optional
	if raw.Wrapped != nil {
		if raw.Optional {
			return Type{}, fmt.Errorf("invalid type expression %q: nullable type marked optional", s)
		}
		name = raw.Wrapped
		nullable = true
	}

	e, ok := byName[strings.ToLower(name.Name)]
	if !ok {
		return Type{}, fmt.Errorf("unknown type %q at %s (known: %s)", name.Name, name.Pos, strings.Join(Names(), ", "))
	}
	return Type{entry: e, nullable: nullable}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Type {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Nullable reports whether NULL cells are accepted.
func (t Type) Nullable() bool {
	return t.nullable
}

// SQLName returns the wire type name, e.g. "BIGINT NULL".
func (t Type) SQLName() string {
	if t.nullable {
		return t.entry.sqlName + " NULL"
	}
	return t.entry.sqlName
}

// Native returns the Go type values decode into.
func (t Type) Native() string {
	if t.nullable {
		return "sql.Null[" + t.entry.native + "]"
	}
	return t.entry.native
}

// String returns the canonical expression.
func (t Type) String() string {
	if t.nullable {
		return "nullable<" + t.entry.name + ">"
	}
	return t.entry.name
}

// Loader returns the loader for t.
func (t Type) Loader() Loader {
	if t.nullable {
		return t.entry.null
	}
	return t.entry.plain
}

// Info describes one supported base type.
type Info struct {
	Name    string
	Aliases []string
	SQLName string
	Native  string
}

// Types lists the supported base types in declaration order.
func Types() []Info {
	out := make([]Info, len(entries))
	for i, e := range entries {
		out[i] = Info{
			Name:    e.name,
			Aliases: append([]string(nil), e.aliases...),
			SQLName: e.sqlName,
			Native:  e.native,
		}
	}
	return out
}

// Names returns every accepted base type name and alias, sorted.
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
