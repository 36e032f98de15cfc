// Package sqltypes defines the wire type tags attached to raw queries.
//
// A tag is a zero-size marker type. It never exists as a meaningful runtime
// value; it is used as a type parameter so that the compiler can check that a
// query and the binding used to decode its rows agree on the wire type.
//
//	q := query.SQL[sqltypes.Integer]("SELECT 42")
//	v, err := query.Load(ctx, conn, q, deserialize.Int[uint32]())
//
// Passing deserialize.String() to the query above does not compile.
package sqltypes

// SQLType is implemented by every wire type tag. The interface is sealed:
// new tags are added in this package.
type SQLType interface {
	// SQLName returns the SQL spelling of the type, used in logs and errors.
	SQLName() string

	sqlType()
}

// NotNull is implemented by every tag except Nullable. Nullable only wraps
// NotNull tags, so Nullable[Nullable[Integer]] does not compile.
type NotNull interface {
	SQLType
	notNull()
}

// Integer is a 32-bit signed SQL integer (INTEGER / INT4).
type Integer struct{}

// SmallInt is a 16-bit signed SQL integer (SMALLINT / INT2).
type SmallInt struct{}

// BigInt is a 64-bit signed SQL integer (BIGINT / INT8).
type BigInt struct{}

// Text is a character string (TEXT / VARCHAR).
type Text struct{}

// Double is a double precision float (DOUBLE PRECISION / REAL).
type Double struct{}

// Bool is a boolean.
type Bool struct{}

// Binary is an opaque byte string (BLOB / BYTEA / VARBINARY).
type Binary struct{}

// Timestamp is a point in time (TIMESTAMP / DATETIME).
type Timestamp struct{}

// Nullable marks a column of type T that may hold NULL.
type Nullable[T NotNull] struct{}

func (Integer) SQLName() string   { return "INTEGER" }
func (SmallInt) SQLName() string  { return "SMALLINT" }
func (BigInt) SQLName() string    { return "BIGINT" }
func (Text) SQLName() string      { return "TEXT" }
func (Double) SQLName() string    { return "DOUBLE" }
func (Bool) SQLName() string      { return "BOOLEAN" }
func (Binary) SQLName() string    { return "BINARY" }
func (Timestamp) SQLName() string { return "TIMESTAMP" }

// SQLName returns the inner type's name followed by NULL.
func (Nullable[T]) SQLName() string {
	var inner T
	return inner.SQLName() + " NULL"
}

func (Integer) sqlType()     {}
func (SmallInt) sqlType()    {}
func (BigInt) sqlType()      {}
func (Text) sqlType()        {}
func (Double) sqlType()      {}
func (Bool) sqlType()        {}
func (Binary) sqlType()      {}
func (Timestamp) sqlType()   {}
func (Nullable[T]) sqlType() {}

func (Integer) notNull()   {}
func (SmallInt) notNull()  {}
func (BigInt) notNull()    {}
func (Text) notNull()      {}
func (Double) notNull()    {}
func (Bool) notNull()      {}
func (Binary) notNull()    {}
func (Timestamp) notNull() {}

// Name returns the SQL name of the tag W.
func Name[W SQLType]() string {
	var w W
	return w.SQLName()
}
