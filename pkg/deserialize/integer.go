package deserialize

import (
	"errors"
	"math"
	"strconv"

	"github.com/moyeah/diesel/pkg/sqltypes"
)

// Integral is the set of Go integer types an integer column can decode into.
type Integral interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type integerBinding[W sqltypes.SQLType, T Integral] struct{}

func (integerBinding[W, T]) FromSQL(cell sqltypes.Cell) (T, error) {
	return decodeInteger[W, T](cell)
}

// Int decodes an INTEGER column into any Go integer type. Values that do
// not fit T fail with an out of range error.
func Int[T Integral]() Binding[sqltypes.Integer, T] {
	return integerBinding[sqltypes.Integer, T]{}
}

// SmallInt decodes a SMALLINT column into any Go integer type.
func SmallInt[T Integral]() Binding[sqltypes.SmallInt, T] {
	return integerBinding[sqltypes.SmallInt, T]{}
}

// BigInt decodes a BIGINT column into any Go integer type.
func BigInt[T Integral]() Binding[sqltypes.BigInt, T] {
	return integerBinding[sqltypes.BigInt, T]{}
}

func decodeInteger[W sqltypes.SQLType, T Integral](cell sqltypes.Cell) (T, error) {
	switch v := cell.Value().(type) {
	case nil:
		return 0, unexpectedNull[W, T]()
	case int64:
		return fromInt64[W, T](v, cell)
	case int:
		return fromInt64[W, T](int64(v), cell)
	case int32:
		return fromInt64[W, T](int64(v), cell)
	case int16:
		return fromInt64[W, T](int64(v), cell)
	case int8:
		return fromInt64[W, T](int64(v), cell)
	case uint64:
		return fromUint64[W, T](v, cell)
	case uint:
		return fromUint64[W, T](uint64(v), cell)
	case uint32:
		return fromUint64[W, T](uint64(v), cell)
	case uint16:
		return fromUint64[W, T](uint64(v), cell)
	case uint8:
		return fromUint64[W, T](uint64(v), cell)
	case float64:
		// 2^63 is exactly representable; anything at or above it cannot be an int64.
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, malformed[W, T](cell, nil)
		}
		return fromInt64[W, T](int64(v), cell)
	case []byte:
		return parseInteger[W, T](string(v), cell)
	case string:
		return parseInteger[W, T](v, cell)
	default:
		return 0, malformed[W, T](cell, nil)
	}
}

func fromInt64[W sqltypes.SQLType, T Integral](v int64, cell sqltypes.Cell) (T, error) {
	t := T(v)
	if int64(t) != v || (t < 0) != (v < 0) {
		return 0, outOfRange[W, T](cell)
	}
	return t, nil
}

func fromUint64[W sqltypes.SQLType, T Integral](v uint64, cell sqltypes.Cell) (T, error) {
	t := T(v)
	if uint64(t) != v || t < 0 {
		return 0, outOfRange[W, T](cell)
	}
	return t, nil
}

// parseInteger handles drivers that deliver integers as decimal text.
func parseInteger[W sqltypes.SQLType, T Integral](s string, cell sqltypes.Cell) (T, error) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return fromInt64[W, T](i, cell)
	}
	if !errors.Is(err, strconv.ErrRange) {
		return 0, malformed[W, T](cell, err)
	}

	u, uerr := strconv.ParseUint(s, 10, 64)
	if uerr == nil {
		return fromUint64[W, T](u, cell)
	}
	return 0, outOfRange[W, T](cell)
}
