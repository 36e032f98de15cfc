package deserialize

import (
	"database/sql"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyeah/diesel/pkg/sqlerr"
	"github.com/moyeah/diesel/pkg/sqltypes"
)

func decodeKind(t *testing.T, err error) sqlerr.DecodeKind {
	t.Helper()
	var de *sqlerr.DecodeError
	require.True(t, errors.As(err, &de), "expected DecodeError, got %v", err)
	return de.Kind
}

func TestIntBinding(t *testing.T) {
	t.Run("decodes int64 into uint32", func(t *testing.T) {
		v, err := Int[uint32]().FromSQL(sqltypes.NewCell(int64(42)))
		require.NoError(t, err)
		assert.Equal(t, uint32(42), v)
	})

	t.Run("2^40 does not fit 32-bit targets", func(t *testing.T) {
		cell := sqltypes.NewCell(int64(1) << 40)

		_, err := Int[uint32]().FromSQL(cell)
		assert.Equal(t, sqlerr.OutOfRange, decodeKind(t, err))
		assert.ErrorIs(t, err, sqlerr.ErrOutOfRange)

		_, err = Int[int32]().FromSQL(cell)
		assert.Equal(t, sqlerr.OutOfRange, decodeKind(t, err))

		v, err := Int[int64]().FromSQL(cell)
		require.NoError(t, err)
		assert.Equal(t, int64(1)<<40, v)
	})

	t.Run("negative into unsigned is out of range", func(t *testing.T) {
		_, err := Int[uint64]().FromSQL(sqltypes.NewCell(int64(-1)))
		assert.Equal(t, sqlerr.OutOfRange, decodeKind(t, err))
	})

	t.Run("int8 boundaries", func(t *testing.T) {
		v, err := SmallInt[int8]().FromSQL(sqltypes.NewCell(int64(-128)))
		require.NoError(t, err)
		assert.Equal(t, int8(-128), v)

		_, err = SmallInt[int8]().FromSQL(sqltypes.NewCell(int64(128)))
		assert.Equal(t, sqlerr.OutOfRange, decodeKind(t, err))
	})

	t.Run("uint64 beyond int64", func(t *testing.T) {
		big := uint64(math.MaxInt64) + 1

		v, err := BigInt[uint64]().FromSQL(sqltypes.NewCell(big))
		require.NoError(t, err)
		assert.Equal(t, big, v)

		_, err = BigInt[int64]().FromSQL(sqltypes.NewCell(big))
		assert.Equal(t, sqlerr.OutOfRange, decodeKind(t, err))
	})

	t.Run("decimal text", func(t *testing.T) {
		v, err := Int[int]().FromSQL(sqltypes.NewCell([]byte("-17")))
		require.NoError(t, err)
		assert.Equal(t, -17, v)

		u, err := BigInt[uint64]().FromSQL(sqltypes.NewCell("18446744073709551615"))
		require.NoError(t, err)
		assert.Equal(t, uint64(math.MaxUint64), u)

		_, err = BigInt[uint64]().FromSQL(sqltypes.NewCell("18446744073709551616"))
		assert.Equal(t, sqlerr.OutOfRange, decodeKind(t, err))

		_, err = Int[int]().FromSQL(sqltypes.NewCell("4 2"))
		assert.Equal(t, sqlerr.MalformedValue, decodeKind(t, err))
	})

	t.Run("integral float is accepted, fractional is not", func(t *testing.T) {
		v, err := Int[int32]().FromSQL(sqltypes.NewCell(float64(7)))
		require.NoError(t, err)
		assert.Equal(t, int32(7), v)

		_, err = Int[int32]().FromSQL(sqltypes.NewCell(7.5))
		assert.Equal(t, sqlerr.MalformedValue, decodeKind(t, err))
	})

	t.Run("null is an error", func(t *testing.T) {
		v, err := Int[uint32]().FromSQL(sqltypes.Null())
		assert.Equal(t, sqlerr.UnexpectedNull, decodeKind(t, err))
		assert.Zero(t, v)
		assert.Equal(t, "decode INTEGER into uint32: unexpected null", err.Error())
	})

	t.Run("non-integer wire value", func(t *testing.T) {
		_, err := Int[int64]().FromSQL(sqltypes.NewCell(true))
		assert.Equal(t, sqlerr.MalformedValue, decodeKind(t, err))
	})
}

func TestTextBinding(t *testing.T) {
	t.Run("copies bytes verbatim", func(t *testing.T) {
		raw := []byte("  abc\t")
		v, err := String().FromSQL(sqltypes.NewCell(raw))
		require.NoError(t, err)
		assert.Equal(t, "  abc\t", v)

		raw[2] = 'X'
		assert.Equal(t, "  abc\t", v)
	})

	t.Run("string value", func(t *testing.T) {
		v, err := String().FromSQL(sqltypes.NewCell("abc"))
		require.NoError(t, err)
		assert.Equal(t, "abc", v)
	})

	t.Run("named string type", func(t *testing.T) {
		type Version string
		v, err := Text[Version]().FromSQL(sqltypes.NewCell("3.45.1"))
		require.NoError(t, err)
		assert.Equal(t, Version("3.45.1"), v)
	})

	t.Run("null is an error", func(t *testing.T) {
		_, err := String().FromSQL(sqltypes.Null())
		assert.True(t, sqlerr.IsUnexpectedNull(err))
	})

	t.Run("integer is malformed text", func(t *testing.T) {
		_, err := String().FromSQL(sqltypes.NewCell(int64(1)))
		assert.Equal(t, sqlerr.MalformedValue, decodeKind(t, err))
	})
}

func TestBytesBinding(t *testing.T) {
	raw := []byte{0x00, 0xff}
	v, err := Bytes().FromSQL(sqltypes.NewCell(raw))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff}, v)

	raw[0] = 0x01
	assert.Equal(t, byte(0x00), v[0])

	_, err = Bytes().FromSQL(sqltypes.Null())
	assert.True(t, sqlerr.IsUnexpectedNull(err))
}

func TestFloatBinding(t *testing.T) {
	v, err := Float[float64]().FromSQL(sqltypes.NewCell(1.5))
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	v, err = Float[float64]().FromSQL(sqltypes.NewCell([]byte("2.25")))
	require.NoError(t, err)
	assert.Equal(t, 2.25, v)

	_, err = Float[float32]().FromSQL(sqltypes.NewCell(math.MaxFloat64))
	assert.Equal(t, sqlerr.OutOfRange, decodeKind(t, err))

	inf, err := Float[float32]().FromSQL(sqltypes.NewCell(math.Inf(1)))
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(inf), 1))

	_, err = Float[float64]().FromSQL(sqltypes.NewCell("abc"))
	assert.Equal(t, sqlerr.MalformedValue, decodeKind(t, err))
}

func TestBoolBinding(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
		kind  sqlerr.DecodeKind
	}{
		{"native true", true, true, 0},
		{"integer one", int64(1), true, 0},
		{"integer zero", int64(0), false, 0},
		{"integer two", int64(2), false, sqlerr.MalformedValue},
		{"text t", []byte("t"), true, 0},
		{"text false", "false", false, 0},
		{"text yes", "yes", false, sqlerr.MalformedValue},
		{"null", nil, false, sqlerr.UnexpectedNull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Bool().FromSQL(sqltypes.NewCell(tt.value))
			if tt.kind != 0 {
				assert.Equal(t, tt.kind, decodeKind(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeBinding(t *testing.T) {
	want := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
	}{
		{"native", want},
		{"rfc3339", "2024-03-01T12:30:00Z"},
		{"sqlite text", "2024-03-01 12:30:00"},
		{"postgres text", []byte("2024-03-01 12:30:00+00:00")},
		{"unix seconds", want.Unix()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Time().FromSQL(sqltypes.NewCell(tt.value))
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %v", got)
		})
	}

	_, err := Time().FromSQL(sqltypes.NewCell("yesterday"))
	assert.Equal(t, sqlerr.MalformedValue, decodeKind(t, err))
}

func TestNullableBinding(t *testing.T) {
	b := Nullable[sqltypes.Integer, int64](Int[int64]())

	v, err := b.FromSQL(sqltypes.Null())
	require.NoError(t, err)
	assert.Equal(t, sql.Null[int64]{}, v)

	v, err = b.FromSQL(sqltypes.NewCell(int64(9)))
	require.NoError(t, err)
	assert.Equal(t, sql.Null[int64]{V: 9, Valid: true}, v)

	_, err = Nullable[sqltypes.Integer, int8](Int[int8]()).FromSQL(sqltypes.NewCell(int64(1000)))
	assert.Equal(t, sqlerr.OutOfRange, decodeKind(t, err))

	p, err := Optional[sqltypes.Text, string](String()).FromSQL(sqltypes.Null())
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = Optional[sqltypes.Text, string](String()).FromSQL(sqltypes.NewCell("x"))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "x", *p)
}

func TestDecodeIsIdempotent(t *testing.T) {
	cells := []sqltypes.Cell{
		sqltypes.NewCell(int64(3016002)),
		sqltypes.NewCell([]byte("77")),
		sqltypes.NewCell(int64(1) << 40),
		sqltypes.Null(),
	}

	b := Int[uint32]()
	for _, c := range cells {
		v1, err1 := b.FromSQL(c)
		v2, err2 := b.FromSQL(c)
		assert.Equal(t, v1, v2)
		assert.Equal(t, err1, err2)
	}
}

func TestFuncBinding(t *testing.T) {
	upper := Func[sqltypes.Text, int](func(cell sqltypes.Cell) (int, error) {
		s, ok := cell.Value().(string)
		if !ok {
			return 0, NewDecodeError[sqltypes.Text, int](sqlerr.MalformedValue, cell, nil)
		}
		return len(s), nil
	})

	n, err := upper.FromSQL(sqltypes.NewCell("four"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = upper.FromSQL(sqltypes.NewCell(int64(4)))
	assert.EqualError(t, err, "decode TEXT into int: malformed value: 4")
}
