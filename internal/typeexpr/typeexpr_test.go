package typeexpr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyeah/diesel/internal/testutil/fakeconn"
	"github.com/moyeah/diesel/pkg/sqlerr"
	"github.com/moyeah/diesel/pkg/sqltypes"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		sqlName string
		native  string
	}{
		{"integer", "integer", "INTEGER", "int64"},
		{"INT", "integer", "INTEGER", "int64"},
		{"  text ", "text", "TEXT", "string"},
		{"smallint", "smallint", "SMALLINT", "int16"},
		{"nullable<bigint>", "nullable<bigint>", "BIGINT NULL", "sql.Null[int64]"},
		{"Nullable < Varchar >", "nullable<text>", "TEXT NULL", "sql.Null[string]"},
		{"double?", "nullable<double>", "DOUBLE NULL", "sql.Null[float64]"},
		{"boolean", "bool", "BOOLEAN", "bool"},
		{"timestamp", "timestamp", "TIMESTAMP", "time.Time"},
		{"blob", "binary", "BINARY", "[]uint8"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.sqlName, got.SQLName())
			assert.Equal(t, tt.native, got.Native())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "invalid type expression"},
		{"nullable<>", "invalid type expression"},
		{"nullable<nullable<int>>", "invalid type expression"},
		{"nullable<int>?", "marked optional"},
		{"integer text", "invalid type expression"},
		{"uuid", `unknown type "uuid"`},
		{"nullable<money>", `unknown type "money"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMustParse(t *testing.T) {
	assert.NotPanics(t, func() { MustParse("bigint") })
	assert.Panics(t, func() { MustParse("bigint<") })
}

func TestLoader(t *testing.T) {
	ctx := context.Background()

	t.Run("plain", func(t *testing.T) {
		conn := fakeconn.New().On("SELECT n FROM t", sqltypes.NewRow(int64(1)), sqltypes.NewRow(int64(2)))

		got, err := MustParse("integer").Loader()(ctx, conn, "SELECT n FROM t")
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), int64(2)}, got)
	})

	t.Run("plain rejects null", func(t *testing.T) {
		conn := fakeconn.New().On("SELECT NULL", sqltypes.Row{sqltypes.Null()})

		_, err := MustParse("text").Loader()(ctx, conn, "SELECT NULL")
		assert.True(t, sqlerr.IsUnexpectedNull(err))
	})

	t.Run("nullable maps null to nil", func(t *testing.T) {
		conn := fakeconn.New().On("SELECT v FROM t",
			sqltypes.NewRow("a"),
			sqltypes.Row{sqltypes.Null()},
		)

		got, err := MustParse("nullable<text>").Loader()(ctx, conn, "SELECT v FROM t")
		require.NoError(t, err)
		assert.Equal(t, []any{"a", nil}, got)
	})

	t.Run("bound arguments reach the connection", func(t *testing.T) {
		conn := fakeconn.New().On("SELECT ?", sqltypes.NewRow(int64(7)))

		_, err := MustParse("bigint").Loader()(ctx, conn, "SELECT ?", 7)
		require.NoError(t, err)

		calls := conn.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, []any{7}, calls[0].Args)
	})
}

func TestTypes(t *testing.T) {
	infos := Types()
	require.Len(t, infos, 8)
	assert.Equal(t, "integer", infos[0].Name)
	assert.Equal(t, "INTEGER", infos[0].SQLName)

	names := Names()
	assert.Contains(t, names, "int")
	assert.Contains(t, names, "bytea")
	assert.IsIncreasing(t, names)
}
