package sqltypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSQLNames(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"integer", Name[Integer](), "INTEGER"},
		{"smallint", Name[SmallInt](), "SMALLINT"},
		{"bigint", Name[BigInt](), "BIGINT"},
		{"text", Name[Text](), "TEXT"},
		{"double", Name[Double](), "DOUBLE"},
		{"bool", Name[Bool](), "BOOLEAN"},
		{"binary", Name[Binary](), "BINARY"},
		{"timestamp", Name[Timestamp](), "TIMESTAMP"},
		{"nullable integer", Name[Nullable[Integer]](), "INTEGER NULL"},
		{"nullable text", Name[Nullable[Text]](), "TEXT NULL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestCell(t *testing.T) {
	t.Run("null cell", func(t *testing.T) {
		c := Null()
		assert.True(t, c.IsNull())
		assert.Nil(t, c.Value())
		assert.Equal(t, "NULL", c.String())
	})

	t.Run("value cell", func(t *testing.T) {
		c := NewCell(int64(42))
		assert.False(t, c.IsNull())
		assert.Equal(t, int64(42), c.Value())
		assert.Equal(t, "42", c.String())
	})

	t.Run("text cell is quoted", func(t *testing.T) {
		assert.Equal(t, `"abc"`, NewCell("abc").String())
		assert.Equal(t, `"abc"`, NewCell([]byte("abc")).String())
	})
}

func TestRow(t *testing.T) {
	row := NewRow(int64(1), nil, "x")

	assert.Len(t, row, 3)

	c, ok := row.Column(0)
	assert.True(t, ok)
	assert.Equal(t, int64(1), c.Value())

	c, ok = row.Column(1)
	assert.True(t, ok)
	assert.True(t, c.IsNull())

	_, ok = row.Column(3)
	assert.False(t, ok)

	_, ok = row.Column(-1)
	assert.False(t, ok)

	_, ok = Row{}.Column(0)
	assert.False(t, ok)
}
