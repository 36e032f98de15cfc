package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyeah/diesel/pkg/sqltypes"
)

func TestRawQueryConstruction(t *testing.T) {
	t.Run("SQL carries text and tag", func(t *testing.T) {
		q := SQL[sqltypes.Integer]("SELECT 42")

		assert.Equal(t, "SELECT 42", q.Text())
		assert.Empty(t, q.Args())
		assert.Equal(t, sqltypes.Integer{}, q.Tag())
		assert.Equal(t, "INTEGER", q.SQLType())
		assert.Equal(t, "SELECT 42 -- INTEGER", q.String())
	})

	t.Run("New takes an explicit tag value", func(t *testing.T) {
		q := New("SELECT 'abc'", sqltypes.Text{})
		assert.Equal(t, "TEXT", q.SQLType())
		assert.IsType(t, RawQuery[sqltypes.Text]{}, q)
	})

	t.Run("text is not validated", func(t *testing.T) {
		q := SQL[sqltypes.Text]("this is not sql")
		assert.Equal(t, "this is not sql", q.Text())
	})

	t.Run("Bind returns a copy", func(t *testing.T) {
		base := SQL[sqltypes.BigInt]("SELECT id FROM users WHERE id > ? AND id < ?")
		first := base.Bind(1)
		both := first.Bind(10)

		assert.Empty(t, base.Args())
		require.Len(t, first.Args(), 1)
		assert.Equal(t, []any{1, 10}, both.Args())
		assert.Equal(t, base.Text(), both.Text())
	})

	t.Run("Args is a copy", func(t *testing.T) {
		q := SQL[sqltypes.Text]("SELECT ?").Bind("x")
		args := q.Args()
		args[0] = "y"
		assert.Equal(t, []any{"x"}, q.Args())
	})

	t.Run("nullable tag name", func(t *testing.T) {
		q := SQL[sqltypes.Nullable[sqltypes.Timestamp]]("SELECT deleted_at FROM t")
		assert.Equal(t, "TIMESTAMP NULL", q.SQLType())
	})
}
