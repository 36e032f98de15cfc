package sqltypes

import "fmt"

// Cell is one column value of one returned row, exactly as the driver
// delivered it. A nil value is SQL NULL.
//
// Drivers following database/sql/driver deliver int64, float64, bool,
// []byte, string or time.Time; other values are kept as-is and left to the
// binding to reject.
type Cell struct {
	value any
}

// NewCell wraps a raw driver value.
func NewCell(value any) Cell {
	return Cell{value: value}
}

// Null returns a NULL cell.
func Null() Cell {
	return Cell{}
}

// IsNull reports whether the cell holds SQL NULL.
func (c Cell) IsNull() bool {
	return c.value == nil
}

// Value returns the raw driver value, nil for NULL.
func (c Cell) Value() any {
	return c.value
}

// String renders the cell for logs and error messages.
func (c Cell) String() string {
	switch v := c.value.(type) {
	case nil:
		return "NULL"
	case []byte:
		return fmt.Sprintf("%q", v)
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Row is an ordered sequence of cells as returned by the database.
type Row []Cell

// NewRow builds a row from raw driver values.
func NewRow(values ...any) Row {
	row := make(Row, len(values))
	for i, v := range values {
		row[i] = NewCell(v)
	}
	return row
}

// Column returns the i-th cell and whether it exists.
func (r Row) Column(i int) (Cell, bool) {
	if i < 0 || i >= len(r) {
		return Cell{}, false
	}
	return r[i], true
}
