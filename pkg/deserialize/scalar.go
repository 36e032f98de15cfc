package deserialize

import (
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/moyeah/diesel/pkg/sqltypes"
)

// Float decodes a DOUBLE column into a float type. Finite values beyond
// float32's range fail with an out of range error when T is a float32.
func Float[T ~float32 | ~float64]() Binding[sqltypes.Double, T] {
	return Func[sqltypes.Double, T](func(cell sqltypes.Cell) (T, error) {
		var f float64
		switch v := cell.Value().(type) {
		case nil:
			return 0, unexpectedNull[sqltypes.Double, T]()
		case float64:
			f = v
		case float32:
			f = float64(v)
		case int64:
			f = float64(v)
		case []byte:
			parsed, err := strconv.ParseFloat(string(v), 64)
			if err != nil {
				return 0, malformed[sqltypes.Double, T](cell, err)
			}
			f = parsed
		case string:
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return 0, malformed[sqltypes.Double, T](cell, err)
			}
			f = parsed
		default:
			return 0, malformed[sqltypes.Double, T](cell, nil)
		}

		if reflect.TypeFor[T]().Kind() == reflect.Float32 &&
			!math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
			return 0, outOfRange[sqltypes.Double, T](cell)
		}
		return T(f), nil
	})
}

// Bool decodes a BOOLEAN column. Integer 0 and 1 are accepted for databases
// that store booleans as integers.
func Bool() Binding[sqltypes.Bool, bool] {
	return Func[sqltypes.Bool, bool](func(cell sqltypes.Cell) (bool, error) {
		switch v := cell.Value().(type) {
		case nil:
			return false, unexpectedNull[sqltypes.Bool, bool]()
		case bool:
			return v, nil
		case int64:
			switch v {
			case 0:
				return false, nil
			case 1:
				return true, nil
			}
			return false, malformed[sqltypes.Bool, bool](cell, nil)
		case []byte:
			return parseBool(string(v), cell)
		case string:
			return parseBool(v, cell)
		default:
			return false, malformed[sqltypes.Bool, bool](cell, nil)
		}
	})
}

func parseBool(s string, cell sqltypes.Cell) (bool, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, malformed[sqltypes.Bool, bool](cell, err)
	}
	return b, nil
}

// timestampLayouts are tried in order for timestamps delivered as text.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Time decodes a TIMESTAMP column. Text values are parsed with the layouts
// SQLite, PostgreSQL and MySQL produce; text without a zone is read as UTC.
// Integer values are Unix seconds.
func Time() Binding[sqltypes.Timestamp, time.Time] {
	return Func[sqltypes.Timestamp, time.Time](func(cell sqltypes.Cell) (time.Time, error) {
		switch v := cell.Value().(type) {
		case nil:
			return time.Time{}, unexpectedNull[sqltypes.Timestamp, time.Time]()
		case time.Time:
			return v, nil
		case int64:
			return time.Unix(v, 0).UTC(), nil
		case []byte:
			return parseTime(string(v), cell)
		case string:
			return parseTime(v, cell)
		default:
			return time.Time{}, malformed[sqltypes.Timestamp, time.Time](cell, nil)
		}
	})
}

func parseTime(s string, cell sqltypes.Cell) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, malformed[sqltypes.Timestamp, time.Time](cell, lastErr)
}
