package deserialize

import (
	"bytes"

	"github.com/moyeah/diesel/pkg/sqltypes"
)

// Text decodes a TEXT column into a string type. The bytes are copied
// verbatim: no trimming and no encoding conversion.
func Text[T ~string]() Binding[sqltypes.Text, T] {
	return Func[sqltypes.Text, T](func(cell sqltypes.Cell) (T, error) {
		switch v := cell.Value().(type) {
		case nil:
			return "", unexpectedNull[sqltypes.Text, T]()
		case string:
			return T(v), nil
		case []byte:
			return T(v), nil
		default:
			return "", malformed[sqltypes.Text, T](cell, nil)
		}
	})
}

// String decodes a TEXT column into a string.
func String() Binding[sqltypes.Text, string] {
	return Text[string]()
}

// Bytes decodes a BINARY column into a byte slice. The returned slice never
// aliases driver memory.
func Bytes() Binding[sqltypes.Binary, []byte] {
	return Func[sqltypes.Binary, []byte](func(cell sqltypes.Cell) ([]byte, error) {
		switch v := cell.Value().(type) {
		case nil:
			return nil, unexpectedNull[sqltypes.Binary, []byte]()
		case []byte:
			return bytes.Clone(v), nil
		case string:
			return []byte(v), nil
		default:
			return nil, malformed[sqltypes.Binary, []byte](cell, nil)
		}
	})
}
