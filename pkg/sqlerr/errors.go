// Package sqlerr provides the error taxonomy of the typed query core.
//
// Three error types are returned: ConnectionError from a Connection,
// DecodeError from a binding, and LoadError from the load pipeline, which
// wraps one of the other two or reports a row-count violation. Every kind
// has a sentinel so callers can test with errors.Is through any wrapping.
package sqlerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for each error kind.
var (
	// ErrSyntax indicates the database rejected the SQL text.
	ErrSyntax = errors.New("sql: syntax error")

	// ErrUnavailable indicates the session is closed, unreachable or timed out.
	ErrUnavailable = errors.New("sql: connection unavailable")

	// ErrProtocol indicates a malformed response from the database.
	ErrProtocol = errors.New("sql: protocol error")

	// ErrUnexpectedNull indicates a NULL cell decoded into a non-nullable type.
	ErrUnexpectedNull = errors.New("sql: unexpected null")

	// ErrOutOfRange indicates a value that does not fit the native type.
	ErrOutOfRange = errors.New("sql: value out of range")

	// ErrMalformedValue indicates a cell that is not a valid value of the wire type.
	ErrMalformedValue = errors.New("sql: malformed value")

	// ErrEmptyResult indicates a query expected to return a row returned none.
	ErrEmptyResult = errors.New("sql: query returned no rows")

	// ErrTooManyRows indicates a query expected to return one row returned more.
	ErrTooManyRows = errors.New("sql: query returned more than one row")
)

// ConnectionKind classifies a ConnectionError.
type ConnectionKind int

const (
	// Syntax is malformed or semantically invalid SQL.
	Syntax ConnectionKind = iota + 1
	// Unavailable is a closed, unreachable or timed out session.
	Unavailable
	// Protocol is a malformed response from the database.
	Protocol
)

func (k ConnectionKind) String() string {
	switch k {
	case Syntax:
		return "syntax"
	case Unavailable:
		return "unavailable"
	case Protocol:
		return "protocol"
	default:
		return fmt.Sprintf("ConnectionKind(%d)", int(k))
	}
}

func (k ConnectionKind) sentinel() error {
	switch k {
	case Syntax:
		return ErrSyntax
	case Unavailable:
		return ErrUnavailable
	case Protocol:
		return ErrProtocol
	default:
		return nil
	}
}

// ConnectionError is returned by a Connection when executing a query fails.
type ConnectionError struct {
	// Kind classifies the failure.
	Kind ConnectionKind

	// Query is the SQL text that was sent, if known.
	Query string

	// Cause is the driver error.
	Cause error
}

// NewConnectionError creates a ConnectionError.
func NewConnectionError(kind ConnectionKind, query string, cause error) *ConnectionError {
	return &ConnectionError{Kind: kind, Query: query, Cause: cause}
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	msg := fmt.Sprintf("connection error (%s)", e.Kind)
	if e.Query != "" {
		msg += fmt.Sprintf(" executing %q", e.Query)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying driver error.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel of the error's kind.
func (e *ConnectionError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// DecodeKind classifies a DecodeError.
type DecodeKind int

const (
	// UnexpectedNull is a NULL cell decoded into a non-nullable type.
	UnexpectedNull DecodeKind = iota + 1
	// OutOfRange is a value outside the native type's range.
	OutOfRange
	// MalformedValue is a cell that is not a value of the declared wire type.
	MalformedValue
)

func (k DecodeKind) String() string {
	switch k {
	case UnexpectedNull:
		return "unexpected null"
	case OutOfRange:
		return "out of range"
	case MalformedValue:
		return "malformed value"
	default:
		return fmt.Sprintf("DecodeKind(%d)", int(k))
	}
}

func (k DecodeKind) sentinel() error {
	switch k {
	case UnexpectedNull:
		return ErrUnexpectedNull
	case OutOfRange:
		return ErrOutOfRange
	case MalformedValue:
		return ErrMalformedValue
	default:
		return nil
	}
}

// DecodeError is returned by a binding that cannot decode a cell.
type DecodeError struct {
	// Kind classifies the failure.
	Kind DecodeKind

	// SQLType is the declared wire type, e.g. "INTEGER".
	SQLType string

	// Native is the requested Go type, e.g. "uint32".
	Native string

	// Value is a rendering of the offending cell.
	Value string

	// Cause is an underlying parse error, if any.
	Cause error
}

// NewDecodeError creates a DecodeError.
func NewDecodeError(kind DecodeKind, sqlType, native, value string, cause error) *DecodeError {
	return &DecodeError{
		Kind:    kind,
		SQLType: sqlType,
		Native:  native,
		Value:   value,
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("decode %s into %s: %s", e.SQLType, e.Native, e.Kind)
	if e.Value != "" {
		msg += ": " + e.Value
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying parse error.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel of the error's kind.
func (e *DecodeError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// LoadKind classifies a LoadError.
type LoadKind int

const (
	// Connection wraps a ConnectionError.
	Connection LoadKind = iota + 1
	// Decode wraps a DecodeError.
	Decode
	// EmptyResult is zero rows where at least one was required.
	EmptyResult
	// TooManyRows is more than one row where exactly one was required.
	TooManyRows
)

func (k LoadKind) String() string {
	switch k {
	case Connection:
		return "connection"
	case Decode:
		return "decode"
	case EmptyResult:
		return "empty result"
	case TooManyRows:
		return "too many rows"
	default:
		return fmt.Sprintf("LoadKind(%d)", int(k))
	}
}

// LoadError is the error returned by the load pipeline.
type LoadError struct {
	// Kind classifies the failure.
	Kind LoadKind

	// Query is the SQL text of the failed load.
	Query string

	// Row is the index of the row that failed to decode, -1 otherwise.
	Row int

	// Cause is the wrapped ConnectionError or DecodeError.
	Cause error
}

// NewConnectionLoadError wraps a connection failure.
func NewConnectionLoadError(query string, cause error) *LoadError {
	return &LoadError{Kind: Connection, Query: query, Row: -1, Cause: cause}
}

// NewDecodeLoadError wraps a decode failure of the given row.
func NewDecodeLoadError(query string, row int, cause error) *LoadError {
	return &LoadError{Kind: Decode, Query: query, Row: row, Cause: cause}
}

// NewEmptyResultError reports a query that returned no rows.
func NewEmptyResultError(query string) *LoadError {
	return &LoadError{Kind: EmptyResult, Query: query, Row: -1}
}

// NewTooManyRowsError reports a query that returned more than one row.
func NewTooManyRowsError(query string) *LoadError {
	return &LoadError{Kind: TooManyRows, Query: query, Row: -1}
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	prefix := fmt.Sprintf("load %q", e.Query)
	switch e.Kind {
	case EmptyResult:
		return prefix + ": " + ErrEmptyResult.Error()
	case TooManyRows:
		return prefix + ": " + ErrTooManyRows.Error()
	case Decode:
		return fmt.Sprintf("%s: row %d: %v", prefix, e.Row, e.Cause)
	default:
		return fmt.Sprintf("%s: %v", prefix, e.Cause)
	}
}

// Unwrap returns the wrapped error.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is matches ErrEmptyResult and ErrTooManyRows. Wrapped kinds are matched
// through Unwrap.
func (e *LoadError) Is(target error) bool {
	switch e.Kind {
	case EmptyResult:
		return target == ErrEmptyResult
	case TooManyRows:
		return target == ErrTooManyRows
	default:
		return false
	}
}

// IsSyntax checks if an error is a syntax error reported by the database.
func IsSyntax(err error) bool {
	return errors.Is(err, ErrSyntax)
}

// IsUnavailable checks if an error is an unavailable session error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsUnexpectedNull checks if an error is an unexpected NULL decode error.
func IsUnexpectedNull(err error) bool {
	return errors.Is(err, ErrUnexpectedNull)
}

// IsEmptyResult checks if an error reports a query that returned no rows.
func IsEmptyResult(err error) bool {
	return errors.Is(err, ErrEmptyResult)
}
