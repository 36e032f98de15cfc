package database

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyeah/diesel/pkg/sqlerr"
)

type stubProvider struct {
	kind sqlerr.ConnectionKind
	ok   bool
}

func (stubProvider) Dialect() SQLDialect                            { return SQLite }
func (stubProvider) DriverName() string                             { return "stub" }
func (stubProvider) InitSession(context.Context, *sqlx.Conn) error  { return nil }
func (p stubProvider) Classify(error) (sqlerr.ConnectionKind, bool) { return p.kind, p.ok }

func TestRegistry(t *testing.T) {
	Register(stubProvider{}, "Stub-Registry", "stub-alias")

	t.Run("lookup is case insensitive", func(t *testing.T) {
		p, err := Lookup("STUB-REGISTRY")
		require.NoError(t, err)
		assert.Equal(t, "stub", p.DriverName())

		_, err = Lookup("stub-alias")
		assert.NoError(t, err)
	})

	t.Run("providers are sorted", func(t *testing.T) {
		names := Providers()
		assert.Contains(t, names, "stub-registry")
		assert.Contains(t, names, "stub-alias")
		assert.IsNonDecreasing(t, names)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := Lookup("oracle")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unsupported provider "oracle"`)
		assert.Contains(t, err.Error(), "stub-registry")
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		assert.Panics(t, func() {
			Register(stubProvider{}, "stub-registry")
		})
	})
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

var _ net.Error = timeoutError{}

func TestClassify(t *testing.T) {
	unknown := stubProvider{}
	protocol := stubProvider{kind: sqlerr.Protocol, ok: true}

	tests := []struct {
		name     string
		provider Provider
		err      error
		fallback sqlerr.ConnectionKind
		want     sqlerr.ConnectionKind
	}{
		{"fallback", unknown, errors.New("boom"), sqlerr.Syntax, sqlerr.Syntax},
		{"provider wins over fallback", protocol, errors.New("boom"), sqlerr.Syntax, sqlerr.Protocol},
		{"canceled", protocol, fmt.Errorf("query: %w", context.Canceled), sqlerr.Syntax, sqlerr.Unavailable},
		{"deadline", unknown, context.DeadlineExceeded, sqlerr.Syntax, sqlerr.Unavailable},
		{"net error", protocol, &net.OpError{Op: "read", Err: timeoutError{}}, sqlerr.Syntax, sqlerr.Unavailable},
		{"nil provider", nil, errors.New("boom"), sqlerr.Protocol, sqlerr.Protocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.provider, "SELECT 1", tt.err, tt.fallback)
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, "SELECT 1", got.Query)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	t.Run("keeps existing connection error", func(t *testing.T) {
		orig := sqlerr.NewConnectionError(sqlerr.Protocol, "SELECT 2", errors.New("bad frame"))

		got := classify(unknown, "SELECT 1", fmt.Errorf("wrapped: %w", orig), sqlerr.Syntax)
		assert.Same(t, orig, got)
	})
}

func TestEstablishUnknownProvider(t *testing.T) {
	_, err := Establish(context.Background(), Config{Provider: "nosuchdb", URL: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}
