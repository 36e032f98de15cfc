package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	origOut, origErr := Out, Err
	Out, Err = &out, &errOut
	t.Cleanup(func() { Out, Err = origOut, origErr })
	DisableColor()
	return &out, &errOut
}

func TestMessages(t *testing.T) {
	out, errOut := capture(t)

	PrintSuccess("loaded %d rows", 3)
	PrintInfo("watching %s", "q.sql")
	PrintError("boom")
	PrintWarning("careful")

	assert.Contains(t, out.String(), "✓ loaded 3 rows")
	assert.Contains(t, out.String(), "ℹ watching q.sql")
	assert.Contains(t, errOut.String(), "✗ boom")
	assert.Contains(t, errOut.String(), "⚠ careful")
}

func TestPrintKeyValues(t *testing.T) {
	out, _ := capture(t)

	PrintKeyValues([][2]string{{"Version", "0.1.0"}, {"Go Version", "go1.24"}})
	assert.Equal(t, "Version:    0.1.0\nGo Version: go1.24\n", out.String())
}

func TestPrintTable(t *testing.T) {
	out, _ := capture(t)

	require.NoError(t, PrintTable([]string{"#", "value"}, [][]string{{"0", "42"}, {"1", "NULL"}}))
	assert.Contains(t, out.String(), "value")
	assert.Contains(t, out.String(), "42")
	assert.Contains(t, out.String(), "NULL")
}

func TestPrintYAML(t *testing.T) {
	out, _ := capture(t)

	require.NoError(t, PrintYAML(map[string]any{"rows": []any{int64(1), nil, "abc"}}))
	assert.Equal(t, "rows:\n  - 1\n  - null\n  - abc\n", out.String())
}

func TestPrintLines(t *testing.T) {
	out, _ := capture(t)

	PrintLines([]string{"a", "b"})
	assert.Equal(t, "a\nb\n", out.String())
}

func TestSpinnerOffTerminal(t *testing.T) {
	capture(t)
	stop := Spinner("loading")
	assert.NotPanics(t, stop)
}
