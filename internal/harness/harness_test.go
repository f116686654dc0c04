package harness

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Scenario {
	t.Helper()
	s, err := ParseScenario([]byte(src))
	require.NoError(t, err)
	return s
}

func TestRun_Pass(t *testing.T) {
	s := mustParse(t, `
name: pass
description: "compiles"
kind: query
default_limit: 3
request:
  matches: [{path: {nodes: [{name: n, labels: [Person]}]}}]
expect:
  contains: ["MATCH (n:Person)", "LIMIT 3"]
  not_contains: ["WHERE"]
  warnings: 0
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "MATCH (n:Person) RETURN * LIMIT 3", result.Output)
	assert.Equal(t, []byte("MATCH (n:Person) RETURN * LIMIT 3\n"), result.Snapshot())
}

func TestRun_UnmetExpectations(t *testing.T) {
	s := mustParse(t, `
name: fail
description: "expectations do not hold"
kind: query
request:
  matches: [{path: {nodes: [{name: n}]}}]
  where:
    isEqualTo:
      property: {variable: m, name: x}
      value: {literal: 1}
expect:
  contains: ["LIMIT"]
  not_contains: ["MATCH"]
  warnings: 0
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Len(t, result.Errors, 3)
	assert.Len(t, result.Warnings, 1)
}

func TestRun_ExpectedError(t *testing.T) {
	s := mustParse(t, `
name: shape
description: "empty matches"
kind: query
request: {matches: []}
expect:
  error: SHAPE
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.Equal(t, "SHAPE", result.ErrorCode)
	assert.Empty(t, result.Output)
	assert.Equal(t, []byte("error: SHAPE\n"), result.Snapshot())
}

func TestRun_WrongError(t *testing.T) {
	s := mustParse(t, `
name: wrong
description: "malformed instead of shape"
kind: query
request: {matches: [], bogus: true}
expect:
  error: SHAPE
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, "MALFORMED", result.ErrorCode)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected error SHAPE, got MALFORMED")
}

func TestRun_UnexpectedError(t *testing.T) {
	s := mustParse(t, `
name: unexpected
description: "error without expectation"
kind: query
request: {matches: []}
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "unexpected error")
}

func TestHarness_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := mustParse(t, `
name: logged
description: "logs compilation"
kind: query
request: {matches: [{path: {nodes: [{}]}}]}
`)
	_, err := New(logger).Run(s)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "scenario compiled")
	assert.Contains(t, buf.String(), "scenario=logged")
}
