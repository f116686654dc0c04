package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pgq/internal/schema"
)

func TestParseScenario_Valid(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: minimal
description: "a minimal scenario"
kind: query
default_limit: 5
request:
  matches:
    - path:
        nodes: [{name: n}]
expect:
  contains: ["MATCH (n)"]
`))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	require.NotNil(t, s.DefaultLimit)
	assert.Equal(t, 5, *s.DefaultLimit)

	kind, err := s.RequestKind()
	require.NoError(t, err)
	assert.Equal(t, schema.KindQuery, kind)

	data, err := s.RequestJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"matches": [{"path": {"nodes": [{"name": "n"}]}}]}`, string(data))
}

func TestParseScenario_JSONStringRequest(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: json_body
description: "request given as JSON text"
kind: export
request: '{"queries": []}'
`))
	require.NoError(t, err)

	data, err := s.RequestJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"queries": []}`, string(data))
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "unknown field",
			input: "name: a\ndescription: b\nkind: query\nrequest: {}\nexpected: {}\n",
			want:  "expected",
		},
		{
			name:  "missing name",
			input: "description: b\nkind: query\nrequest: {}\n",
			want:  "name is required",
		},
		{
			name:  "missing description",
			input: "name: a\nkind: query\nrequest: {}\n",
			want:  "description is required",
		},
		{
			name:  "bad kind",
			input: "name: a\ndescription: b\nkind: mutation\nrequest: {}\n",
			want:  "unknown request kind",
		},
		{
			name:  "missing request",
			input: "name: a\ndescription: b\nkind: query\n",
			want:  "request is required",
		},
		{
			name:  "bad error code",
			input: "name: a\ndescription: b\nkind: query\nrequest: {}\nexpect:\n  error: BROKEN\n",
			want:  "unknown error code",
		},
		{
			name:  "error with contains",
			input: "name: a\ndescription: b\nkind: query\nrequest: {}\nexpect:\n  error: SHAPE\n  contains: [x]\n",
			want:  "cannot be combined",
		},
		{
			name:  "negative limit",
			input: "name: a\ndescription: b\nkind: query\ndefault_limit: -1\nrequest: {}\n",
			want:  "non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestScenario_SkeletonOverrides(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: overrides
description: "skeleton overrides"
kind: export
export:
  anchor_label: Message
request: {}
`))
	require.NoError(t, err)

	sk, err := s.Skeleton()
	require.NoError(t, err)
	assert.Equal(t, "Message", sk.AnchorLabel)
	assert.Equal(t, "doc", sk.AnchorVariable)
}

func TestLoadScenarios_Filter(t *testing.T) {
	dir := t.TempDir()
	body := "name: %s\ndescription: d\nkind: query\nrequest: {matches: [{path: {nodes: [{}]}}]}\n"
	for _, name := range []string{"export_a", "export_b", "query_a"} {
		content := []byte(fmt.Sprintf(body, name))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), content, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("not a scenario"), 0o644))

	all, err := LoadScenarios(dir, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := LoadScenarios(dir, "export_*")
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "export_a", filtered[0].Name)
	assert.Equal(t, "export_b", filtered[1].Name)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
