package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pgq/internal/export"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Nil(t, cfg.DefaultLimit)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.Equal(t, export.DefaultSkeleton(), cfg.Export)
	assert.NoError(t, cfg.Validate())
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse([]byte(`
default_limit: 25
log_level: debug
export:
  anchor_label: Message
  relationship_types: [MENTIONS]
`))
	require.NoError(t, err)

	require.NotNil(t, cfg.DefaultLimit)
	assert.Equal(t, 25, *cfg.DefaultLimit)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, "Message", cfg.Export.AnchorLabel)
	assert.Equal(t, []string{"MENTIONS"}, cfg.Export.RelationshipTypes)

	// Untouched skeleton fields keep their defaults
	assert.Equal(t, "doc", cfg.Export.AnchorVariable)
	assert.Equal(t, "values", cfg.Export.ResultAlias)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unknown field", "default_limt: 10\n", "default_limt"},
		{"negative limit", "default_limit: -1\n", "non-negative"},
		{"bad level", "log_level: loud\n", "unknown level"},
		{"empty relationship types", "export:\n  relationship_types: []\n", "relationship type"},
		{"clashing variables", "export:\n  neighbor_variable: doc\n", "distinct"},
		{"not yaml", "default_limit: [\n", "failed to parse YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pgq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_limit: 7\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, *cfg.DefaultLimit)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
