package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmilicic/posthog/ast"
	"github.com/tmilicic/posthog/parser"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hogql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, parser.DefaultMaxDepth, cfg.Parser.MaxDepth)
	assert.Equal(t, "localhost:8080", cfg.Server.Addr())
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)

	pc, err := cfg.Parser.Build()
	require.NoError(t, err)
	def := parser.DefaultConfig()
	assert.Equal(t, def.Config, pc.Config)
	assert.Equal(t, def.MaxDepth, pc.MaxDepth)
	assert.Equal(t, def.DefaultNulls, pc.DefaultNulls)

	level, err := cfg.Log.ZerologLevel()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
parser:
  max_depth: 64
  case_sensitive_keywords: true
  escape_char: ""
  default_nulls: FIRST
server:
  port: 9000
  timeout: 5s
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	pc, err := cfg.Parser.Build()
	require.NoError(t, err)
	assert.Equal(t, 64, pc.MaxDepth)
	assert.True(t, pc.CaseSensitiveKeywords)
	assert.Equal(t, rune(0), pc.EscapeChar)
	assert.Equal(t, ast.NullsFirst, pc.DefaultNulls)
	assert.Equal(t, "localhost:9000", cfg.Server.Addr())
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "parser:\n  max_depth: 64\n")
	t.Setenv("HOGQL_PARSER_MAX_DEPTH", "32")
	t.Setenv("HOGQL_SERVER_HOST", "0.0.0.0")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Parser.MaxDepth)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"escape char", "parser:\n  escape_char: ab\n"},
		{"nulls", "parser:\n  default_nulls: middle\n"},
		{"quote", "parser:\n  identifier_quotes: \"'\"\n"},
		{"port", "server:\n  port: 70000\n"},
		{"level", "log:\n  level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
