package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
backend: tree
tokenizer: tagging
log_level: debug
synonyms:
  remove:
    - drop
    - nuke
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tree", cfg.Backend)
	assert.Equal(t, "tagging", cfg.Tokenizer)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"drop", "nuke"}, cfg.Synonyms["remove"])
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "backend: tree\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tree", cfg.Backend)
	assert.Equal(t, "word", cfg.Tokenizer)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMissingDefaultFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, "backend: quantum\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown backend")
}
