package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/chat-memory/internal/model"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	return home
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".chat-memory"), cfg.DataDir)
	assert.Equal(t, "memory", cfg.BaseName)
	assert.Equal(t, model.FormatJSON, cfg.Format())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.True(t, cfg.Journal.Enabled)
	assert.Equal(t, filepath.Join(home, ".chat-memory", "journal.db"), cfg.JournalPath())
	assert.Equal(t, 1000, cfg.Context.Budget)
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile("chat-memory.yaml", []byte(`
data_dir: /tmp/memories
preferred_format: csv
log:
  level: debug
  format: json
journal:
  enabled: false
  path: /tmp/j.db
context:
  budget: 200
`), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/memories", cfg.DataDir)
	assert.Equal(t, model.FormatCSV, cfg.Format())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Journal.Enabled)
	assert.Equal(t, "/tmp/j.db", cfg.JournalPath())
	assert.Equal(t, 200, cfg.Context.Budget)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("preferred_format: csv\n"), 0o644))

	t.Setenv("CHAT_MEMORY_PREFERRED_FORMAT", "txt")
	t.Setenv("CHAT_MEMORY_DATA_DIR", "/srv/memory")
	t.Setenv("CHAT_MEMORY_CONTEXT_BUDGET", "50")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, model.FormatText, cfg.Format())
	assert.Equal(t, "/srv/memory", cfg.DataDir)
	assert.Equal(t, 50, cfg.Context.Budget)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidFormat(t *testing.T) {
	isolate(t)
	t.Setenv("CHAT_MEMORY_PREFERRED_FORMAT", "xml")

	_, err := Load("")
	assert.ErrorContains(t, err, "preferred_format")
}

func TestValidate(t *testing.T) {
	valid := Config{DataDir: "d", PreferredFormat: "json", Log: LogConfig{Level: "info", Format: "text"}}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty dir", func(c *Config) { c.DataDir = "" }},
		{"log level", func(c *Config) { c.Log.Level = "trace" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"budget", func(c *Config) { c.Context.Budget = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
