package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/brewfocus/internal/domain"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Roast, cfg.Roast)
	assert.Equal(t, 1200, cfg.CustomSeconds)
	assert.Equal(t, 100*time.Millisecond, cfg.TickInterval)
	assert.True(t, cfg.Bell)
	assert.False(t, cfg.LLM.Enabled)
}

func TestLoadFrom_File(t *testing.T) {
	path := writeSettings(t, `
roast: dark
custom_minutes: 45
tick_ms: 250
bell: false
log_level: debug
log_file: /tmp/brew.log
llm:
  enabled: true
  model: gemma2
  timeout_ms: 3000
`)
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, domain.RoastDark, cfg.Roast)
	assert.Equal(t, 45*60, cfg.CustomSeconds)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.False(t, cfg.Bell)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/brew.log", cfg.LogFile)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, "gemma2", cfg.LLM.Model)
	assert.Equal(t, 3*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, path, cfg.Path)
}

func TestLoadFrom_InvalidFileValuesKeepDefaults(t *testing.T) {
	path := writeSettings(t, `
roast: burnt
custom_minutes: 5000
tick_ms: -1
log_level: shouty
`)
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Roast, cfg.Roast)
	assert.Equal(t, def.CustomSeconds, cfg.CustomSeconds)
	assert.Equal(t, def.TickInterval, cfg.TickInterval)
	assert.Equal(t, def.LogLevel, cfg.LogLevel)
}

func TestLoadFrom_MalformedYAML(t *testing.T) {
	path := writeSettings(t, "roast: [unclosed")
	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse settings yaml")
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	path := writeSettings(t, "roast: dark\ncustom_minutes: 45\n")
	t.Setenv("BREWFOCUS_ROAST", "Medium")
	t.Setenv("BREWFOCUS_CUSTOM_MINUTES", "90")
	t.Setenv("BREWFOCUS_TICK_MS", "50")
	t.Setenv("BREWFOCUS_BELL", "false")
	t.Setenv("BREWFOCUS_LOG_LEVEL", "warn")
	t.Setenv("BREWFOCUS_LOG_FILE", "brew.log")
	t.Setenv("BREWFOCUS_LLM_ENABLED", "true")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, domain.RoastMedium, cfg.Roast)
	assert.Equal(t, 90*60, cfg.CustomSeconds)
	assert.Equal(t, 50*time.Millisecond, cfg.TickInterval)
	assert.False(t, cfg.Bell)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "brew.log", cfg.LogFile)
	assert.True(t, cfg.LLM.Enabled)
}

func TestLoadFrom_InvalidEnv(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"roast", "BREWFOCUS_ROAST", "charcoal"},
		{"custom minutes zero", "BREWFOCUS_CUSTOM_MINUTES", "0"},
		{"custom minutes text", "BREWFOCUS_CUSTOM_MINUTES", "lots"},
		{"tick", "BREWFOCUS_TICK_MS", "fast"},
		{"bell", "BREWFOCUS_BELL", "ding"},
		{"log level", "BREWFOCUS_LOG_LEVEL", "chatty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadFrom("")
			assert.ErrorIs(t, err, ErrInvalidSetting)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_UsesConfigEnvPath(t *testing.T) {
	path := writeSettings(t, "roast: medium\n")
	t.Setenv("BREWFOCUS_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, domain.RoastMedium, cfg.Roast)
}
