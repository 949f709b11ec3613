package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("AMP_STATUS_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bottom", cfg.Indicator.GetPosition())
	assert.True(t, cfg.Indicator.GetShowTokens())
	assert.True(t, cfg.Indicator.GetShowElapsed())
	assert.True(t, cfg.Indicator.GetEnableUnstickHint())
	assert.Equal(t, 100*time.Millisecond, cfg.Indicator.UpdateInterval())
	assert.Equal(t, 60*time.Second, cfg.Indicator.StuckThreshold())
	assert.Equal(t, 300*time.Second, cfg.Indicator.SlowToolThreshold())
	assert.Equal(t, []string{"task", "bash", "web_fetch"}, cfg.Indicator.GetSlowTools())
	assert.Equal(t, "dark", cfg.GetTheme())
	assert.False(t, cfg.Journal.Enabled)
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AMP_STATUS_DIR", dir)

	content := `
theme = "system"

[indicator]
position = "inline"
show_tokens = false
update_interval_ms = 250
stuck_threshold_secs = 10.5
slow_tools = []

[journal]
enabled = true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "inline", cfg.Indicator.GetPosition())
	assert.False(t, cfg.Indicator.GetShowTokens())
	assert.True(t, cfg.Indicator.GetShowElapsed(), "unset pointer-bool keeps default")
	assert.Equal(t, 250*time.Millisecond, cfg.Indicator.UpdateInterval())
	assert.Equal(t, 10500*time.Millisecond, cfg.Indicator.StuckThreshold())
	assert.Empty(t, cfg.Indicator.GetSlowTools(), "explicit empty list disables slow tools")
	assert.Equal(t, "system", cfg.GetTheme())
	assert.True(t, cfg.Journal.Enabled)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AMP_STATUS_DIR", dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{{{not toml"), 0o600))

	cfg, err := Load()
	assert.Error(t, err)
	require.NotNil(t, cfg, "malformed config still yields usable defaults")
	assert.Equal(t, "bottom", cfg.Indicator.GetPosition())
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("AMP_STATUS_DIR", t.TempDir())

	f := false
	cfg := &Config{Theme: "light"}
	cfg.Indicator.Position = "inline"
	cfg.Indicator.ShowTokens = &f
	cfg.Journal.Enabled = true

	require.NoError(t, Save(cfg))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "inline", loaded.Indicator.GetPosition())
	assert.False(t, loaded.Indicator.GetShowTokens())
	assert.Equal(t, "light", loaded.GetTheme())
	assert.True(t, loaded.Journal.Enabled)
}

func TestCreateExample(t *testing.T) {
	t.Setenv("AMP_STATUS_DIR", t.TempDir())

	created, err := CreateExample()
	require.NoError(t, err)
	assert.True(t, created)

	// Example must parse and keep the documented defaults.
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "bottom", cfg.Indicator.GetPosition())
	assert.Equal(t, 100*time.Millisecond, cfg.Indicator.UpdateInterval())

	created, err = CreateExample()
	require.NoError(t, err)
	assert.False(t, created, "existing config must not be overwritten")
}

func TestEnvGates(t *testing.T) {
	t.Setenv("AMPLIFIER_NO_STATUS", "1")
	assert.True(t, StatusDisabled())

	t.Setenv("NO_COLOR", "")
	assert.True(t, NoColor(), "NO_COLOR presence counts even when empty")
}
