package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the TOML config file for user preferences.
const FileName = "config.toml"

// Config is the user-facing configuration. Resolved once at startup and
// immutable thereafter.
type Config struct {
	// Indicator controls the status line itself.
	Indicator IndicatorSettings `toml:"indicator"`

	// Theme sets the color scheme: "dark" (default), "light", or "system"
	Theme string `toml:"theme"`

	// Journal controls the optional completed-session summary journal.
	Journal JournalSettings `toml:"journal"`

	// Logs controls debug log output.
	Logs LogSettings `toml:"logs"`
}

// IndicatorSettings controls rendering of the status line.
type IndicatorSettings struct {
	// Position is "bottom" (pinned to the last terminal row) or "inline"
	// (rewrites the current line). Default: "bottom"
	Position string `toml:"position"`

	// ShowTokens shows the token usage segment (default: true)
	// Pointer distinguishes "not set" from "explicitly false".
	ShowTokens *bool `toml:"show_tokens"`

	// ShowElapsed shows the elapsed time segment (default: true)
	ShowElapsed *bool `toml:"show_elapsed"`

	// UpdateIntervalMS is the render tick period in milliseconds (default: 100)
	UpdateIntervalMS int `toml:"update_interval_ms"`

	// StuckThresholdSecs is seconds of inactivity before the stuck warning
	// (default: 60)
	StuckThresholdSecs float64 `toml:"stuck_threshold_secs"`

	// EnableUnstickHint appends the Ctrl+C hint to the stuck warning
	// (default: true)
	EnableUnstickHint *bool `toml:"enable_unstick_hint"`

	// Spinner selects the frame set: "dots" (default), "line", "bounce",
	// "grow", "ellipsis"
	Spinner string `toml:"spinner"`

	// SlowTools are tool names that legitimately run long; while one is
	// active the stuck threshold is SlowToolThresholdSecs instead.
	// Default: ["task", "bash", "web_fetch"]
	SlowTools []string `toml:"slow_tools"`

	// SlowToolThresholdSecs is the stuck threshold while a slow tool is
	// active (default: 300)
	SlowToolThresholdSecs float64 `toml:"slow_tool_threshold_secs"`
}

// JournalSettings controls the SQLite session summary journal.
type JournalSettings struct {
	// Enabled records one summary row per completed session (default: false)
	Enabled bool `toml:"enabled"`
}

// LogSettings controls debug logging.
type LogSettings struct {
	// DebugLevel is the minimum log level: "debug", "info", "warn", "error"
	// Default: "info"
	DebugLevel string `toml:"debug_level"`

	// DebugFormat is "json" (default) or "text"
	DebugFormat string `toml:"debug_format"`

	// DebugMaxMB is the max size in MB for debug.log before rotation
	// Default: 10
	DebugMaxMB int `toml:"debug_max_mb"`

	// DebugBackups is the number of rotated debug.log files to keep
	// Default: 5
	DebugBackups int `toml:"debug_backups"`

	// DebugRetentionDays is days to keep rotated debug logs (default: 10)
	DebugRetentionDays int `toml:"debug_retention_days"`
}

// GetShowTokens returns whether to show the token segment, defaulting to true.
func (s *IndicatorSettings) GetShowTokens() bool {
	if s.ShowTokens == nil {
		return true
	}
	return *s.ShowTokens
}

// GetShowElapsed returns whether to show the elapsed segment, defaulting to true.
func (s *IndicatorSettings) GetShowElapsed() bool {
	if s.ShowElapsed == nil {
		return true
	}
	return *s.ShowElapsed
}

// GetEnableUnstickHint returns whether to show the Ctrl+C hint, defaulting to true.
func (s *IndicatorSettings) GetEnableUnstickHint() bool {
	if s.EnableUnstickHint == nil {
		return true
	}
	return *s.EnableUnstickHint
}

// UpdateInterval returns the render tick period, defaulting to 100ms.
func (s *IndicatorSettings) UpdateInterval() time.Duration {
	if s.UpdateIntervalMS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(s.UpdateIntervalMS) * time.Millisecond
}

// StuckThreshold returns the idle threshold, defaulting to 60s.
func (s *IndicatorSettings) StuckThreshold() time.Duration {
	if s.StuckThresholdSecs <= 0 {
		return 60 * time.Second
	}
	return time.Duration(s.StuckThresholdSecs * float64(time.Second))
}

// SlowToolThreshold returns the slow-tool idle threshold, defaulting to 300s.
func (s *IndicatorSettings) SlowToolThreshold() time.Duration {
	if s.SlowToolThresholdSecs <= 0 {
		return 300 * time.Second
	}
	return time.Duration(s.SlowToolThresholdSecs * float64(time.Second))
}

// GetPosition returns the validated position, defaulting to "bottom".
func (s *IndicatorSettings) GetPosition() string {
	switch s.Position {
	case "bottom", "inline":
		return s.Position
	default:
		return "bottom"
	}
}

// GetSlowTools returns the slow tool list, defaulting to task/bash/web_fetch.
func (s *IndicatorSettings) GetSlowTools() []string {
	if s.SlowTools == nil {
		return []string{"task", "bash", "web_fetch"}
	}
	return s.SlowTools
}

// GetTheme returns the validated theme, defaulting to "dark".
func (c *Config) GetTheme() string {
	switch c.Theme {
	case "dark", "light", "system":
		return c.Theme
	default:
		return "dark"
	}
}

// Dir returns the amp-status data directory (~/.amp-status, or
// AMP_STATUS_DIR when set). The directory is not created here.
func Dir() (string, error) {
	if dir := os.Getenv("AMP_STATUS_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".amp-status"), nil
}

// Path returns the path to the user config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the user configuration. A missing file is not an error: the
// defaults apply. A malformed file returns both the defaults and the parse
// error so the caller can surface it without dying.
func Load() (*Config, error) {
	var cfg Config

	path, err := Path()
	if err != nil {
		return &cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return &Config{}, fmt.Errorf("%s parse error: %w", FileName, err)
	}
	return &cfg, nil
}

// Save writes the config atomically (tmp + fsync + rename).
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# amp-status configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := syncFile(tmpPath); err != nil {
		// Rename is still atomic; a lost fsync only risks losing this save
		// on power failure.
		_ = err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("finalize config save: %w", err)
	}
	return nil
}

func syncFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}

// CreateExample writes a commented example config if none exists.
// Returns true if a file was written.
func CreateExample() (bool, error) {
	path, err := Path()
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	example := `# amp-status configuration
# Status indicator for Amplifier agent sessions.

# Color scheme: "dark" (default), "light", or "system" (detect OS dark mode)
# theme = "dark"

[indicator]
# Where to draw the status line: "bottom" (pinned row) or "inline"
position = "bottom"
# Show token usage (1.2K↑ 340↓) in the line (default: true)
show_tokens = true
# Show elapsed session time (default: true)
show_elapsed = true
# Render tick period in milliseconds; also the spinner animation speed
update_interval_ms = 100
# Seconds of inactivity before the "possibly stuck" warning
stuck_threshold_secs = 60.0
# Append "(Ctrl+C to interrupt)" to the stuck warning
enable_unstick_hint = true
# Spinner frame set: "dots", "line", "bounce", "grow", "ellipsis"
spinner = "dots"
# Tools that legitimately run long get a larger stuck threshold
slow_tools = ["task", "bash", "web_fetch"]
slow_tool_threshold_secs = 300.0

[journal]
# Record one summary row per completed session to journal.db (SQLite)
enabled = false

[logs]
# Debug log settings for ~/.amp-status/debug.log
debug_level = "info"
debug_format = "json"
debug_max_mb = 10
debug_backups = 5
debug_retention_days = 10
`

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(example), 0o600); err != nil {
		return false, err
	}
	return true, nil
}

// StatusDisabled reports whether the AMPLIFIER_NO_STATUS environment gate is
// set; when present the render loop is disabled entirely.
func StatusDisabled() bool {
	_, ok := os.LookupEnv("AMPLIFIER_NO_STATUS")
	return ok
}

// NoColor reports whether the NO_COLOR environment gate is set; when present
// colors are disabled unconditionally.
func NoColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}
