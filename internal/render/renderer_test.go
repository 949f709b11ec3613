package render

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/asheshgoplani/amp-status/internal/status"
)

var testNow = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func plainConfig() DisplayConfig {
	return DisplayConfig{
		ShowTokens:  true,
		ShowElapsed: true,
		UnstickHint: true,
		Spinner:     "dots",
		Theme:       ThemeDark,
	}
}

func startedSnap() status.Snapshot {
	return status.Snapshot{
		Activity:     status.ActivityThinking,
		SessionStart: testNow.Add(-125 * time.Second),
		LastActivity: testNow,
		Started:      true,
	}
}

func TestFormatTokens(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1234, "1.2K"},
		{999949, "999.9K"},
		{999950, "1.0M"},
		{999999, "1.0M"},
		{1000000, "1.0M"},
		{1500000, "1.5M"},
	}
	for _, tt := range tests {
		if got := FormatTokens(tt.n); got != tt.want {
			t.Errorf("FormatTokens(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{125, "02:05"},
		{3599, "59:59"},
		{3600, "01:00:00"},
		{3725, "01:02:05"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(time.Duration(tt.secs) * time.Second); got != tt.want {
			t.Errorf("FormatElapsed(%ds) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestRenderNormalLine(t *testing.T) {
	r := NewRenderer(plainConfig())
	snap := startedSnap()
	snap.TokensIn = 1234
	snap.TokensOut = 567

	line := r.Render(snap, status.StuckStatus{}, status.LevelNormal, testNow, 0)

	want := "⠋ thinking │ 1.2K↑ 567↓ │ 02:05"
	if line != want {
		t.Errorf("line = %q, want %q", line, want)
	}
}

func TestRenderSpinnerAdvancesPerTick(t *testing.T) {
	r := NewRenderer(plainConfig())
	snap := startedSnap()

	first := r.Render(snap, status.StuckStatus{}, status.LevelNormal, testNow, 0)
	second := r.Render(snap, status.StuckStatus{}, status.LevelNormal, testNow, 1)
	wrapped := r.Render(snap, status.StuckStatus{}, status.LevelNormal, testNow, 10)

	if first == second {
		t.Error("consecutive ticks must use different spinner frames")
	}
	if first != wrapped {
		t.Errorf("tick 10 should wrap to frame 0: %q vs %q", wrapped, first)
	}
}

func TestRenderExecutingPhrase(t *testing.T) {
	r := NewRenderer(plainConfig())
	snap := startedSnap()
	snap.Activity = status.ActivityExecuting
	snap.ToolName = "bash"

	line := r.Render(snap, status.StuckStatus{}, status.LevelNormal, testNow, 0)
	if !strings.Contains(line, "executing: bash") {
		t.Errorf("line = %q, want executing: bash", line)
	}

	snap.ToolName = "a_very_long_tool_name_indeed"
	line = r.Render(snap, status.StuckStatus{}, status.LevelNormal, testNow, 0)
	if !strings.Contains(line, "executing: a_very_long_tool_...") {
		t.Errorf("line = %q, want truncated tool name", line)
	}
}

func TestRenderDelegatePhrase(t *testing.T) {
	r := NewRenderer(plainConfig())
	snap := startedSnap()
	snap.DelegateName = "zen-architect"

	line := r.Render(snap, status.StuckStatus{}, status.LevelNormal, testNow, 0)
	if !strings.Contains(line, "→ zen-architect") {
		t.Errorf("line = %q, want delegation phrase", line)
	}
}

func TestRenderStreamingUsesBarFrames(t *testing.T) {
	r := NewRenderer(plainConfig())
	snap := startedSnap()
	snap.Activity = status.ActivityStreaming

	line := r.Render(snap, status.StuckStatus{}, status.LevelNormal, testNow, 0)
	if !strings.HasPrefix(line, "▁ streaming response") {
		t.Errorf("line = %q, want streaming bar frame", line)
	}
}

func TestRenderSegmentOmission(t *testing.T) {
	cfg := plainConfig()
	cfg.ShowTokens = false
	r := NewRenderer(cfg)
	snap := startedSnap()
	snap.TokensIn = 5000

	line := r.Render(snap, status.StuckStatus{}, status.LevelNormal, testNow, 0)
	if strings.Contains(line, "↑") {
		t.Errorf("line = %q, tokens segment must be omitted", line)
	}
	if strings.Contains(line, "││") || strings.HasSuffix(line, "│") || strings.HasSuffix(line, "│ ") {
		t.Errorf("line = %q, dangling separator", line)
	}

	cfg.ShowElapsed = false
	r = NewRenderer(cfg)
	line = r.Render(snap, status.StuckStatus{}, status.LevelNormal, testNow, 0)
	if strings.Contains(line, "│") {
		t.Errorf("line = %q, no separators expected with all segments off", line)
	}
}

func TestRenderStuckOverride(t *testing.T) {
	r := NewRenderer(plainConfig())
	snap := startedSnap()

	line := r.Render(snap, status.StuckStatus{Stuck: true, Idle: 75 * time.Second}, status.LevelNormal, testNow, 0)
	want := "⚠ 75s idle (Ctrl+C to interrupt)"
	if line != want {
		t.Errorf("line = %q, want %q", line, want)
	}

	cfg := plainConfig()
	cfg.UnstickHint = false
	r = NewRenderer(cfg)
	line = r.Render(snap, status.StuckStatus{Stuck: true, Idle: 75 * time.Second}, status.LevelNormal, testNow, 0)
	if line != "⚠ 75s idle" {
		t.Errorf("line = %q, want bare idle notice", line)
	}
}

func TestRenderEscalationHints(t *testing.T) {
	r := NewRenderer(plainConfig())
	snap := startedSnap()

	line := r.Render(snap, status.StuckStatus{}, status.LevelCancel, testNow, 0)
	if !strings.Contains(line, "cancelling") {
		t.Errorf("line = %q, want cancel hint", line)
	}
	line = r.Render(snap, status.StuckStatus{}, status.LevelAbort, testNow, 0)
	if !strings.Contains(line, "aborting turn") {
		t.Errorf("line = %q, want abort hint", line)
	}
}

func TestRenderFinalLines(t *testing.T) {
	r := NewRenderer(plainConfig())
	snap := startedSnap()
	snap.Activity = status.ActivityDone
	snap.Terminal = true
	snap.TokensIn = 2000
	snap.TokensOut = 1000
	snap.TurnCount = 7

	line := r.Render(snap, status.StuckStatus{}, status.LevelNormal, testNow, 0)
	want := "✓ Session complete │ 2.0K↑ 1.0K↓ │ 02:05 │ 7 turns"
	if line != want {
		t.Errorf("line = %q, want %q", line, want)
	}

	snap.Activity = status.ActivityErrored
	line = r.Render(snap, status.StuckStatus{}, status.LevelNormal, testNow, 0)
	if !strings.HasPrefix(line, "✗ Session failed") {
		t.Errorf("line = %q, want failure glyph", line)
	}
	if strings.Contains(line, "⠋") {
		t.Errorf("line = %q, no spinner after terminal state", line)
	}
}

// Terminal state wins over stuck and escalation overrides.
func TestRenderTerminalPrecedence(t *testing.T) {
	r := NewRenderer(plainConfig())
	snap := startedSnap()
	snap.Activity = status.ActivityDone
	snap.Terminal = true

	line := r.Render(snap, status.StuckStatus{Stuck: true, Idle: time.Hour}, status.LevelCancel, testNow, 0)
	if !strings.HasPrefix(line, "✓ Session complete") {
		t.Errorf("line = %q, want final summary despite stuck/escalation", line)
	}
}

func TestRenderNoANSIWhenColorsDisabled(t *testing.T) {
	// Force a color-capable profile to prove the renderer gates on its own
	// config, not on the ambient terminal.
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	defer lipgloss.SetColorProfile(prev)

	r := NewRenderer(plainConfig())

	snaps := []status.Snapshot{startedSnap()}
	done := startedSnap()
	done.Activity = status.ActivityDone
	done.Terminal = true
	snaps = append(snaps, done)

	for _, snap := range snaps {
		for _, level := range []status.Level{status.LevelNormal, status.LevelCancel, status.LevelAbort} {
			for _, st := range []status.StuckStatus{{}, {Stuck: true, Idle: time.Minute}} {
				line := r.Render(snap, st, level, testNow, 0)
				if strings.Contains(line, "\x1b") {
					t.Fatalf("ANSI escape in colorless output: %q", line)
				}
			}
		}
	}
}

func TestRenderColorsEnabledStyles(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	defer lipgloss.SetColorProfile(prev)

	cfg := plainConfig()
	cfg.ColorsEnabled = true
	r := NewRenderer(cfg)

	line := r.Render(startedSnap(), status.StuckStatus{Stuck: true, Idle: time.Minute}, status.LevelNormal, testNow, 0)
	if !strings.Contains(line, "\x1b[") {
		t.Errorf("expected styled output with colors enabled, got %q", line)
	}
}

func TestRenderTruncatesToWidth(t *testing.T) {
	cfg := plainConfig()
	cfg.Width = 30
	r := NewRenderer(cfg)

	snap := startedSnap()
	snap.DelegateName = "a-subagent-with-a-very-long-name-indeed"
	snap.TokensIn = 123456
	snap.TokensOut = 7890

	line := r.Render(snap, status.StuckStatus{}, status.LevelNormal, testNow, 0)
	if got := len([]rune(line)); got > 28 {
		t.Errorf("line is %d cells wide, want <= 28: %q", got, line)
	}
	if !strings.HasSuffix(line, "...") {
		t.Errorf("line = %q, want truncation ellipsis", line)
	}
}

// Truncation happens on the plain line before styling, so escape bytes never
// count toward the width and the trailing reset survives the cut.
func TestRenderTruncationKeepsStyleReset(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	defer lipgloss.SetColorProfile(prev)

	cfg := plainConfig()
	cfg.Width = 30
	cfg.ColorsEnabled = true
	r := NewRenderer(cfg)

	snap := startedSnap()
	snap.Activity = status.ActivityExecuting
	snap.ToolName = "bash"
	snap.TokensIn = 123456
	snap.TokensOut = 789012

	styled := r.Render(snap, status.StuckStatus{}, status.LevelNormal, testNow, 0)
	if !strings.HasSuffix(styled, "\x1b[0m") {
		t.Errorf("styled line = %q, must end with the SGR reset", styled)
	}

	plainCfg := cfg
	plainCfg.ColorsEnabled = false
	plain := NewRenderer(plainCfg).Render(snap, status.StuckStatus{}, status.LevelNormal, testNow, 0)
	if got := len([]rune(plain)); got > 28 {
		t.Errorf("printable content is %d cells wide, want <= 28: %q", got, plain)
	}
	if !strings.Contains(styled, plain) {
		t.Errorf("styled line %q must wrap the truncated plain content %q", styled, plain)
	}
}

func TestFramesFallback(t *testing.T) {
	if got := Frames("dots"); len(got) != 10 {
		t.Errorf("dots has %d frames, want 10", len(got))
	}
	if got := Frames("no_such_set"); len(got) != 10 {
		t.Errorf("unknown set must fall back to dots, got %d frames", len(got))
	}
}
