package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/asheshgoplani/amp-status/internal/status"
)

// maxToolNameLen caps the tool name shown in the executing phrase.
const maxToolNameLen = 20

// DisplayConfig controls which segments the renderer emits.
type DisplayConfig struct {
	ShowTokens    bool
	ShowElapsed   bool
	ColorsEnabled bool
	UnstickHint   bool
	Spinner       string
	Theme         Theme

	// Width is the terminal width lines are truncated to; 0 disables
	// truncation.
	Width int
}

// Renderer maps (snapshot, stuck status, escalation level, tick) to one line
// of text. Render is pure: the same inputs always produce the same line, and
// with colors disabled the output contains no ANSI escapes.
type Renderer struct {
	cfg    DisplayConfig
	frames []string
	styles styleSet
}

// NewRenderer builds a renderer for the given display config.
func NewRenderer(cfg DisplayConfig) *Renderer {
	return &Renderer{
		cfg:    cfg,
		frames: Frames(cfg.Spinner),
		styles: stylesFor(cfg.Theme),
	}
}

// Render produces the status line for one tick. tick drives the spinner
// animation: the frame is frames[tick % len(frames)], so animation speed is
// exactly the render interval.
func (r *Renderer) Render(snap status.Snapshot, stuck status.StuckStatus, level status.Level, now time.Time, tick int) string {
	switch {
	case snap.Terminal:
		return r.renderFinal(snap, now)
	case level == status.LevelCancel:
		return r.paint(r.styles.Warn, glyphWarn+" cancelling... (press again to abort turn)")
	case level == status.LevelAbort || level == status.LevelEmergency:
		return r.paint(r.styles.Warn, glyphWarn+" aborting turn... (press again to exit)")
	case stuck.Stuck:
		return r.renderStuck(stuck)
	default:
		return r.renderNormal(snap, now, tick)
	}
}

func (r *Renderer) renderNormal(snap status.Snapshot, now time.Time, tick int) string {
	parts := []string{r.frame(snap, tick) + " " + activityPhrase(snap)}

	if r.cfg.ShowTokens {
		parts = append(parts, formatTokenPair(snap.TokensIn, snap.TokensOut))
	}
	if r.cfg.ShowElapsed {
		parts = append(parts, FormatElapsed(snap.Elapsed(now)))
	}

	return r.paint(r.styles.Line, strings.Join(parts, separator))
}

func (r *Renderer) renderStuck(stuck status.StuckStatus) string {
	line := fmt.Sprintf("%s %ds idle", glyphWarn, int(stuck.Idle.Seconds()))
	if r.cfg.UnstickHint {
		line += " (Ctrl+C to interrupt)"
	}
	return r.paint(r.styles.Warn, line)
}

func (r *Renderer) renderFinal(snap status.Snapshot, now time.Time) string {
	var head string
	var style = r.styles.Done
	if snap.Activity == status.ActivityErrored {
		head = glyphError + " Session failed"
		style = r.styles.Fail
	} else {
		head = glyphDone + " Session complete"
	}

	parts := []string{head}
	if r.cfg.ShowTokens {
		parts = append(parts, formatTokenPair(snap.TokensIn, snap.TokensOut))
	}
	if r.cfg.ShowElapsed {
		parts = append(parts, FormatElapsed(snap.Elapsed(now)))
	}
	parts = append(parts, fmt.Sprintf("%d turns", snap.TurnCount))

	return r.paint(style, strings.Join(parts, separator))
}

// frame picks the spinner frame for this tick. Streaming gets its own level
// bar animation; everything else cycles the configured frame set.
func (r *Renderer) frame(snap status.Snapshot, tick int) string {
	if snap.Activity == status.ActivityStreaming {
		return streamingFrames[tick%len(streamingFrames)]
	}
	return r.frames[tick%len(r.frames)]
}

// paint truncates the plain line to the terminal width, then applies a style
// only when colors are enabled. Truncating before styling keeps escape bytes
// out of the width measurement and keeps the trailing reset intact, so a cut
// line never bleeds color into the host's output. Styling is skipped under
// NO_COLOR regardless of the global color profile.
func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if r.cfg.Width > 2 {
		s = runewidth.Truncate(s, r.cfg.Width-2, "...")
	}
	if !r.cfg.ColorsEnabled {
		return s
	}
	return style.Render(s)
}

// activityPhrase is the human-readable activity portion of the line.
func activityPhrase(snap status.Snapshot) string {
	if snap.DelegateName != "" {
		return glyphDelegate + " " + snap.DelegateName
	}

	switch snap.Activity {
	case status.ActivityExecuting:
		if snap.ToolName != "" {
			return "executing: " + truncateTool(snap.ToolName)
		}
		return "executing"
	case status.ActivityStreaming:
		return "streaming response"
	case status.ActivityThinking:
		return "thinking"
	case status.ActivityIdle:
		return "waiting for input"
	default:
		return snap.Activity.String()
	}
}

func truncateTool(name string) string {
	runes := []rune(name)
	if len(runes) <= maxToolNameLen {
		return name
	}
	return string(runes[:maxToolNameLen-3]) + "..."
}

// FormatTokens abbreviates a token count: 999 → "999", 1000 → "1.0K",
// 1500000 → "1.5M". The unit switches where %.1f rounds up, so a count just
// under a million prints "1.0M" rather than "1000.0K".
func FormatTokens(n int64) string {
	switch {
	case n >= 999_950:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func formatTokenPair(in, out int64) string {
	return FormatTokens(in) + "↑ " + FormatTokens(out) + "↓"
}

// FormatElapsed renders a duration as mm:ss, rolling to hh:mm:ss at one hour.
func FormatElapsed(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 0 {
		secs = 0
	}
	if secs >= 3600 {
		return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
