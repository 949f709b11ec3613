package status

import (
	"log/slog"
	"sync"
	"time"

	"github.com/asheshgoplani/amp-status/internal/logging"
)

var escalateLog = logging.ForComponent(logging.CompEscalate)

// Level is the interrupt escalation level.
type Level int

const (
	LevelNormal Level = iota
	LevelCancel
	LevelAbort
	LevelEmergency
)

// String returns the level name for logs and hints.
func (l Level) String() string {
	switch l {
	case LevelNormal:
		return "normal"
	case LevelCancel:
		return "cancel"
	case LevelAbort:
		return "abort"
	case LevelEmergency:
		return "emergency"
	default:
		return "unknown"
	}
}

// EscalationWindow is how long consecutive interrupt pulses count toward the
// same escalation level, measured from the first pulse of the window.
const EscalationWindow = 2 * time.Second

// Escalator distinguishes repeated interrupt pulses within tight timing
// windows: one pulse requests a cancel, a second within the window aborts
// the turn, a third forces an emergency exit. It is fed abstract pulses and
// knows nothing about signal delivery.
//
// All window-boundary comparisons use >= so a pulse at exactly
// EscalationWindow after the window start opens a new window rather than
// escalating.
type Escalator struct {
	mu          sync.Mutex
	level       Level
	pressCount  int
	windowStart time.Time
}

// NewEscalator returns a machine at NORMAL.
func NewEscalator() *Escalator {
	return &Escalator{}
}

// Pulse records one interrupt keystroke at time now and returns the
// resulting level. Pulses past the third in a window have no further effect;
// EMERGENCY persists until consumed.
func (e *Escalator) Pulse(now time.Time) Level {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.level == LevelEmergency {
		return LevelEmergency
	}

	if e.pressCount == 0 || now.Sub(e.windowStart) >= EscalationWindow {
		e.windowStart = now
		e.pressCount = 1
		e.level = LevelCancel
	} else {
		e.pressCount++
		switch {
		case e.pressCount == 2:
			e.level = LevelAbort
		case e.pressCount >= 3:
			e.level = LevelEmergency
		}
	}

	escalateLog.Debug("interrupt_pulse",
		slog.Int("press_count", e.pressCount),
		slog.String("level", e.level.String()),
	)
	return e.level
}

// Level reports the current escalation level at time now. An expired window
// that never reached EMERGENCY silently resets to NORMAL: a single isolated
// interrupt is a plain cancel request, not a persistent armed state.
func (e *Escalator) Level(now time.Time) Level {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.level != LevelEmergency && e.pressCount > 0 && now.Sub(e.windowStart) >= EscalationWindow {
		e.resetLocked()
	}
	return e.level
}

// ConsumeEmergency returns true exactly once after EMERGENCY is reached and
// resets the machine, so the owner cannot re-trigger the exit on the same
// tick.
func (e *Escalator) ConsumeEmergency() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.level != LevelEmergency {
		return false
	}
	e.resetLocked()
	return true
}

func (e *Escalator) resetLocked() {
	e.level = LevelNormal
	e.pressCount = 0
	e.windowStart = time.Time{}
}
