package status

import (
	"log/slog"
	"sync"
	"time"

	"github.com/asheshgoplani/amp-status/internal/logging"
)

var statusLog = logging.ForComponent(logging.CompStatus)

// Activity is the session's current high-level activity.
type Activity int

const (
	ActivityIdle Activity = iota
	ActivityThinking
	ActivityExecuting
	ActivityStreaming
	ActivityDone
	ActivityErrored
)

// String returns the activity name for logs and tests.
func (a Activity) String() string {
	switch a {
	case ActivityIdle:
		return "idle"
	case ActivityThinking:
		return "thinking"
	case ActivityExecuting:
		return "executing"
	case ActivityStreaming:
		return "streaming"
	case ActivityDone:
		return "done"
	case ActivityErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// sessionState is the single mutable record of session facts. It is owned
// exclusively by Tracker; everything outside sees value-copied Snapshots.
type sessionState struct {
	activity     Activity
	toolName     string
	delegateName string
	tokensIn     int64
	tokensOut    int64
	turnCount    int
	sessionStart time.Time
	lastActivity time.Time
	terminal     bool
	started      bool
}

// Snapshot is an immutable copy of session state handed to readers. All
// fields are values; mutating the snapshot cannot affect the live state.
type Snapshot struct {
	Activity     Activity
	ToolName     string
	DelegateName string
	TokensIn     int64
	TokensOut    int64
	TurnCount    int
	SessionStart time.Time
	LastActivity time.Time
	Terminal     bool
	Started      bool
}

// Elapsed returns time since session start, or zero before the first
// session:start.
func (s Snapshot) Elapsed(now time.Time) time.Duration {
	if !s.Started || s.SessionStart.IsZero() {
		return 0
	}
	return now.Sub(s.SessionStart)
}

// Idle returns time since the last state-affecting event.
func (s Snapshot) Idle(now time.Time) time.Duration {
	if !s.Started || s.LastActivity.IsZero() {
		return 0
	}
	return now.Sub(s.LastActivity)
}

// Tracker applies lifecycle events to the session state under a mutex and
// produces isolated snapshots for the render loop. Apply is O(1) and holds
// the lock only for the field updates, so event ingestion is never throttled
// by terminal I/O.
type Tracker struct {
	mu    sync.Mutex
	clock Clock
	state sessionState
}

// NewTracker creates a tracker reading time from clock.
func NewTracker(clock Clock) *Tracker {
	if clock == nil {
		clock = SystemClock()
	}
	return &Tracker{clock: clock}
}

// Apply mutates the session state according to one event. Unknown event
// kinds are logged and ignored. After a terminal event, only session:start
// is accepted (it resets the state for a new session).
func (t *Tracker) Apply(ev Event) {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.terminal && ev.Kind != EventSessionStart {
		statusLog.Debug("event_after_terminal_ignored", slog.String("kind", ev.Kind))
		return
	}

	switch {
	case ev.Kind == EventSessionStart:
		t.state = sessionState{
			activity:     ActivityIdle,
			sessionStart: now,
			lastActivity: now,
			started:      true,
		}

	case ev.Kind == EventSessionEnd:
		t.state.activity = ActivityDone
		t.state.terminal = true
		t.state.lastActivity = now

	case ev.Kind == EventSessionError:
		t.state.activity = ActivityErrored
		t.state.terminal = true
		t.state.lastActivity = now

	case ev.Kind == EventLLMRequest:
		t.state.activity = ActivityThinking
		t.state.lastActivity = now

	case ev.Kind == EventLLMResponse:
		// Counters are monotone: negative deltas are host bugs, not rollbacks.
		if ev.TokensIn > 0 {
			t.state.tokensIn += ev.TokensIn
		}
		if ev.TokensOut > 0 {
			t.state.tokensOut += ev.TokensOut
		}
		if ev.TokensIn < 0 || ev.TokensOut < 0 {
			statusLog.Warn("negative_token_delta_ignored",
				slog.Int64("tokens_in", ev.TokensIn),
				slog.Int64("tokens_out", ev.TokensOut),
			)
		}
		t.state.lastActivity = now

	case isStream(ev.Kind):
		t.state.activity = ActivityStreaming
		t.state.lastActivity = now

	case ev.Kind == EventToolPre:
		t.state.activity = ActivityExecuting
		t.state.toolName = ev.Tool
		t.state.lastActivity = now

	case ev.Kind == EventToolPost:
		t.state.toolName = ""
		t.state.lastActivity = now

	case ev.Kind == EventTurnStart:
		t.state.lastActivity = now

	case ev.Kind == EventTurnEnd:
		t.state.turnCount++
		t.state.lastActivity = now

	case ev.Kind == EventAgentSpawned:
		t.state.delegateName = ev.Agent
		t.state.lastActivity = now

	case ev.Kind == EventAgentComplete:
		t.state.delegateName = ""
		t.state.lastActivity = now

	default:
		statusLog.Debug("unknown_event_ignored", slog.String("kind", ev.Kind))
	}
}

// Snapshot returns a consistent, isolated copy of the session state. The
// lock is held only for the struct copy; readers never observe a torn mix
// of fields from two Applies.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	s := t.state
	t.mu.Unlock()

	return Snapshot{
		Activity:     s.activity,
		ToolName:     s.toolName,
		DelegateName: s.delegateName,
		TokensIn:     s.tokensIn,
		TokensOut:    s.tokensOut,
		TurnCount:    s.turnCount,
		SessionStart: s.sessionStart,
		LastActivity: s.lastActivity,
		Terminal:     s.terminal,
		Started:      s.started,
	}
}
