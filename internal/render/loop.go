package render

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/asheshgoplani/amp-status/internal/logging"
	"github.com/asheshgoplani/amp-status/internal/status"
)

var renderLog = logging.ForComponent(logging.CompRender)

// defaultFinalLinger keeps the final summary visible before the line is
// hidden and the loop exits.
const defaultFinalLinger = 500 * time.Millisecond

// LoopConfig wires a render loop.
type LoopConfig struct {
	Interval    time.Duration
	Thresholds  status.Thresholds
	FinalLinger time.Duration // negative disables the linger (tests)
}

// Loop is the single periodic consumer: each tick it snapshots the tracker,
// derives stuck and escalation status, renders, and writes the line only
// when it changed. It is the only component doing terminal I/O; writers
// never wait on it.
type Loop struct {
	tracker    *status.Tracker
	escalator  *status.Escalator
	renderer   *Renderer
	line       *StatusLine
	clock      status.Clock
	interval   time.Duration
	thresholds status.Thresholds
	linger     time.Duration

	tick     int
	errLimit *rate.Limiter
}

// NewLoop assembles a render loop. clock defaults to the system clock.
func NewLoop(tracker *status.Tracker, escalator *status.Escalator, renderer *Renderer, line *StatusLine, clock status.Clock, cfg LoopConfig) *Loop {
	if clock == nil {
		clock = status.SystemClock()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	linger := cfg.FinalLinger
	if linger == 0 {
		linger = defaultFinalLinger
	} else if linger < 0 {
		linger = 0
	}
	return &Loop{
		tracker:    tracker,
		escalator:  escalator,
		renderer:   renderer,
		line:       line,
		clock:      clock,
		interval:   interval,
		thresholds: cfg.Thresholds,
		linger:     linger,
		errLimit:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Run drives the loop until ctx is cancelled or the session reaches a
// terminal state. After a terminal event exactly one more line is flushed,
// then the line is hidden and the loop exits with no dangling wakeups.
func (l *Loop) Run(ctx context.Context) error {
	l.line.Show()
	defer l.line.Hide()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if terminal := l.renderOnce(); terminal {
				if l.linger > 0 {
					select {
					case <-ctx.Done():
					case <-time.After(l.linger):
					}
				}
				return nil
			}
		}
	}
}

// renderOnce performs one tick and reports whether the session is terminal.
func (l *Loop) renderOnce() bool {
	now := l.clock.Now()
	snap := l.tracker.Snapshot()
	stuck := status.DetectStuck(snap, now, l.thresholds.For(snap))
	level := l.escalator.Level(now)

	line := l.renderer.Render(snap, stuck, level, now, l.tick)
	l.tick++

	if err := l.line.Update(line); err != nil {
		if l.errLimit.Allow() {
			renderLog.Warn("status_write_failed", slog.String("error", err.Error()))
		}
	}
	return snap.Terminal
}
