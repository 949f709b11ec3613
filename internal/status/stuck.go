package status

import "time"

// StuckStatus is the result of stuck detection for one render tick.
type StuckStatus struct {
	Stuck bool
	Idle  time.Duration
}

// Thresholds selects the idle threshold for a snapshot. Tools that are
// legitimately slow (long bash runs, delegated tasks, web fetches) get a
// larger threshold so they don't false-positive the stuck warning.
type Thresholds struct {
	Default   time.Duration
	SlowTool  time.Duration
	SlowTools []string
}

// For returns the threshold that applies to snap.
func (th Thresholds) For(snap Snapshot) time.Duration {
	if snap.ToolName != "" && th.SlowTool > 0 {
		for _, name := range th.SlowTools {
			if name == snap.ToolName {
				return th.SlowTool
			}
		}
	}
	return th.Default
}

// DetectStuck is a pure function of (snapshot, now, threshold). There is no
// internal timer to drift or double-count; the threshold crossing is always
// recomputed from the authoritative LastActivity. The boundary is inclusive:
// idle == threshold counts as stuck.
func DetectStuck(snap Snapshot, now time.Time, threshold time.Duration) StuckStatus {
	idle := snap.Idle(now)
	stuck := snap.Started && !snap.Terminal && threshold > 0 && idle >= threshold
	return StuckStatus{Stuck: stuck, Idle: idle}
}
