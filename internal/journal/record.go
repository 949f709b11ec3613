package journal

import (
	"time"

	"github.com/asheshgoplani/amp-status/internal/status"
)

// EntryFromSnapshot builds a journal entry from a terminal session snapshot.
func EntryFromSnapshot(snap status.Snapshot, now time.Time) Entry {
	outcome := OutcomeComplete
	if snap.Activity == status.ActivityErrored {
		outcome = OutcomeError
	}
	return Entry{
		StartedAt:    snap.SessionStart,
		DurationSecs: int64(snap.Elapsed(now).Seconds()),
		TokensIn:     snap.TokensIn,
		TokensOut:    snap.TokensOut,
		Turns:        snap.TurnCount,
		Outcome:      outcome,
	}
}
