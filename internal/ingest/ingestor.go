package ingest

import (
	"context"

	"github.com/asheshgoplani/amp-status/internal/status"
)

// Ingestor drains an event channel into the tracker. It is the single
// writer path into session state: sources stay decoupled from tracking and
// a slow consumer shows up as dropped events at the source, never as a
// stalled host.
type Ingestor struct {
	events  <-chan status.Event
	tracker *status.Tracker
}

// NewIngestor wires an event channel to a tracker.
func NewIngestor(events <-chan status.Event, tracker *status.Tracker) *Ingestor {
	return &Ingestor{events: events, tracker: tracker}
}

// Run applies events until ctx is cancelled or the channel closes. A source
// that closes before a terminal event means the host went away mid-session;
// the session is marked errored so consumers wind down instead of waiting on
// events that will never arrive.
func (i *Ingestor) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-i.events:
			if !ok {
				if ctx.Err() == nil && !i.tracker.Snapshot().Terminal {
					ingestLog.Warn("event_stream_closed_mid_session")
					i.tracker.Apply(status.Event{Kind: status.EventSessionError})
				}
				return nil
			}
			i.tracker.Apply(ev)
		}
	}
}
