package ingest

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/asheshgoplani/amp-status/internal/status"
)

// maxLineBytes caps one NDJSON line. Events are small; anything larger is a
// host bug and gets skipped by the scanner error path.
const maxLineBytes = 64 * 1024

// StdinReader decodes newline-delimited JSON events from a stream, for
// hosts that pipe events straight into the process instead of writing files.
type StdinReader struct {
	r       io.Reader
	eventCh chan status.Event
}

// NewStdinReader wraps r, normally os.Stdin.
func NewStdinReader(r io.Reader) *StdinReader {
	return &StdinReader{
		r:       r,
		eventCh: make(chan status.Event, eventChanCap),
	}
}

// Events returns the channel delivering parsed events.
func (s *StdinReader) Events() <-chan status.Event {
	return s.eventCh
}

// Run reads lines until EOF or ctx cancellation. Blank lines and malformed
// JSON are skipped. EOF is a normal end of stream, not an error.
func (s *StdinReader) Run(ctx context.Context) error {
	defer close(s.eventCh)

	scanner := bufio.NewScanner(s.r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		ev, err := status.ParseEvent([]byte(line))
		if err != nil {
			ingestLog.Debug("stdin_event_malformed", slog.String("error", err.Error()))
			continue
		}

		deliver(s.eventCh, ev)
	}

	if err := scanner.Err(); err != nil {
		ingestLog.Warn("stdin_read_error", slog.String("error", err.Error()))
	}
	return nil
}
