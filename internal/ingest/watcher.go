package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/asheshgoplani/amp-status/internal/logging"
	"github.com/asheshgoplani/amp-status/internal/status"
)

var ingestLog = logging.ForComponent(logging.CompIngest)

const (
	// eventChanCap bounds how far the host can run ahead of the consumer.
	eventChanCap = 64
	// debounceWindow coalesces bursts of file events into one drain pass.
	debounceWindow = 50 * time.Millisecond
	// staleAfter is the age past which leftover event files are discarded
	// at startup instead of replayed.
	staleAfter = 24 * time.Hour
)

// Watcher tails an events directory via fsnotify. The host drops one JSON
// file per event (written tmp + rename, so a watcher never sees a partial
// file); the watcher parses each file, delivers it on a buffered channel,
// and removes the file so a restart does not replay it.
type Watcher struct {
	dir     string
	fsw     *fsnotify.Watcher
	eventCh chan status.Event
}

// NewWatcher creates a watcher for dir, creating it if needed and removing
// event files older than 24 hours.
func NewWatcher(dir string) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create events dir: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		dir:     dir,
		fsw:     fsw,
		eventCh: make(chan status.Event, eventChanCap),
	}
	w.cleanStale()
	return w, nil
}

// Events returns the channel delivering parsed events.
func (w *Watcher) Events() <-chan status.Event {
	return w.eventCh
}

// Run watches the directory until ctx is cancelled. Pending event files are
// drained in filename order on startup so a late-started indicator catches
// up with the session.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	if err := w.fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch events dir %s: %w", w.dir, err)
	}

	w.drainExisting()

	var debounceTimer *time.Timer
	pendingFiles := make(map[string]bool)
	var pendingMu sync.Mutex

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".json" {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			pendingMu.Lock()
			pendingFiles[event.Name] = true
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceWindow, func() {
				pendingMu.Lock()
				files := make([]string, 0, len(pendingFiles))
				for f := range pendingFiles {
					files = append(files, f)
				}
				pendingFiles = make(map[string]bool)
				pendingMu.Unlock()

				sort.Strings(files)
				for _, f := range files {
					w.processFile(f)
				}
			})
			pendingMu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			ingestLog.Warn("event_watcher_error", slog.String("error", err.Error()))
		}
	}
}

// drainExisting processes event files already on disk, oldest name first.
func (w *Watcher) drainExisting() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		w.processFile(filepath.Join(w.dir, name))
	}
}

// processFile parses one event file, delivers it, and consumes the file.
// Unreadable or malformed files are removed without delivery.
func (w *Watcher) processFile(filePath string) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	defer os.Remove(filePath)

	ev, err := status.ParseEvent(data)
	if err != nil {
		ingestLog.Debug("event_file_malformed",
			slog.String("file", filepath.Base(filePath)),
			slog.String("error", err.Error()),
		)
		return
	}

	deliver(w.eventCh, ev)
}

// cleanStale removes event files older than staleAfter.
func (w *Watcher) cleanStale() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}

	cutoff := time.Now().Add(-staleAfter)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(w.dir, entry.Name()))
		}
	}
}

// deliver pushes ev without blocking. A full channel means the consumer is
// behind; the event is dropped so the host side never stalls.
func deliver(ch chan status.Event, ev status.Event) {
	select {
	case ch <- ev:
		ingestLog.Debug("event_delivered", slog.String("kind", ev.Kind))
	default:
		ingestLog.Warn("event_channel_full", slog.String("kind", ev.Kind))
	}
}
