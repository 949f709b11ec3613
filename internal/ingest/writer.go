package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/asheshgoplani/amp-status/internal/status"
)

var writeSeq atomic.Uint64

// WriteEvent drops one event file into dir for a watcher to pick up.
// Filenames sort in write order so a catching-up watcher replays events in
// sequence, and the tmp + rename dance keeps partial files invisible.
func WriteEvent(dir string, ev status.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create events dir: %w", err)
	}

	name := fmt.Sprintf("%020d-%06d.json", time.Now().UnixNano(), writeSeq.Add(1))
	filePath := filepath.Join(dir, name)
	tmpPath := filePath + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write tmp event: %w", err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		return fmt.Errorf("rename event: %w", err)
	}
	return nil
}
