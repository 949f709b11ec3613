package journal

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/asheshgoplani/amp-status/internal/logging"
)

var journalLog = logging.ForComponent(logging.CompJournal)

// SchemaVersion tracks the current journal schema. Bump when adding
// migrations.
const SchemaVersion = 1

// Outcome values recorded for a finished session.
const (
	OutcomeComplete = "complete"
	OutcomeError    = "error"
)

// Journal persists one summary row per completed session. Live indicator
// state never touches the database; only the final numbers do. WAL mode and
// a busy timeout let a reader (`journal` subcommand) coexist with a writer.
type Journal struct {
	db *sql.DB
}

// Entry is one completed-session summary.
type Entry struct {
	ID           int64
	StartedAt    time.Time
	DurationSecs int64
	TokensIn     int64
	TokensOut    int64
	Turns        int
	Outcome      string
}

// Open creates or opens the journal database at dbPath.
func Open(dbPath string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("journal: mkdir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("journal: open: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: wal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: busy timeout: %w", err)
	}

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// Close checkpoints WAL and closes the database.
func (j *Journal) Close() error {
	_, _ = j.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return j.db.Close()
}

// migrate creates tables and stamps the schema version.
func (j *Journal) migrate() error {
	tx, err := j.db.Begin()
	if err != nil {
		return fmt.Errorf("journal: begin migrate: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS metadata (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("journal: create metadata: %w", err)
	}

	if _, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at    INTEGER NOT NULL,
			duration_secs INTEGER NOT NULL,
			tokens_in     INTEGER NOT NULL DEFAULT 0,
			tokens_out    INTEGER NOT NULL DEFAULT 0,
			turns         INTEGER NOT NULL DEFAULT 0,
			outcome       TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("journal: create sessions: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO metadata (key, value) VALUES ('schema_version', ?)
	`, fmt.Sprintf("%d", SchemaVersion)); err != nil {
		return fmt.Errorf("journal: set schema version: %w", err)
	}

	return tx.Commit()
}

// Append records one completed session.
func (j *Journal) Append(e Entry) error {
	_, err := j.db.Exec(`
		INSERT INTO sessions (started_at, duration_secs, tokens_in, tokens_out, turns, outcome)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.StartedAt.Unix(), e.DurationSecs, e.TokensIn, e.TokensOut, e.Turns, e.Outcome)
	if err != nil {
		return fmt.Errorf("journal: append: %w", err)
	}

	journalLog.Debug("session_journaled",
		slog.Int64("duration_secs", e.DurationSecs),
		slog.Int("turns", e.Turns),
		slog.String("outcome", e.Outcome),
	)
	return nil
}

// Recent returns the latest n entries, newest first.
func (j *Journal) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		n = 10
	}

	rows, err := j.db.Query(`
		SELECT id, started_at, duration_secs, tokens_in, tokens_out, turns, outcome
		FROM sessions ORDER BY id DESC LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("journal: recent: %w", err)
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var e Entry
		var startedUnix int64
		if err := rows.Scan(&e.ID, &startedUnix, &e.DurationSecs, &e.TokensIn, &e.TokensOut, &e.Turns, &e.Outcome); err != nil {
			return nil, err
		}
		e.StartedAt = time.Unix(startedUnix, 0)
		result = append(result, e)
	}
	return result, rows.Err()
}
