// Package history persists a record of every toolchain invocation to a
// small SQLite database, so past build outcomes survive across runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Record is one completed build invocation.
type Record struct {
	ID        string
	StartedAt time.Time
	Mode      string
	Engine    string
	Source    string
	Succeeded bool
	TimedOut  bool
	Duration  time.Duration
	Message   string
}

// Store is a SQLite-backed build history.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if necessary) the history database. Use ":memory:"
// for an in-memory database, or a file path for persistent storage.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create history directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		mode TEXT NOT NULL,
		engine TEXT NOT NULL,
		source TEXT NOT NULL,
		succeeded INTEGER NOT NULL,
		timed_out INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		message TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append stores a build record, assigning an ID when none is set.
func (s *Store) Append(ctx context.Context, rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (id, started_at, mode, engine, source, succeeded, timed_out, duration_ms, message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StartedAt.Unix(), rec.Mode, rec.Engine, rec.Source,
		boolToInt(rec.Succeeded), boolToInt(rec.TimedOut), rec.Duration.Milliseconds(), rec.Message,
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert build record: %w", err)
	}
	return rec, nil
}

// Recent returns the most recent n records, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, mode, engine, source, succeeded, timed_out, duration_ms, message
		 FROM builds ORDER BY started_at DESC, rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query build records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var startedAt, succeeded, timedOut, durationMS int64
		if err := rows.Scan(&rec.ID, &startedAt, &rec.Mode, &rec.Engine, &rec.Source,
			&succeeded, &timedOut, &durationMS, &rec.Message); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		rec.StartedAt = time.Unix(startedAt, 0)
		rec.Succeeded = succeeded != 0
		rec.TimedOut = timedOut != 0
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
