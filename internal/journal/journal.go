// Package journal records every data refresh in a SQLite database.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fkcurrie/f1-led-golang/internal/cache"
)

// Entry is one recorded refresh attempt
type Entry struct {
	ID           int64
	Started      time.Time
	Duration     time.Duration
	Status       string
	Season       int
	Round        int
	Drivers      int
	Constructors int
	Qualifying   bool
	Error        string
}

// Journal is a cache.Observer that appends refresh outcomes to SQLite
type Journal struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens or creates the journal database at path
func Open(path string, logger *slog.Logger) (*Journal, error) {
	if path == "" {
		return nil, os.ErrInvalid
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal=WAL")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS refreshes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_ms INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			status TEXT NOT NULL,
			season INTEGER NOT NULL DEFAULT 0,
			round INTEGER NOT NULL DEFAULT 0,
			drivers INTEGER NOT NULL DEFAULT 0,
			constructors INTEGER NOT NULL DEFAULT 0,
			qualifying INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT ''
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &Journal{db: db, logger: logger}, nil
}

// RefreshDone records o. Write errors are logged, never returned: the
// journal must not affect the rotation.
func (j *Journal) RefreshDone(ctx context.Context, o cache.Outcome) {
	if err := j.Record(ctx, o); err != nil {
		j.logger.Warn("journal write failed", "error", err)
	}
}

// Record inserts one row for o
func (j *Journal) Record(ctx context.Context, o cache.Outcome) error {
	e := Entry{
		Started:  o.Started,
		Duration: o.Duration(),
		Status:   o.Status.String(),
	}
	if o.Snapshot != nil {
		e.Season = o.Snapshot.Season
		e.Round = o.Snapshot.Round
		e.Drivers = len(o.Snapshot.Drivers)
		e.Constructors = len(o.Snapshot.Constructors)
		e.Qualifying = o.Snapshot.Qualifying != nil
	}
	if o.Err != nil {
		e.Error = o.Err.Error()
	}
	// A refresh cut short by shutdown is still recorded
	_, err := j.db.ExecContext(context.WithoutCancel(ctx), `
		INSERT INTO refreshes (started_ms, duration_ms, status, season, round, drivers, constructors, qualifying, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Started.UnixMilli(), e.Duration.Milliseconds(), e.Status,
		e.Season, e.Round, e.Drivers, e.Constructors, boolInt(e.Qualifying), e.Error)
	if err != nil {
		return fmt.Errorf("insert refresh: %w", err)
	}
	return nil
}

// Recent returns the last n entries, newest first
func (j *Journal) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, started_ms, duration_ms, status, season, round, drivers, constructors, qualifying, error
		FROM refreshes ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query refreshes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                     Entry
			startedMs, durationMs int64
			qualifying            int
		)
		if err := rows.Scan(&e.ID, &startedMs, &durationMs, &e.Status, &e.Season, &e.Round,
			&e.Drivers, &e.Constructors, &qualifying, &e.Error); err != nil {
			return nil, fmt.Errorf("scan refresh: %w", err)
		}
		e.Started = time.UnixMilli(startedMs).UTC()
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.Qualifying = qualifying != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database
func (j *Journal) Close() error {
	return j.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
