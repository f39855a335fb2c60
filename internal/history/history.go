// Package history records every answer the esb command obtained from a
// solution in a small SQLite database.
//
// The store uses modernc.org/sqlite, so no cgo is needed.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/elfscript/fireplace"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	at           INTEGER NOT NULL,
	command      TEXT NOT NULL,
	part         INTEGER NOT NULL,
	answer       TEXT NOT NULL,
	running_time INTEGER,
	unit         INTEGER
);
CREATE INDEX IF NOT EXISTS runs_at ON runs (at);
`

// Run is one recorded answer. RunningTime and Unit are meaningful only when
// HasRunningTime is set.
type Run struct {
	ID             uuid.UUID
	At             time.Time
	Command        string
	Part           fireplace.Part
	Answer         string
	HasRunningTime bool
	RunningTime    int64
	Unit           fireplace.MetricPrefix
}

// Elapsed returns the running time as a duration, or 0 when unknown.
func (r Run) Elapsed() time.Duration {
	if !r.HasRunningTime {
		return 0
	}
	return r.Unit.Duration(r.RunningTime)
}

// Store persists runs.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert records r, filling in ID and At when they are zero. It returns the
// stored run.
func (s *Store) Insert(ctx context.Context, r Run) (Run, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.At.IsZero() {
		r.At = time.Now()
	}
	var rt, unit sql.NullInt64
	if r.HasRunningTime {
		rt = sql.NullInt64{Int64: r.RunningTime, Valid: true}
		unit = sql.NullInt64{Int64: int64(r.Unit), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, at, command, part, answer, running_time, unit) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.At.UnixNano(), r.Command, int(r.Part), r.Answer, rt, unit)
	if err != nil {
		return Run{}, fmt.Errorf("recording run: %w", err)
	}
	return r, nil
}

// List returns up to limit runs, newest first. A limit <= 0 returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, at, command, part, answer, running_time, unit FROM runs ORDER BY at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			id      string
			at      int64
			part    int
			rt, pfx sql.NullInt64
		)
		if err := rows.Scan(&id, &at, &r.Command, &part, &r.Answer, &rt, &pfx); err != nil {
			return nil, err
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("run %q: %w", id, err)
		}
		r.At = time.Unix(0, at)
		r.Part = fireplace.Part(part)
		if rt.Valid {
			r.HasRunningTime = true
			r.RunningTime = rt.Int64
			r.Unit = fireplace.MetricPrefix(pfx.Int64)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
