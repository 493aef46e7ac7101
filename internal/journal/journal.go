// Package journal records memory store mutations in a SQLite database.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/chat-memory/internal/model"
)

// ListParams holds parameters for listing events.
type ListParams struct {
	Key   string
	Op    model.Op
	Limit int
}

// Journal is a SQLite-backed append-only log of store mutations.
type Journal struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Open opens or creates the journal database at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	j := &Journal{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return j, nil
}

func (j *Journal) migrate() error {
	_, err := j.db.Exec(`
	CREATE TABLE IF NOT EXISTS events (
		id     TEXT PRIMARY KEY,
		op     TEXT NOT NULL,
		key    TEXT NOT NULL,
		value  TEXT,
		source TEXT,
		at     TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_key ON events(key);
	CREATE INDEX IF NOT EXISTS idx_events_at ON events(at DESC);
	`)
	return err
}

// newID returns a ULID for t. IDs minted within the same millisecond
// increase, so ordering by ID is ordering by insertion.
func (j *Journal) newID(t time.Time) string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), j.entropy).String()
}

// Record appends ev, assigning an ID and time when they are unset.
func (j *Journal) Record(ctx context.Context, ev model.Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	if ev.ID == "" {
		ev.ID = j.newID(ev.At)
	}

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO events (id, op, key, value, source, at) VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, string(ev.Op), ev.Key, nullString(ev.Value), nullString(ev.Source),
		ev.At.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// List returns events newest first.
func (j *Journal) List(ctx context.Context, p ListParams) ([]model.Event, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 50
	}

	where := []string{"1 = 1"}
	var args []interface{}
	if p.Key != "" {
		where = append(where, "key = ?")
		args = append(args, p.Key)
	}
	if p.Op != "" {
		where = append(where, "op = ?")
		args = append(args, string(p.Op))
	}
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, op, key, value, source, at FROM events
		 WHERE `+strings.Join(where, " AND ")+`
		 ORDER BY id DESC LIMIT ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var (
			ev            model.Event
			op, at        string
			value, source sql.NullString
		)
		if err := rows.Scan(&ev.ID, &op, &ev.Key, &value, &source, &at); err != nil {
			return nil, err
		}
		ev.Op = model.Op(op)
		ev.Value = value.String
		ev.Source = source.String
		ev.At, _ = time.Parse(time.RFC3339Nano, at)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
