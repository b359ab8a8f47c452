/*
Package sqlite provides a SQLite-backed journal.

PURPOSE:
  Durable variant of the logistics event journal. Same append-only
  contract as journal.Memory: no UPDATE, no DELETE, duplicates rejected
  via a unique idempotency-key index.

WAL MODE:
  The database is opened with WAL so monitor reads don't block the
  writer on the tick path.

USAGE:
  j, err := sqlite.New("./data/logistics.db")   // or ":memory:"
  defer j.Close()

SEE ALSO:
  - journal/journal.go: interface and event definitions
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/logistics-engine/economy"
	"github.com/warp/logistics-engine/journal"
)

type Journal struct {
	db *sql.DB
	mu sync.Mutex
}

// New opens (and migrates) a SQLite journal at the given path. Use
// ":memory:" for an in-memory database.
func New(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return j, nil
}

func (j *Journal) Close() error { return j.db.Close() }

func (j *Journal) migrate() error {
	schema := `
	-- Logistics events (append-only)
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		kind TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		facility TEXT,
		sim_time_ns INTEGER NOT NULL,
		recorded_at TEXT NOT NULL,
		idempotency_key TEXT UNIQUE
	);

	CREATE INDEX IF NOT EXISTS idx_events_request ON events(request_id);
	CREATE INDEX IF NOT EXISTS idx_events_recorded ON events(recorded_at);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Append records an event. Fails with ErrDuplicateIdempotencyKey when the
// idempotency key already exists.
func (j *Journal) Append(ctx context.Context, e journal.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO events (id, request_id, event_type, kind, quantity, facility, sim_time_ns, recorded_at, idempotency_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.RequestID, string(e.Type), e.Kind.String(), e.Quantity, e.Facility,
		int64(e.SimTime), e.RecordedAt.UTC().Format(time.RFC3339Nano), nullable(e.IdempotencyKey),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return journal.ErrDuplicateIdempotencyKey
	}
	return err
}

// Recent returns up to n most recent events, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]journal.Event, error) {
	if n <= 0 {
		n = 50
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, request_id, event_type, kind, quantity, facility, sim_time_ns, recorded_at, COALESCE(idempotency_key, '')
		FROM events ORDER BY rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []journal.Event
	for rows.Next() {
		var e journal.Event
		var kindName, recorded string
		var simNS int64
		var facility sql.NullString
		if err := rows.Scan(&e.ID, &e.RequestID, (*string)(&e.Type), &kindName, &e.Quantity, &facility, &simNS, &recorded, &e.IdempotencyKey); err != nil {
			return nil, err
		}
		if kind, kerr := economy.ParseKind(kindName); kerr == nil {
			e.Kind = kind
		}
		e.Facility = facility.String
		e.SimTime = time.Duration(simNS)
		if t, terr := time.Parse(time.RFC3339Nano, recorded); terr == nil {
			e.RecordedAt = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
