package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// JournalEntry records one submitted edit and its outcome.
type JournalEntry struct {
	ID         int64          `json:"id"`
	TS         time.Time      `json:"ts"`
	ObjectType string         `json:"objectType"`
	Handle     string         `json:"handle"`
	GrampsID   string         `json:"grampsId,omitempty"`
	Action     string         `json:"action"`
	Target     string         `json:"target"`
	Status     string         `json:"status"`
	Error      string         `json:"error,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
}

const (
	JournalStatusOK    = "ok"
	JournalStatusError = "error"
)

// Journal is a local, append-only log of edits sent to the server. It is
// diagnostic only; nothing is ever replayed from it.
type Journal struct {
	db *sql.DB
}

func OpenJournal(ctx context.Context, path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL + busy_timeout: the CLI and a running TUI may append concurrently.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateJournal(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

func migrateJournal(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS edits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ts_unixms INTEGER NOT NULL,
			object_type TEXT NOT NULL,
			handle TEXT NOT NULL,
			gramps_id TEXT NOT NULL DEFAULT '',
			action TEXT NOT NULL,
			target TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			payload_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS edits_handle_idx ON edits(handle, ts_unixms);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Append stores e. A zero TS is set to now.
func (j *Journal) Append(ctx context.Context, e JournalEntry) (int64, error) {
	if e.TS.IsZero() {
		e.TS = time.Now().UTC()
	}
	payload := []byte("{}")
	if e.Payload != nil {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			return 0, err
		}
		payload = b
	}
	var errText any
	if strings.TrimSpace(e.Error) != "" {
		errText = e.Error
	}
	res, err := j.db.ExecContext(ctx,
		`INSERT INTO edits (ts_unixms, object_type, handle, gramps_id, action, target, status, error, payload_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.TS.UnixMilli(), e.ObjectType, e.Handle, e.GrampsID, e.Action, e.Target, e.Status, errText, string(payload),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// List returns the newest entries first. limit <= 0 means no limit.
func (j *Journal) List(ctx context.Context, limit int) ([]JournalEntry, error) {
	q := `SELECT id, ts_unixms, object_type, handle, gramps_id, action, target, status, COALESCE(error, ''), payload_json
	      FROM edits ORDER BY ts_unixms DESC, id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []JournalEntry{}
	for rows.Next() {
		var (
			e       JournalEntry
			ms      int64
			payload string
		)
		if err := rows.Scan(&e.ID, &ms, &e.ObjectType, &e.Handle, &e.GrampsID, &e.Action, &e.Target, &e.Status, &e.Error, &payload); err != nil {
			return nil, err
		}
		e.TS = time.UnixMilli(ms).UTC()
		if payload != "" && payload != "{}" {
			_ = json.Unmarshal([]byte(payload), &e.Payload)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
