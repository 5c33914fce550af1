// Package sqlite keeps an audit log of narration in SQLite, one row per
// opened scope, reported error and attachment.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// Kinds of rows besides the narration channels.
const (
	KindError      = "error"
	KindAttachment = "attachment"
)

// Record is one row of the narration log.
type Record struct {
	RunID      string
	Seq        int64
	ParentSeq  int64 // 0 for top-level rows
	Depth      int
	Kind       string // act, scene, beat, aside, error or attachment
	Line       string
	Gravitas   string
	ErrorText  string
	Attachment string
	Meta       map[string]any
	CreatedAt  time.Time
}

// Filter limits List queries.
type Filter struct {
	RunID string
	Kind  string
	Limit int
}

// RunSummary aggregates one run.
type RunSummary struct {
	RunID     string
	Records   int
	Errors    int
	StartedAt time.Time
}

// Store persists narration records.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite: path is empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	store, err := NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewStore wraps db and ensures the schema.
func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("sqlite: db is nil")
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a single row.
func (s *Store) Record(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO narration_records (
			run_id, seq, parent_seq, depth, kind, line, gravitas, error_text, attachment, meta_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.RunID,
		r.Seq,
		r.ParentSeq,
		r.Depth,
		r.Kind,
		r.Line,
		r.Gravitas,
		r.ErrorText,
		r.Attachment,
		encodeMeta(r.Meta),
		normalizeTime(r.CreatedAt),
	)
	return err
}

// List returns records matching the filter in the order they were written.
func (s *Store) List(ctx context.Context, filter Filter) ([]Record, error) {
	query := `
		SELECT run_id, seq, parent_seq, depth, kind, line, gravitas, error_text, attachment, meta_json, created_at
		FROM narration_records
	`
	var args []any
	where := ""
	addFilter := func(clause string, value any) {
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
		args = append(args, value)
	}
	if filter.RunID != "" {
		addFilter("run_id = ?", filter.RunID)
	}
	if filter.Kind != "" {
		addFilter("kind = ?", filter.Kind)
	}
	query += where + " ORDER BY id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r        Record
			metaJSON string
			created  sql.NullTime
		)
		if err := rows.Scan(
			&r.RunID,
			&r.Seq,
			&r.ParentSeq,
			&r.Depth,
			&r.Kind,
			&r.Line,
			&r.Gravitas,
			&r.ErrorText,
			&r.Attachment,
			&metaJSON,
			&created,
		); err != nil {
			return nil, err
		}
		r.Meta = decodeMeta(metaJSON)
		if created.Valid {
			r.CreatedAt = created.Time
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Runs summarizes every run, oldest first.
func (s *Store) Runs(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, COUNT(*), SUM(CASE WHEN kind = 'error' THEN 1 ELSE 0 END), MIN(id)
		FROM narration_records
		GROUP BY run_id
		ORDER BY MIN(id) ASC
	`)
	if err != nil {
		return nil, err
	}
	var (
		runs   []RunSummary
		firsts []int64
	)
	for rows.Next() {
		var (
			run   RunSummary
			first int64
		)
		if err := rows.Scan(&run.RunID, &run.Records, &run.Errors, &first); err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, run)
		firsts = append(firsts, first)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, first := range firsts {
		var started sql.NullTime
		err := s.db.QueryRowContext(ctx,
			`SELECT created_at FROM narration_records WHERE id = ?`, first,
		).Scan(&started)
		if err != nil {
			return nil, err
		}
		if started.Valid {
			runs[i].StartedAt = started.Time
		}
	}
	return runs, nil
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS narration_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			parent_seq INTEGER NOT NULL DEFAULT 0,
			depth INTEGER NOT NULL,
			kind TEXT NOT NULL,
			line TEXT,
			gravitas TEXT,
			error_text TEXT,
			attachment TEXT,
			meta_json TEXT,
			created_at TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_narration_run ON narration_records(run_id);
		CREATE INDEX IF NOT EXISTS idx_narration_kind ON narration_records(kind);
	`)
	return err
}

// RawMetaKey holds the text of attachment metadata that is not valid JSON.
const RawMetaKey = "raw"

// encodeMeta stores meta as JSON, or as its fmt rendering under RawMetaKey
// when some value cannot be encoded.
func encodeMeta(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		slog.Warn("sqlite: attachment metadata is not JSON, storing its text", "error", err)
		raw, _ = json.Marshal(map[string]string{RawMetaKey: fmt.Sprint(meta)})
	}
	return string(raw)
}

func decodeMeta(text string) map[string]any {
	if text == "" || text == "null" {
		return nil
	}
	var meta map[string]any
	if err := json.Unmarshal([]byte(text), &meta); err != nil {
		slog.Warn("sqlite: corrupt attachment metadata", "meta_json", text, "error", err)
		return map[string]any{RawMetaKey: text}
	}
	return meta
}

func normalizeTime(value time.Time) time.Time {
	if value.IsZero() {
		return time.Now().UTC()
	}
	return value.UTC()
}
