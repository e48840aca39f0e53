// Package ledger keeps a history of benchmark runs in a SQLite database so
// throughput can be compared across builds, machines and batch sizes.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quim0/nvbio-benchmarks/internal/jsonutil"
	"github.com/quim0/nvbio-benchmarks/pkg/api"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at TEXT    NOT NULL,
	input       TEXT    NOT NULL,
	pairs       INTEGER NOT NULL,
	max_seq_len INTEGER NOT NULL,
	batch_size  INTEGER NOT NULL,
	elapsed_ms  REAL    NOT NULL,
	gcups       REAL    NOT NULL,
	digest      TEXT    NOT NULL,
	device      TEXT    NOT NULL,
	report      TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_stride ON runs (max_seq_len, gcups);
`

// Entry is one recorded run.
type Entry struct {
	ID         int64
	RecordedAt time.Time
	Report     api.ReportV1
}

// Ledger is an open run history.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init ledger %s: %w", path, err)
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error { return l.db.Close() }

// Record appends r and returns its row id.
func (l *Ledger) Record(ctx context.Context, r api.ReportV1, at time.Time) (int64, error) {
	blob, err := jsonutil.Compact(r)
	if err != nil {
		return 0, err
	}
	res, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (recorded_at, input, pairs, max_seq_len, batch_size, elapsed_ms, gcups, digest, device, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		at.UTC().Format(time.RFC3339Nano), r.Input, r.Processed, r.MaxSeqLen, r.BatchSize,
		r.ElapsedMS, r.GCUPS, r.Digest, r.Device.Name, string(blob),
	)
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to n runs, newest first.
func (l *Ledger) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, recorded_at, report FROM runs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Best returns the highest-throughput run recorded for maxSeqLen.
// ok is false when no run matches.
func (l *Ledger) Best(ctx context.Context, maxSeqLen int) (e Entry, ok bool, err error) {
	row := l.db.QueryRowContext(ctx,
		`SELECT id, recorded_at, report FROM runs WHERE max_seq_len = ? ORDER BY gcups DESC, id ASC LIMIT 1`, maxSeqLen)
	e, err = scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

type scanner interface{ Scan(dest ...any) error }

func scanEntry(s scanner) (Entry, error) {
	var (
		e        Entry
		at, blob string
	)
	if err := s.Scan(&e.ID, &at, &blob); err != nil {
		return Entry{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return Entry{}, fmt.Errorf("run %d: bad timestamp %q: %w", e.ID, at, err)
	}
	e.RecordedAt = t
	if err := json.Unmarshal([]byte(blob), &e.Report); err != nil {
		return Entry{}, fmt.Errorf("run %d: %w", e.ID, err)
	}
	return e, nil
}
