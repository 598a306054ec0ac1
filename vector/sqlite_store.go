package vector

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteStore is an append-only Store backed by the vec10k table of a SQLite
// database. It keeps no in-memory copy of the rows; every Count goes to the
// database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed Store. It ensures the vec10k
// schema exists in the provided database.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("vector: db is nil")
	}
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, classify("ensure schema", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append inserts records into the vec10k table within one transaction. A
// record with the wrong vector length aborts the whole call before anything
// is written.
func (s *SQLiteStore) Append(ctx context.Context, records ...Record) error {
	if len(records) == 0 {
		return nil
	}
	for _, r := range records {
		if len(r.Vector) != Dimension {
			return fmt.Errorf("%w: record %q has %d values, want %d", ErrInvalidDimension, r.ID, len(r.Vector), Dimension)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO vec10k(id, vector, meta, ts) VALUES(?, ?, ?, ?)`)
	if err != nil {
		return classify("prepare", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.ID, EncodeEmbedding(r.Vector), r.Meta, r.Timestamp); err != nil {
			return classify("append", err)
		}
	}
	return classify("commit", tx.Commit())
}

// Count returns the number of rows in the vec10k table.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vec10k`).Scan(&n); err != nil {
		return 0, classify("count", err)
	}
	return n, nil
}

// TableExists reports whether the vec10k table is still present. It can
// disappear when the database file is cleared externally.
func (s *SQLiteStore) TableExists(ctx context.Context) (bool, error) {
	ok, err := TableExists(ctx, s.db)
	if err != nil {
		return false, classify("table lookup", err)
	}
	return ok, nil
}

// Get loads all rows stored under id in insertion order.
func (s *SQLiteStore) Get(ctx context.Context, id string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, vector, meta, ts FROM vec10k WHERE id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, classify("get", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var blob []byte
		if err := rows.Scan(&r.ID, &blob, &r.Meta, &r.Timestamp); err != nil {
			return nil, classify("get", err)
		}
		if r.Vector, err = DecodeEmbedding(blob); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("get", err)
	}
	return out, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Ensure SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)
