package vector

import (
	"context"
	"database/sql"
)

// vec10kSchema stores vectors as little-endian float32 BLOBs. The CHECK keeps
// the fixed list length of Dimension elements.
const vec10kSchema = `
CREATE TABLE IF NOT EXISTS vec10k (
    id     TEXT NOT NULL,
    vector BLOB NOT NULL CHECK (length(vector) = 40000),
    meta   TEXT NOT NULL,
    ts     TEXT NOT NULL
);
`

// EnsureSchema creates the vec10k table in the provided database if it does
// not already exist. An existing table is reused as-is.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, vec10kSchema)
	return err
}

// TableExists reports whether the vec10k table is present.
func TableExists(ctx context.Context, db *sql.DB) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, TableName).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
