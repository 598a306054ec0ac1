package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"time"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// DriverName is the database/sql driver name registered by modernc.org/sqlite.
const DriverName = "sqlite"

// ErrDriverUnavailable is returned by Probe when the SQLite driver is not
// registered with database/sql.
var ErrDriverUnavailable = errors.New("engine: sqlite driver not registered")

// Options controls how a file-backed database is opened.
type Options struct {
	// BusyTimeout is how long a connection waits on a locked database before
	// returning SQLITE_BUSY.
	BusyTimeout time.Duration

	// WAL switches the journal to write-ahead logging so readers do not block
	// the writer.
	WAL bool
}

// DefaultOptions returns the options used by the service.
func DefaultOptions() Options {
	return Options{BusyTimeout: 5 * time.Second, WAL: true}
}

// Open opens a SQLite database using the modernc.org/sqlite driver.
//
// For file-based databases, pass a path like "./db.sqlite". For in-memory
// databases, pass ":memory:".
func Open(dsn string) (*sql.DB, error) { return sql.Open(DriverName, dsn) }

// Probe reports whether the SQLite backend can be used at all. It does not
// touch the filesystem.
func Probe() error {
	if !slices.Contains(sql.Drivers(), DriverName) {
		return ErrDriverUnavailable
	}
	return nil
}

// DSN builds a file DSN for path with the pragmas described by opts.
func DSN(path string, opts Options) string {
	q := url.Values{}
	if opts.BusyTimeout > 0 {
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", opts.BusyTimeout.Milliseconds()))
	}
	if opts.WAL {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	dsn := "file:" + path
	if len(q) > 0 {
		dsn += "?" + q.Encode()
	}
	return dsn
}

// OpenPath creates dir when missing, opens (or creates) the database file
// name inside it and verifies the connection.
func OpenPath(ctx context.Context, dir, name string, opts Options) (*sql.DB, error) {
	if err := Probe(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("engine: create %s: %w", dir, err)
	}
	db, err := Open(DSN(filepath.Join(dir, name), opts))
	if err != nil {
		return nil, fmt.Errorf("engine: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("engine: ping: %w", err)
	}
	return db, nil
}
