package engine

import (
	"errors"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Code returns the primary SQLite result code carried by err, or 0 when err
// did not originate in the driver.
func Code(err error) int {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return 0
	}
	// Extended codes keep the primary code in the low byte.
	return se.Code() & 0xff
}

// IsBusy reports whether err is a lock contention error that may succeed if
// retried later.
func IsBusy(err error) bool {
	switch Code(err) {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}
