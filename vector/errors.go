package vector

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/vecnode/engine"
)

// ErrInvalidDimension is returned when a record vector does not hold exactly
// Dimension values.
var ErrInvalidDimension = errors.New("vector: invalid dimension")

// Kind classifies a storage failure.
type Kind int

const (
	// KindFatal covers failures that will not go away by retrying: corruption,
	// I/O errors, schema mismatches.
	KindFatal Kind = iota
	// KindTransient covers lock contention and cancelled or expired contexts.
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	default:
		return "fatal"
	}
}

// StorageError wraps any failure raised by the underlying database.
//
// The original driver error can be accessed via errors.Unwrap.
type StorageError struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("vector: %s failed (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a StorageError of KindTransient.
func IsTransient(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Kind == KindTransient
}

func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	kind := KindFatal
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = KindTransient
	case engine.IsBusy(err):
		kind = KindTransient
	}
	return &StorageError{Op: op, Kind: kind, Err: err}
}
